// Package prompt asks line-oriented questions on a terminal.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/aalvaropc/gmscraper/internal/domain"
	"github.com/aalvaropc/gmscraper/internal/ports"
)

// ErrNoInput is returned when input ends before an answer is read.
var ErrNoInput = errors.New("no input")

type readResult struct {
	line string
	err  error
}

// Line reads answers from in. A read abandoned by a cancelled context stays
// pending, and its line answers the next question.
type Line struct {
	in  *bufio.Reader
	out io.Writer

	mu      sync.Mutex
	pending chan readResult
}

var _ ports.Prompter = (*Line)(nil)

func NewLine(in io.Reader, out io.Writer) *Line {
	return &Line{in: bufio.NewReader(in), out: out}
}

// Ask prints question and returns the next line without surrounding space.
// A final line without a newline is still returned.
func (p *Line) Ask(ctx context.Context, question string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if _, err := fmt.Fprint(p.out, question); err != nil {
		return "", err
	}

	if p.pending == nil {
		ch := make(chan readResult, 1)
		go func() {
			line, err := p.in.ReadString('\n')
			ch <- readResult{line: line, err: err}
		}()
		p.pending = ch
	}

	var res readResult
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res = <-p.pending:
		p.pending = nil
	}

	if res.err != nil {
		if errors.Is(res.err, io.EOF) && res.line != "" {
			return strings.TrimSpace(res.line), nil
		}
		if errors.Is(res.err, io.EOF) {
			return "", &domain.OpError{Op: "prompt.ask", Kind: domain.KindExecution, Err: ErrNoInput}
		}
		return "", &domain.OpError{Op: "prompt.ask", Kind: domain.KindExecution, Err: res.err}
	}
	return strings.TrimSpace(res.line), nil
}

// AskDateRange asks for a start and end date (YYYY-MM-DD) and parses them in loc.
func AskDateRange(ctx context.Context, p ports.Prompter, loc *time.Location) (domain.DateRange, error) {
	start, err := p.Ask(ctx, "Start date (YYYY-MM-DD): ")
	if err != nil {
		return domain.DateRange{}, err
	}
	end, err := p.Ask(ctx, "End date   (YYYY-MM-DD): ")
	if err != nil {
		return domain.DateRange{}, err
	}
	return domain.ParseDateRange(start, end, loc)
}
