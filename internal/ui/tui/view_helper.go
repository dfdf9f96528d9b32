package tui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"

	"github.com/aalvaropc/gmscraper/internal/domain"
)

func clampString(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))

	n := 0
	for _, r := range s {
		if n >= maxLen {
			break
		}
		b.WriteRune(r)
		n++
	}
	return b.String() + "…"
}

func groupDescription(index int, g domain.Group) string {
	members := "1 member"
	if g.MemberCount != 1 {
		members = humanize.Comma(int64(g.MemberCount)) + " members"
	}
	return fmt.Sprintf("#%d · %s · id %s", index, members, g.ID)
}
