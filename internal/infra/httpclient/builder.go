package httpclient

import (
	"net/url"
	"strings"

	"github.com/aalvaropc/gmscraper/internal/domain"
)

// BuildURL joins escaped path segments onto base and attaches query.
func BuildURL(base string, segments []string, query url.Values) (string, error) {
	base = strings.TrimSpace(base)
	if base == "" {
		return "", &domain.OpError{
			Op:   "httpclient.build",
			Kind: domain.KindInvalidConfig,
			Err:  domain.ErrInvalidConfig,
		}
	}

	u, err := url.Parse(strings.TrimRight(base, "/"))
	if err != nil {
		return "", &domain.OpError{
			Op:   "httpclient.build",
			Kind: domain.KindInvalidConfig,
			Err:  err,
		}
	}

	escaped := make([]string, 0, len(segments))
	for _, s := range segments {
		escaped = append(escaped, url.PathEscape(s))
	}
	if len(escaped) > 0 {
		u = u.JoinPath(escaped...)
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String(), nil
}
