// Package reportquery evaluates JSONPath expressions against saved scan reports.
package reportquery

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/PaesslerAG/jsonpath"

	"github.com/aalvaropc/gmscraper/internal/domain"
)

// Apply runs expr against a JSON document and renders the result as text:
// strings as-is, scalars with fmt, objects and arrays as indented JSON.
func Apply(body []byte, expr string) (string, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return "", &domain.OpError{
			Op:   "reportquery.apply",
			Kind: domain.KindInvalidConfig,
			Err:  errors.New("empty jsonpath expression"),
		}
	}

	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return "", &domain.OpError{
			Op:   "reportquery.apply",
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("report is not valid JSON: %w", err),
		}
	}

	val, err := jsonpath.Get(expr, doc)
	if err != nil {
		return "", &domain.OpError{
			Op:   "reportquery.apply",
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("jsonpath %s: %w", expr, err),
		}
	}

	if isEmptyValue(val) {
		return "", &domain.OpError{
			Op:   "reportquery.apply",
			Kind: domain.KindNotFound,
			Err:  fmt.Errorf("jsonpath %s: %w", expr, domain.ErrNotFound),
		}
	}

	return toString(val)
}

func isEmptyValue(v any) bool {
	if v == nil {
		return true
	}
	switch t := v.(type) {
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	default:
		return false
	}
}

func toString(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case float64, bool, int, int64, uint64:
		return fmt.Sprint(t), nil
	case []any:
		if len(t) == 1 {
			return toString(t[0])
		}
		return marshal(t)
	case map[string]any:
		return marshal(t)
	default:
		return fmt.Sprint(t), nil
	}
}

func marshal(v any) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}
