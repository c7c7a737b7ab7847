package api

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// stats.nba.com wraps every endpoint in the same envelope: named result sets
// carrying a header row and positional rowSet values.
type resultSetsEnvelope struct {
	Resource   string      `json:"resource"`
	ResultSets []resultSet `json:"resultSets"`
}

type resultSet struct {
	Name    string   `json:"name"`
	Headers []string `json:"headers"`
	RowSet  [][]any  `json:"rowSet"`

	index map[string]int
}

func decodeEnvelope(body []byte) (*resultSetsEnvelope, error) {
	var env resultSetsEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("failed to decode stats envelope: %w", err)
	}
	return &env, nil
}

func (e *resultSetsEnvelope) resultSet(name string) (*resultSet, error) {
	for i := range e.ResultSets {
		rs := &e.ResultSets[i]
		if rs.Name == name {
			if rs.index == nil {
				rs.index = make(map[string]int, len(rs.Headers))
				for j, h := range rs.Headers {
					rs.index[h] = j
				}
			}
			return rs, nil
		}
	}
	return nil, fmt.Errorf("result set %q not present in response", name)
}

// row wraps one rowSet entry with header-name access. Accessors record the
// first failure instead of returning errors individually; callers check err()
// once per row.
type row struct {
	rs       *resultSet
	values   []any
	firstErr error
}

func (rs *resultSet) row(values []any) *row {
	return &row{rs: rs, values: values}
}

func (r *row) err() error {
	return r.firstErr
}

func (r *row) fail(header, want string) {
	if r.firstErr == nil {
		r.firstErr = fmt.Errorf("column %s: missing or not a %s", header, want)
	}
}

func (r *row) raw(header string) (any, bool) {
	i, ok := r.rs.index[header]
	if !ok || i >= len(r.values) {
		return nil, false
	}
	return r.values[i], true
}

func (r *row) str(header string) string {
	v, ok := r.raw(header)
	if !ok {
		r.fail(header, "string")
		return ""
	}
	s, ok := v.(string)
	if !ok {
		r.fail(header, "string")
		return ""
	}
	return s
}

func (r *row) float(header string) float64 {
	v, ok := r.raw(header)
	if !ok {
		r.fail(header, "number")
		return 0
	}
	f, ok := v.(float64)
	if !ok {
		r.fail(header, "number")
		return 0
	}
	return f
}

// optFloat returns nil for JSON null, which the game log uses for shooting
// percentages when a player took no attempts.
func (r *row) optFloat(header string) *float64 {
	v, ok := r.raw(header)
	if !ok {
		r.fail(header, "number or null")
		return nil
	}
	if v == nil {
		return nil
	}
	f, ok := v.(float64)
	if !ok {
		r.fail(header, "number or null")
		return nil
	}
	return &f
}

// date parses game log dates, which arrive as "APR 12, 2023".
func (r *row) date(header string) time.Time {
	s := r.str(header)
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse("Jan 2, 2006", normalizeMonthCase(s))
	if err != nil {
		if r.firstErr == nil {
			r.firstErr = fmt.Errorf("column %s: unparseable date %q", header, s)
		}
		return time.Time{}
	}
	return t
}

func normalizeMonthCase(s string) string {
	if len(s) < 3 {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:3]) + s[3:]
}

func atoiSafe(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
