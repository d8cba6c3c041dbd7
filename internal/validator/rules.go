// Package validator evaluates declarative per-field rules against a form
// draft before submission. Rules run in their declared order and report at
// most one message per field: the first failing rule wins, later rules for
// the same field are skipped.
package validator

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)
	urlPattern   = regexp.MustCompile(`^https?://.+\..+`)
)

type RuleKind int

const (
	// Required fails on empty or whitespace-only text.
	Required RuleKind = iota
	// RequiredSelect fails on an unset select/enum value.
	RequiredSelect
	// RequiredNumeric fails when the value is absent or not a number.
	RequiredNumeric
	// Email fails when a present value does not look like an address.
	Email
	// URL fails when a present value is not an http(s) URL.
	URL
	// SetNonEmpty fails when no option of a multi-select is chosen.
	SetNonEmpty
	// RangeSeparator fails when a range string lacks its "-" separator.
	RangeSeparator
)

// Rule checks one field of a draft.
type Rule struct {
	Field   string
	Kind    RuleKind
	Message string
}

// RuleSet is the fixed, ordered rule list of one entity.
type RuleSet []Rule

// RejectedError carries the field→message map of a blocked submission.
// Submissions rejected here never reach the record gateway.
type RejectedError struct {
	Fields map[string]string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("validation rejected: %d field error(s)", len(e.Fields))
}

// Validate evaluates the rules against a display-model draft and returns a
// mapping from field name to first failing message. An empty map means the
// draft is submittable.
func (rs RuleSet) Validate(draft map[string]any) map[string]string {
	errs := make(map[string]string)
	for _, r := range rs {
		if _, seen := errs[r.Field]; seen {
			continue
		}
		if !r.ok(draft[r.Field]) {
			errs[r.Field] = r.Message
		}
	}
	return errs
}

func (r Rule) ok(v any) bool {
	switch r.Kind {
	case Required, RequiredSelect:
		return strings.TrimSpace(text(v)) != ""
	case RequiredNumeric:
		s := strings.TrimSpace(text(v))
		if s == "" {
			return false
		}
		_, err := strconv.ParseFloat(s, 64)
		return err == nil
	case Email:
		s := strings.TrimSpace(text(v))
		return s == "" || emailPattern.MatchString(s)
	case URL:
		s := strings.TrimSpace(text(v))
		return s == "" || urlPattern.MatchString(s)
	case SetNonEmpty:
		return len(asList(v)) > 0
	case RangeSeparator:
		s := strings.TrimSpace(text(v))
		return s == "" || strings.Contains(s, "-")
	default:
		return true
	}
}

// asList normalizes a multi-select value. JSON-decoded drafts carry []any
// where form sessions carry []string; both count the same.
func asList(v any) []string {
	switch s := v.(type) {
	case []string:
		return s
	case []any:
		out := make([]string, 0, len(s))
		for _, item := range s {
			if trimmed := strings.TrimSpace(text(item)); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		return out
	default:
		return nil
	}
}

func text(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case []string:
		return strings.Join(s, ",")
	default:
		return fmt.Sprint(v)
	}
}
