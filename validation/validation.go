// Package validation collects field violations for request payloads.
package validation

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"
)

// Violation codes.
const (
	CodeRequired = "required"
	CodeTooShort = "too_short"
	CodeTooLong  = "too_long"
	CodeInvalid  = "invalid"
)

type Violation struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}

// Violations keeps the order in which problems were found.
type Violations []Violation

func (v Violations) Empty() bool { return len(v) == 0 }

func (v *Violations) Add(field, code, message string) {
	*v = append(*v, Violation{Field: field, Code: code, Message: message})
}

// Has reports whether field already has a violation.
func (v Violations) Has(field string) bool {
	for _, x := range v {
		if x.Field == field {
			return true
		}
	}
	return false
}

func Required(field, value string, v *Violations) {
	if strings.TrimSpace(value) == "" {
		v.Add(field, CodeRequired, "Required.")
	}
}

// Length checks the rune count of value against [minLen, maxLen]. msg overrides the
// default message for values that are too short.
func Length(field, value string, minLen, maxLen int, msg string, v *Violations) {
	n := utf8.RuneCountInString(value)
	switch {
	case n < minLen:
		if msg == "" {
			msg = fmt.Sprintf("Must be at least %d characters long.", minLen)
		}
		v.Add(field, CodeTooShort, msg)
	case n > maxLen:
		v.Add(field, CodeTooLong, fmt.Sprintf("Must be at most %d characters long.", maxLen))
	}
}

// Email accepts a bare address such as "a@b.co".
func Email(field, value string, v *Violations) {
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value || !strings.Contains(value[strings.LastIndex(value, "@")+1:], ".") {
		v.Add(field, CodeInvalid, "Invalid email address.")
	}
}

// OneOf checks that value is one of allowed.
func OneOf(field, value string, allowed []string, v *Violations) {
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	v.Add(field, CodeInvalid, fmt.Sprintf("Must be one of: %s.", strings.Join(allowed, ", ")))
}
