// Package terms parses payment-term codes ("Net 14") and derives due dates from them.
package terms

import (
	"errors"
	"fmt"
	"time"
)

// Term is a payment-term code from the closed set below.
type Term string

const (
	Net1  Term = "Net 1"
	Net7  Term = "Net 7"
	Net14 Term = "Net 14"
	Net30 Term = "Net 30"
)

var offsets = map[Term]int{
	Net1:  1,
	Net7:  7,
	Net14: 14,
	Net30: 30,
}

// ErrInvalidTerm matches every *InvalidTermError.
var ErrInvalidTerm = errors.New("invalid payment term")

// InvalidTermError reports a code outside the supported set.
type InvalidTermError struct {
	Code string
}

func (e *InvalidTermError) Error() string {
	return fmt.Sprintf("%s %q: expected one of Net 1, Net 7, Net 14, Net 30", ErrInvalidTerm, e.Code)
}

func (e *InvalidTermError) Is(target error) bool { return target == ErrInvalidTerm }

// All returns the supported terms in ascending order.
func All() []Term {
	return []Term{Net1, Net7, Net14, Net30}
}

// Parse validates code. Matching is exact: "net 14" and "Net14" are rejected.
func Parse(code string) (Term, error) {
	t := Term(code)
	if _, ok := offsets[t]; !ok {
		return "", &InvalidTermError{Code: code}
	}
	return t, nil
}

// Days is the number of calendar days between issue and due date.
func (t Term) Days() int { return offsets[t] }

// OffsetDays parses code and returns its day offset.
func OffsetDays(code string) (int, error) {
	t, err := Parse(code)
	if err != nil {
		return 0, err
	}
	return t.Days(), nil
}

// DueDate adds the term's offset in calendar days to issue. Time of day and
// location are those of issue.
func DueDate(issue time.Time, code string) (time.Time, error) {
	days, err := OffsetDays(code)
	if err != nil {
		return time.Time{}, err
	}
	return issue.AddDate(0, 0, days), nil
}
