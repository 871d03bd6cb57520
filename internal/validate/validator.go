// Package validate holds the checks that decide whether input is
// acceptable and whether an extracted element is well formed.
package validate

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/caselens/internal/model"
	"github.com/ppiankov/caselens/internal/textnorm"
)

var (
	// ErrEmptyText rejects a request whose text is empty or whitespace.
	ErrEmptyText = errors.New("text is required")

	// ErrTextTooLong rejects a request above the configured size limit.
	ErrTextTooLong = errors.New("text exceeds maximum length")

	// ErrInvalidElement marks an element the merge step must skip.
	ErrInvalidElement = errors.New("invalid element")
)

// IsValidation reports whether err is a caller input error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrEmptyText) || errors.Is(err, ErrTextTooLong)
}

// Request checks an extraction request. maxChars <= 0 disables the length
// limit.
func Request(req model.ExtractionRequest, maxChars int) error {
	if strings.TrimSpace(req.Text) == "" {
		return ErrEmptyText
	}
	if maxChars > 0 {
		if n := utf8.RuneCountInString(req.Text); n > maxChars {
			return fmt.Errorf("%w: %d characters, limit %d", ErrTextTooLong, n, maxChars)
		}
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidElement, fmt.Sprintf(format, args...))
}

// Element checks that e has a known source, a finite confidence in [0,1],
// and exactly the payload its category calls for.
func Element(e model.Element) error {
	switch e.Source {
	case model.SourceRule, model.SourceAI, model.SourceMerged:
	case "":
		return invalid("%s element has no source", e.Category)
	default:
		return invalid("%s element has unknown source %q", e.Category, e.Source)
	}

	if math.IsNaN(e.Confidence) || math.IsInf(e.Confidence, 0) || e.Confidence < 0 || e.Confidence > 1 {
		return invalid("%s element confidence %v out of range", e.Category, e.Confidence)
	}

	if e.Category == "" {
		return invalid("element has no category")
	}
	if !e.HasPayload() {
		return invalid("%s element payload does not match its category", e.Category)
	}

	switch e.Category {
	case model.CategoryDate:
		if iso, ok := textnorm.ParseDate(e.Date.Date); !ok || iso != e.Date.Date {
			return invalid("date %q is not an ISO calendar date", e.Date.Date)
		}
	case model.CategoryParty:
		if strings.TrimSpace(e.Party.Name) == "" {
			return invalid("party has no name")
		}
	case model.CategoryAmount:
		if !e.Amount.Value.IsPositive() {
			return invalid("amount %s is not positive", e.Amount.Value)
		}
		if e.Amount.Currency == "" {
			return invalid("amount has no currency")
		}
	case model.CategoryClause:
		if strings.TrimSpace(e.Clause.Law) == "" {
			return invalid("clause has no law name")
		}
	case model.CategoryFact:
		if strings.TrimSpace(e.Fact.Text) == "" {
			return invalid("fact has no text")
		}
	case model.CategoryCaseNumber:
		if strings.TrimSpace(e.CaseNumber.Number) == "" {
			return invalid("case number is empty")
		}
	}
	return nil
}

// Elements keeps the valid elements of els in order and counts the rest.
func Elements(els []model.Element) (valid []model.Element, skipped int) {
	valid = make([]model.Element, 0, len(els))
	for _, e := range els {
		if err := Element(e); err != nil {
			skipped++
			continue
		}
		valid = append(valid, e)
	}
	return valid, skipped
}
