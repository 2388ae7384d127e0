// Package forms is the validation and sanitization layer for the HTML
// form handlers. Each entity package declares a static rule table and
// feeds posted values through Check; the sanitizers run on every
// submission so an error re-render never echoes raw input back into a
// template.
package forms

import (
	"html"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// DateLayout is the wire format of <input type="date">.
const DateLayout = "2006-01-02"

var validate = validator.New()

// Rule binds one validator tag expression to a form field. A field may
// appear in several rules; each violated rule contributes its own
// message, so the caller always gets the full list.
type Rule struct {
	Field   string
	Tag     string
	Message string
}

type Error struct {
	Field   string
	Message string
}

type Errors []Error

// Has reports whether any error was recorded for field.
func (e Errors) Has(field string) bool {
	for _, err := range e {
		if err.Field == field {
			return true
		}
	}
	return false
}

// Check runs every rule against the trimmed form value and returns all
// violations in rule order. Optional rules use omitempty in their tag,
// so an absent value skips them entirely.
func Check(values url.Values, rules []Rule) Errors {
	var errs Errors
	for _, r := range rules {
		v := strings.TrimSpace(values.Get(r.Field))
		if err := validate.Var(v, r.Tag); err != nil {
			errs = append(errs, Error{Field: r.Field, Message: r.Message})
		}
	}
	return errs
}

// Clean trims and HTML-escapes a text field. It runs on every
// submission, valid or not, so both the stored value and the
// error-path candidate carry the same cleaned form.
func Clean(s string) string {
	return html.EscapeString(strings.TrimSpace(s))
}

// CleanDate parses a date field into a canonical value. Empty or
// unparsable input yields nil; Check is where an unparsable value
// becomes a user-visible error.
func CleanDate(s string) *time.Time {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return &t
}

// CleanID canonicalizes an identifier for safe use in a lookup.
// Returns "" when the value is not a well-formed UUID.
func CleanID(s string) string {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return ""
	}
	return id.String()
}
