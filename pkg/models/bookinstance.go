package models

import (
	"fmt"
	"time"
)

// Copy statuses. A new copy starts in maintenance until shelved.
const (
	StatusAvailable   = "Available"
	StatusMaintenance = "Maintenance"
	StatusLoaned      = "Loaned"
	StatusReserved    = "Reserved"
)

// AllStatuses is the render order for status selectors.
var AllStatuses = []string{StatusAvailable, StatusMaintenance, StatusLoaned, StatusReserved}

// BookInstance is a physical copy of a Book.
type BookInstance struct {
	ID      string    `json:"id"`
	BookID  string    `json:"book_id"`
	Imprint string    `json:"imprint"`
	Status  string    `json:"status"`
	DueBack time.Time `json:"due_back"`

	Book *Book `json:"book,omitempty"`
}

func (bi BookInstance) URL() string {
	return "/catalog/bookinstance/" + bi.ID
}

// DueBackFormatted renders the due date as e.g. "August 3rd, 2017".
func (bi BookInstance) DueBackFormatted() string {
	d := bi.DueBack
	return fmt.Sprintf("%s %d%s, %d", d.Month().String(), d.Day(), ordinal(d.Day()), d.Year())
}

// DueBackISO feeds the <input type="date"> value on the copy form.
func (bi BookInstance) DueBackISO() string {
	return bi.DueBack.Format("2006-01-02")
}

// BookTitle is safe to call on an unpopulated record.
func (bi BookInstance) BookTitle() string {
	if bi.Book == nil {
		return ""
	}
	return bi.Book.Title
}

func ordinal(day int) string {
	if day >= 11 && day <= 13 {
		return "th"
	}
	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	default:
		return "th"
	}
}
