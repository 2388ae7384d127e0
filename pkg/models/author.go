package models

import "time"

// Author is a writer in the catalog. Dates are nil when unknown.
type Author struct {
	ID          string     `json:"id"`
	FirstName   string     `json:"first_name"`
	FamilyName  string     `json:"family_name"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	DateOfDeath *time.Time `json:"date_of_death,omitempty"`
}

// Name returns the display name, family name first.
func (a Author) Name() string {
	if a.FirstName == "" {
		return a.FamilyName
	}
	return a.FamilyName + ", " + a.FirstName
}

// Lifespan renders the birth-death range, leaving unknown ends blank.
func (a Author) Lifespan() string {
	if a.DateOfBirth == nil && a.DateOfDeath == nil {
		return ""
	}
	return formatDate(a.DateOfBirth) + " - " + formatDate(a.DateOfDeath)
}

func (a Author) URL() string {
	return "/catalog/author/" + a.ID
}

// DateOfBirthISO and DateOfDeathISO feed <input type="date"> values.
func (a Author) DateOfBirthISO() string { return isoDate(a.DateOfBirth) }
func (a Author) DateOfDeathISO() string { return isoDate(a.DateOfDeath) }

func isoDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("Jan 2, 2006")
}
