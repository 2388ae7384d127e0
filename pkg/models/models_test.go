package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestAuthorName(t *testing.T) {
	a := Author{FirstName: "John", FamilyName: "Tolkien"}
	assert.Equal(t, "Tolkien, John", a.Name())

	assert.Equal(t, "Tolkien", Author{FamilyName: "Tolkien"}.Name())
}

func TestAuthorLifespan(t *testing.T) {
	a := Author{
		DateOfBirth: date(1892, time.January, 3),
		DateOfDeath: date(1973, time.September, 2),
	}
	assert.Equal(t, "Jan 3, 1892 - Sep 2, 1973", a.Lifespan())

	assert.Equal(t, "Jan 3, 1892 - ", Author{DateOfBirth: date(1892, time.January, 3)}.Lifespan())
	assert.Equal(t, "", Author{}.Lifespan())
}

func TestCanonicalURLs(t *testing.T) {
	assert.Equal(t, "/catalog/author/a1", Author{ID: "a1"}.URL())
	assert.Equal(t, "/catalog/genre/g1", Genre{ID: "g1"}.URL())
	assert.Equal(t, "/catalog/book/b1", Book{ID: "b1"}.URL())
	assert.Equal(t, "/catalog/bookinstance/i1", BookInstance{ID: "i1"}.URL())
}

func TestDueBackFormatted(t *testing.T) {
	cases := map[string]time.Time{
		"August 3rd, 2017":   time.Date(2017, time.August, 3, 0, 0, 0, 0, time.UTC),
		"January 1st, 2020":  time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC),
		"March 22nd, 2021":   time.Date(2021, time.March, 22, 0, 0, 0, 0, time.UTC),
		"April 11th, 2022":   time.Date(2022, time.April, 11, 0, 0, 0, 0, time.UTC),
		"May 13th, 2023":     time.Date(2023, time.May, 13, 0, 0, 0, 0, time.UTC),
		"June 30th, 2024":    time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC),
		"July 21st, 2025":    time.Date(2025, time.July, 21, 0, 0, 0, 0, time.UTC),
	}
	for want, due := range cases {
		assert.Equal(t, want, BookInstance{DueBack: due}.DueBackFormatted())
	}
}
