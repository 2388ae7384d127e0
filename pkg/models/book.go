package models

// Book is a catalog work. AuthorID and GenreIDs are the stored
// references; Author and Genres are filled in by repo lookups that
// populate the record for rendering.
type Book struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	AuthorID string   `json:"author_id"`
	Summary  string   `json:"summary"`
	ISBN     string   `json:"isbn"`
	GenreIDs []string `json:"genre_ids"`

	Author *Author `json:"author,omitempty"`
	Genres []Genre `json:"genres,omitempty"`
}

func (b Book) URL() string {
	return "/catalog/book/" + b.ID
}

// AuthorName is safe to call on an unpopulated record.
func (b Book) AuthorName() string {
	if b.Author == nil {
		return ""
	}
	return b.Author.Name()
}
