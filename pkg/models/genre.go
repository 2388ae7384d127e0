package models

// Genre is a book category. Checked is not stored; it is set by the
// selection mask when the genre list is rendered as form checkboxes.
type Genre struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Checked bool   `json:"-"`
}

func (g Genre) URL() string {
	return "/catalog/genre/" + g.ID
}
