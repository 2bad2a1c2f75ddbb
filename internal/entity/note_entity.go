package entity

import "time"

type Note struct {
	Id         uint
	Title      string
	Content    string
	Archived   bool
	CreatedAt  time.Time
	Categories []Category
}

// HasCategory reports whether the note is already tagged with the category id.
func (n *Note) HasCategory(categoryId uint) bool {
	for _, c := range n.Categories {
		if c.Id == categoryId {
			return true
		}
	}
	return false
}
