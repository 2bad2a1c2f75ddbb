package specification

import "gorm.io/gorm"

type ByArchived struct {
	Archived bool
}

func (s ByArchived) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("notes.archived = ?", s.Archived)
}

// ByCategoryName matches notes tagged with a category of the given name.
// A subquery keeps the result free of duplicate rows when several
// categories share a name.
type ByCategoryName struct {
	Name string
}

func (s ByCategoryName) Apply(db *gorm.DB) *gorm.DB {
	return db.Where(
		"notes.id IN (SELECT nc.note_id FROM note_categories nc JOIN categories c ON c.id = nc.category_id WHERE c.name = ?)",
		s.Name,
	)
}

// WithCategories preloads the note's category set.
type WithCategories struct{}

func (s WithCategories) Apply(db *gorm.DB) *gorm.DB {
	return db.Preload("Categories")
}
