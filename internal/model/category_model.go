package model

// Category name carries no uniqueness constraint: duplicate names are
// allowed and show up as separate filter options.
type Category struct {
	Id   uint   `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"type:varchar(255);not null"`
}

func (Category) TableName() string {
	return "categories"
}
