package model

import "time"

type Note struct {
	Id         uint       `gorm:"primaryKey;autoIncrement"`
	Title      string     `gorm:"type:varchar(255);not null"`
	Content    string     `gorm:"type:text;not null"`
	Archived   bool       `gorm:"not null;default:false"`
	CreatedAt  time.Time  `gorm:"autoCreateTime"`
	Categories []Category `gorm:"many2many:note_categories"`
}

func (Note) TableName() string {
	return "notes"
}
