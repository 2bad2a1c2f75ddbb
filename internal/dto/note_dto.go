package dto

import "time"

type CreateNoteRequest struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
}

// UpdateNoteRequest carries partial updates. Nil means "leave the field
// alone"; a supplied value must be non-empty after trimming.
type UpdateNoteRequest struct {
	Id      uint    `json:"-"`
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

type NoteResponse struct {
	Id         uint               `json:"id"`
	Title      string             `json:"title"`
	Content    string             `json:"content"`
	Archived   bool               `json:"archived"`
	CreatedAt  time.Time          `json:"createdAt"`
	Categories []CategoryResponse `json:"categories"`
}

// ListNotesQuery holds the decoded query filters for GET /notes.
// Nil pointers mean the filter was absent.
type ListNotesQuery struct {
	Archived     *bool
	CategoryName *string
}
