package contract

import (
	"context"

	"notekeeper-be/internal/entity"
	"notekeeper-be/internal/repository/specification"
)

type NoteRepository interface {
	Create(ctx context.Context, note *entity.Note) error
	// ApplyUpdate overwrites only the supplied columns.
	ApplyUpdate(ctx context.Context, id uint, fields map[string]interface{}) error
	// Delete removes the note and its category associations. Deleting an
	// absent id is a no-op.
	Delete(ctx context.Context, id uint) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Note, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Note, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	AppendCategory(ctx context.Context, noteId uint, category *entity.Category) error
	RemoveCategory(ctx context.Context, noteId uint, category *entity.Category) error
}
