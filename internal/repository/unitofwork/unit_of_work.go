package unitofwork

import (
	"context"

	"notekeeper-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	NoteRepository() contract.NoteRepository
	CategoryRepository() contract.CategoryRepository
}
