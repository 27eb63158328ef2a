package unitofwork

import (
	"context"

	"cat-cards-be/internal/repository/contract"
)

// UnitOfWork groups repository access with an optional transaction scope.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	FolderRepository() contract.FolderRepository
	NoteRepository() contract.NoteRepository
}
