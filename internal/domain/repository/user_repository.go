package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/jsonplaceholder-api/internal/domain/entity"
)

var (
	// ErrNotFound is returned when a row addressed by id or email does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a unique constraint rejects a write.
	ErrDuplicate = errors.New("duplicate")
	// ErrValueTooLong is returned when a value exceeds its column width.
	ErrValueTooLong = errors.New("value too long")
)

// DuplicateError names the field whose uniqueness was violated.
type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string { return e.Field + " already exists" }

func (e *DuplicateError) Is(target error) bool { return target == ErrDuplicate }

// UserRepository defines persistence for the User aggregate.
// Reads always populate Address, Geo and Company.
type UserRepository interface {
	List(ctx context.Context) ([]*entity.User, error)
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	// Create inserts the user with its owned rows and fills in all generated ids.
	Create(ctx context.Context, u *entity.User) error
	// Update persists scalar fields and replaces Address/Company wholesale.
	Update(ctx context.Context, u *entity.User) error
	// Delete removes the user and cascades to its address, geo and company.
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}
