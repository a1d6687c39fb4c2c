package repository

import (
	"context"

	"github.com/oksasatya/jsonplaceholder-api/internal/domain/entity"
)

// CredentialRepository defines persistence for authentication records.
type CredentialRepository interface {
	Create(ctx context.Context, c *entity.Credential) error
	GetByID(ctx context.Context, id int64) (*entity.Credential, error)
	GetByEmail(ctx context.Context, email string) (*entity.Credential, error)
}
