package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/jsonplaceholder-api/internal/domain/entity"
)

type CredentialRepository struct {
	pool *pgxpool.Pool
}

func NewCredentialRepository(pool *pgxpool.Pool) *CredentialRepository {
	return &CredentialRepository{pool: pool}
}

func (r *CredentialRepository) Create(ctx context.Context, c *entity.Credential) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO auth (email, name, password_hash, user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, c.Email, c.Name, c.PasswordHash, c.UserID)

	return translateError(row.Scan(&c.ID))
}

func (r *CredentialRepository) GetByID(ctx context.Context, id int64) (*entity.Credential, error) {
	return r.getOne(ctx, `
		SELECT id, email, name, password_hash, user_id
		FROM auth
		WHERE id = $1
	`, id)
}

func (r *CredentialRepository) GetByEmail(ctx context.Context, email string) (*entity.Credential, error) {
	return r.getOne(ctx, `
		SELECT id, email, name, password_hash, user_id
		FROM auth
		WHERE email = $1
	`, email)
}

func (r *CredentialRepository) getOne(ctx context.Context, query string, arg any) (*entity.Credential, error) {
	c := &entity.Credential{}
	row := r.pool.QueryRow(ctx, query, arg)
	if err := row.Scan(&c.ID, &c.Email, &c.Name, &c.PasswordHash, &c.UserID); err != nil {
		return nil, translateError(err)
	}
	return c, nil
}
