package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/jsonplaceholder-api/internal/domain/entity"
	"github.com/oksasatya/jsonplaceholder-api/internal/domain/repository"
)

// UserRepository persists the user aggregate across the users, addresses,
// geos and companies tables. Every write runs in a single transaction.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const selectUsers = `
	SELECT u.id, u.name, u.username, u.email, u.phone, u.website,
	       a.id, a.street, a.suite, a.city, a.zipcode,
	       g.id, g.lat, g.lng,
	       c.id, c.name, c.catch_phrase, c.bs
	FROM users u
	LEFT JOIN addresses a ON a.id = u.address_id
	LEFT JOIN geos g ON g.id = a.geo_id
	LEFT JOIN companies c ON c.id = u.company_id`

// joinedRow holds the nullable columns produced by the LEFT JOINs.
type joinedRow struct {
	addrID                           *int64
	street, suite, city, zipcode     *string
	geoID                            *int64
	lat, lng                         *string
	compID                           *int64
	compName, catchPhrase, companyBS *string
}

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	var j joinedRow
	if err := row.Scan(
		&u.ID, &u.Name, &u.Username, &u.Email, &u.Phone, &u.Website,
		&j.addrID, &j.street, &j.suite, &j.city, &j.zipcode,
		&j.geoID, &j.lat, &j.lng,
		&j.compID, &j.compName, &j.catchPhrase, &j.companyBS,
	); err != nil {
		return nil, err
	}
	if j.addrID != nil {
		u.Address = &entity.Address{
			ID:      *j.addrID,
			Street:  deref(j.street),
			Suite:   deref(j.suite),
			City:    deref(j.city),
			Zipcode: deref(j.zipcode),
		}
		if j.geoID != nil {
			u.Address.Geo = &entity.Geo{ID: *j.geoID, Lat: deref(j.lat), Lng: deref(j.lng)}
		}
	}
	if j.compID != nil {
		u.Company = &entity.Company{
			ID:          *j.compID,
			Name:        deref(j.compName),
			CatchPhrase: deref(j.catchPhrase),
			BS:          deref(j.companyBS),
		}
	}
	return u, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (r *UserRepository) List(ctx context.Context) ([]*entity.User, error) {
	rows, err := r.pool.Query(ctx, selectUsers+` ORDER BY u.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]*entity.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, selectUsers+` WHERE u.id = $1`, id))
	if err != nil {
		return nil, translateError(err)
	}
	return u, nil
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		addrID, err := insertAddress(ctx, tx, u.Address)
		if err != nil {
			return err
		}
		compID, err := insertCompany(ctx, tx, u.Company)
		if err != nil {
			return err
		}
		return tx.QueryRow(ctx, `
			INSERT INTO users (name, username, email, phone, website, address_id, company_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id
		`, u.Name, u.Username, u.Email, u.Phone, u.Website, addrID, compID).Scan(&u.ID)
	})
	return translateError(err)
}

// Update writes scalar fields and the nested rows. Nested rows keep their
// ids when present and are inserted when the user had none.
func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		addrID, err := upsertAddress(ctx, tx, u.Address)
		if err != nil {
			return err
		}
		compID, err := upsertCompany(ctx, tx, u.Company)
		if err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `
			UPDATE users
			SET name = $2, username = $3, email = $4, phone = $5, website = $6,
			    address_id = $7, company_id = $8
			WHERE id = $1
		`, u.ID, u.Name, u.Username, u.Email, u.Phone, u.Website, addrID, compID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return repository.ErrNotFound
		}
		return nil
	})
	return translateError(err)
}

// Delete removes the user row, then the address, geo and company it owned.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var addrID, compID *int64
		if err := tx.QueryRow(ctx,
			`DELETE FROM users WHERE id = $1 RETURNING address_id, company_id`, id,
		).Scan(&addrID, &compID); err != nil {
			return err
		}
		if addrID != nil {
			var geoID int64
			if err := tx.QueryRow(ctx,
				`DELETE FROM addresses WHERE id = $1 RETURNING geo_id`, *addrID,
			).Scan(&geoID); err != nil {
				return err
			}
			if _, err := tx.Exec(ctx, `DELETE FROM geos WHERE id = $1`, geoID); err != nil {
				return err
			}
		}
		if compID != nil {
			if _, err := tx.Exec(ctx, `DELETE FROM companies WHERE id = $1`, *compID); err != nil {
				return err
			}
		}
		return nil
	})
	return translateError(err)
}

func insertAddress(ctx context.Context, tx pgx.Tx, a *entity.Address) (*int64, error) {
	if a == nil {
		return nil, nil
	}
	if a.Geo == nil {
		a.Geo = &entity.Geo{}
	}
	if err := tx.QueryRow(ctx,
		`INSERT INTO geos (lat, lng) VALUES ($1, $2) RETURNING id`, a.Geo.Lat, a.Geo.Lng,
	).Scan(&a.Geo.ID); err != nil {
		return nil, err
	}
	if err := tx.QueryRow(ctx, `
		INSERT INTO addresses (street, suite, city, zipcode, geo_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, a.Street, a.Suite, a.City, a.Zipcode, a.Geo.ID).Scan(&a.ID); err != nil {
		return nil, err
	}
	return &a.ID, nil
}

func insertCompany(ctx context.Context, tx pgx.Tx, c *entity.Company) (*int64, error) {
	if c == nil {
		return nil, nil
	}
	if err := tx.QueryRow(ctx,
		`INSERT INTO companies (name, catch_phrase, bs) VALUES ($1, $2, $3) RETURNING id`,
		c.Name, c.CatchPhrase, c.BS,
	).Scan(&c.ID); err != nil {
		return nil, err
	}
	return &c.ID, nil
}

func upsertAddress(ctx context.Context, tx pgx.Tx, a *entity.Address) (*int64, error) {
	if a == nil {
		return nil, nil
	}
	if a.ID == 0 || a.Geo == nil || a.Geo.ID == 0 {
		return insertAddress(ctx, tx, a)
	}
	if _, err := tx.Exec(ctx,
		`UPDATE geos SET lat = $2, lng = $3 WHERE id = $1`, a.Geo.ID, a.Geo.Lat, a.Geo.Lng,
	); err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx, `
		UPDATE addresses SET street = $2, suite = $3, city = $4, zipcode = $5
		WHERE id = $1
	`, a.ID, a.Street, a.Suite, a.City, a.Zipcode); err != nil {
		return nil, err
	}
	return &a.ID, nil
}

func upsertCompany(ctx context.Context, tx pgx.Tx, c *entity.Company) (*int64, error) {
	if c == nil {
		return nil, nil
	}
	if c.ID == 0 {
		return insertCompany(ctx, tx, c)
	}
	if _, err := tx.Exec(ctx,
		`UPDATE companies SET name = $2, catch_phrase = $3, bs = $4 WHERE id = $1`,
		c.ID, c.Name, c.CatchPhrase, c.BS,
	); err != nil {
		return nil, err
	}
	return &c.ID, nil
}
