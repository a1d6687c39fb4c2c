// Package seed fills an empty users table with the JSONPlaceholder dataset.
package seed

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/jsonplaceholder-api/internal/application"
	"github.com/oksasatya/jsonplaceholder-api/internal/domain/entity"
	"github.com/oksasatya/jsonplaceholder-api/pkg/helpers"
)

//go:embed users.json
var embeddedUsers []byte

// ObjectReader downloads bucket/object from object storage.
type ObjectReader func(ctx context.Context, bucket, object string) ([]byte, error)

// Load returns the raw dataset. An empty source selects the embedded
// dataset; gs://bucket/object reads it through read.
func Load(ctx context.Context, source string, read ObjectReader) ([]byte, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return embeddedUsers, nil
	}
	bucket, object, err := helpers.ParseGCSURL(source)
	if err != nil {
		return nil, err
	}
	if read == nil {
		return nil, fmt.Errorf("seed source %s: object storage not configured", source)
	}
	return read(ctx, bucket, object)
}

type UserCreator interface {
	Create(ctx context.Context, in application.CreateUserInput) (*entity.User, error)
}

type UserCounter interface {
	Count(ctx context.Context) (int64, error)
}

type Seeder struct {
	Users  UserCreator
	Count  UserCounter
	Logger *logrus.Logger
}

func NewSeeder(users UserCreator, count UserCounter, logger *logrus.Logger) *Seeder {
	return &Seeder{Users: users, Count: count, Logger: logger}
}

// Run inserts every user in data when the users table is empty.
// It returns how many users were inserted.
func (s *Seeder) Run(ctx context.Context, data []byte) (int, error) {
	n, err := s.Count.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	if n > 0 {
		helpers.LogInfo(s.Logger, "database already has users, skipping seeding", logrus.Fields{"count": n})
		return 0, nil
	}

	var users []application.CreateUserInput
	if err := json.Unmarshal(data, &users); err != nil {
		return 0, fmt.Errorf("decode seed data: %w", err)
	}

	helpers.LogInfo(s.Logger, "seeding database with initial users", logrus.Fields{"count": len(users)})
	for i, in := range users {
		if _, err := s.Users.Create(ctx, in); err != nil {
			return i, fmt.Errorf("seed user %q: %w", in.Username, err)
		}
	}
	helpers.LogInfo(s.Logger, "seeded database", logrus.Fields{"count": len(users)})
	return len(users), nil
}
