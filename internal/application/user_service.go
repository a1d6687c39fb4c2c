package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/jsonplaceholder-api/internal/domain/entity"
	repo "github.com/oksasatya/jsonplaceholder-api/internal/domain/repository"
	"github.com/oksasatya/jsonplaceholder-api/pkg/apperror"
	"github.com/oksasatya/jsonplaceholder-api/pkg/helpers"
	"github.com/oksasatya/jsonplaceholder-api/pkg/validation"
)

const (
	defaultSearchSize = 10
	maxSearchSize     = 50
)

type UserService struct {
	Repo   repo.UserRepository
	Index  UserIndexer
	Events EventPublisher
	Logger *logrus.Logger
}

func NewUserService(r repo.UserRepository, index UserIndexer, events EventPublisher, logger *logrus.Logger) *UserService {
	if index == nil {
		index = noopIndexer{}
	}
	if events == nil {
		events = noopPublisher{}
	}
	return &UserService{Repo: r, Index: index, Events: events, Logger: logger}
}

type GeoInput struct {
	Lat string `json:"lat" binding:"required,max=50"`
	Lng string `json:"lng" binding:"required,max=50"`
}

type AddressInput struct {
	Street  string    `json:"street" binding:"required,max=100"`
	Suite   string    `json:"suite" binding:"required,max=100"`
	City    string    `json:"city" binding:"required,max=100"`
	Zipcode string    `json:"zipcode" binding:"required,max=20"`
	Geo     *GeoInput `json:"geo" binding:"required"`
}

type CompanyInput struct {
	Name        string `json:"name" binding:"required,max=100"`
	CatchPhrase string `json:"catchPhrase" binding:"required,max=200"`
	BS          string `json:"bs" binding:"required,max=200"`
}

type CreateUserInput struct {
	Name     string        `json:"name" binding:"required,max=255"`
	Username string        `json:"username" binding:"required,max=255"`
	Email    string        `json:"email" binding:"required,email,max=255"`
	Phone    string        `json:"phone" binding:"required,max=255"`
	Website  string        `json:"website" binding:"required,max=255"`
	Address  *AddressInput `json:"address" binding:"required"`
	Company  *CompanyInput `json:"company" binding:"required"`
}

// UpdateUserInput is a partial update. Nil fields are left untouched.
type UpdateUserInput struct {
	Name     *string       `json:"name" binding:"omitnil,nonblank,max=255"`
	Username *string       `json:"username" binding:"omitnil,nonblank,max=255"`
	Email    *string       `json:"email" binding:"omitnil,email,max=255"`
	Phone    *string       `json:"phone" binding:"omitnil,nonblank,max=255"`
	Website  *string       `json:"website" binding:"omitnil,nonblank,max=255"`
	Address  *AddressInput `json:"address" binding:"omitnil"`
	Company  *CompanyInput `json:"company" binding:"omitnil"`
}

func (in UpdateUserInput) isEmpty() bool {
	return in.Name == nil && in.Username == nil && in.Email == nil && in.Phone == nil &&
		in.Website == nil && in.Address == nil && in.Company == nil
}

func validate(in any) error {
	if err := validation.Struct(in); err != nil {
		return apperror.BadRequest("validation failed", validation.ToDetails(err))
	}
	return nil
}

func notFound(id int64) error {
	return apperror.NotFound(fmt.Sprintf("User with ID %d not found", id))
}

// translate maps repository errors onto the client facing taxonomy.
func translate(id int64, err error) error {
	var dup *repo.DuplicateError
	switch {
	case errors.As(err, &dup):
		return apperror.Conflict(fmt.Sprintf("User with this %s already exists", dup.Field), err)
	case errors.Is(err, repo.ErrDuplicate):
		return apperror.Conflict("User already exists", err)
	case errors.Is(err, repo.ErrNotFound):
		return notFound(id)
	case errors.Is(err, repo.ErrValueTooLong):
		return apperror.BadRequest("validation failed", map[string]string{"payload": "value too long"})
	default:
		return apperror.Internal(err)
	}
}

func (s *UserService) List(ctx context.Context) ([]*entity.User, error) {
	users, err := s.Repo.List(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if users == nil {
		users = []*entity.User{}
	}
	return users, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(id, err)
	}
	if u == nil {
		return nil, notFound(id)
	}
	return u, nil
}

func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*entity.User, error) {
	if err := validate(&in); err != nil {
		return nil, err
	}
	u := &entity.User{
		Name:     in.Name,
		Username: in.Username,
		Email:    in.Email,
		Phone:    in.Phone,
		Website:  in.Website,
		Address:  in.Address.toEntity(nil),
		Company:  in.Company.toEntity(nil),
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		return nil, translate(0, err)
	}
	s.afterWrite(ctx, EventUserCreated, u)
	return u, nil
}

// Update applies the present fields of in. A present address or company
// replaces the stored one wholesale; the row ids are kept.
func (s *UserService) Update(ctx context.Context, id int64, in UpdateUserInput) (*entity.User, error) {
	if err := validate(&in); err != nil {
		return nil, err
	}
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.isEmpty() {
		return u, nil
	}

	if in.Name != nil {
		u.Name = *in.Name
	}
	if in.Username != nil {
		u.Username = *in.Username
	}
	if in.Email != nil {
		u.Email = *in.Email
	}
	if in.Phone != nil {
		u.Phone = *in.Phone
	}
	if in.Website != nil {
		u.Website = *in.Website
	}
	if in.Address != nil {
		u.Address = in.Address.toEntity(u.Address)
	}
	if in.Company != nil {
		u.Company = in.Company.toEntity(u.Company)
	}

	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, translate(id, err)
	}
	s.afterWrite(ctx, EventUserUpdated, u)
	return u, nil
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return translate(id, err)
	}
	if err := s.Index.Remove(ctx, id); err != nil {
		helpers.LogWarn(s.Logger, "search index remove failed", err, logrus.Fields{"user_id": id})
	}
	s.publish(ctx, newEvent(EventUserDeleted, map[string]any{"id": id}))
	return nil
}

// Search runs a full text query against the users index.
func (s *UserService) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, apperror.BadRequest("validation failed", map[string]string{"q": "is required"})
	}
	if size <= 0 || size > maxSearchSize {
		size = defaultSearchSize
	}
	hits, err := s.Index.Search(ctx, q, size)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return hits, nil
}

func (s *UserService) afterWrite(ctx context.Context, typ string, u *entity.User) {
	if err := s.Index.Index(ctx, u); err != nil {
		helpers.LogWarn(s.Logger, "search index failed", err, logrus.Fields{"user_id": u.ID})
	}
	s.publish(ctx, newEvent(typ, u))
}

func (s *UserService) publish(ctx context.Context, ev Event) {
	if err := s.Events.Publish(ctx, ev); err != nil {
		helpers.LogWarn(s.Logger, "publish event failed", err, logrus.Fields{"event": ev.Type})
	}
}

func (in *AddressInput) toEntity(prev *entity.Address) *entity.Address {
	a := &entity.Address{
		Street:  in.Street,
		Suite:   in.Suite,
		City:    in.City,
		Zipcode: in.Zipcode,
		Geo:     &entity.Geo{Lat: in.Geo.Lat, Lng: in.Geo.Lng},
	}
	if prev != nil {
		a.ID = prev.ID
		if prev.Geo != nil {
			a.Geo.ID = prev.Geo.ID
		}
	}
	return a
}

func (in *CompanyInput) toEntity(prev *entity.Company) *entity.Company {
	c := &entity.Company{Name: in.Name, CatchPhrase: in.CatchPhrase, BS: in.BS}
	if prev != nil {
		c.ID = prev.ID
	}
	return c
}
