package user

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/tasktutor/core"
)

var NowFunc = time.Now // mockable

type Service struct {
	store    core.RecordStore
	validate *validator.Validate
}

func NewService(store core.RecordStore, validate *validator.Validate) *Service {
	return &Service{store: store, validate: validate}
}

// trapNotFound maps core.ErrRecordNotFound to ErrNotFound
func trapNotFound(err error, msg string) error {
	if errors.Cause(err) == core.ErrRecordNotFound {
		return ErrNotFound
	}
	return errors.Wrap(err, msg)
}

// Create validates nu and inserts a new User.
func (svc *Service) Create(ctx context.Context, nu NewUser) (User, error) {
	if err := nu.Validate(svc.validate); err != nil {
		return User{}, err
	}
	usr := User{
		ID:        uuid.NewString(),
		Name:      nu.Name,
		Email:     nu.Email,
		CreatedAt: NowFunc().UTC(),
	}
	rec, err := svc.store.Insert(ctx, Table, toRecord(usr))
	if err != nil {
		return User{}, errors.Wrap(err, "inserting user")
	}
	return fromRecord(rec), nil
}

// QueryAll lists users, newest first.
func (svc *Service) QueryAll(ctx context.Context) ([]User, error) {
	recs, err := svc.store.Select(ctx, Table, nil, core.DBOrdering{Field: "created_at"})
	if err != nil {
		return nil, errors.Wrap(err, "querying users")
	}
	users := make([]User, 0, len(recs))
	for _, rec := range recs {
		users = append(users, fromRecord(rec))
	}
	return users, nil
}

func (svc *Service) GetByID(ctx context.Context, id string) (User, error) {
	recs, err := svc.store.Select(ctx, Table, core.Match{"id": id})
	if err != nil {
		return User{}, errors.Wrap(err, "getting user")
	}
	if len(recs) == 0 {
		return User{}, ErrNotFound
	}
	return fromRecord(recs[0]), nil
}

func (svc *Service) Exists(ctx context.Context, id string) (bool, error) {
	if _, err := svc.GetByID(ctx, id); err != nil {
		if err == ErrNotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	if _, err := svc.store.Delete(ctx, Table, core.Match{"id": id}); err != nil {
		return trapNotFound(err, "deleting user")
	}
	return nil
}
