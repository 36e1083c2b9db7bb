package user

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/tasktutor/core"
)

const Table = "users_public"

var ErrNotFound = errors.New("user not found")

// User is a public user profile.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"` // UTC
}

// NewUser contains information needed to create a new User.
type NewUser struct {
	Name  string `json:"name" validate:"notblank"`
	Email string `json:"email" validate:"required,email"`
}

func (nu *NewUser) Validate(validate *validator.Validate) error {
	nu.Name = core.CleanString(nu.Name)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	return validate.Struct(nu)
}

func fromRecord(rec core.Record) User {
	return User{
		ID:        rec.String("id"),
		Name:      rec.String("name"),
		Email:     rec.String("email"),
		CreatedAt: rec.Time("created_at"),
	}
}

func toRecord(usr User) core.Record {
	return core.Record{
		"id":         usr.ID,
		"name":       usr.Name,
		"email":      usr.Email,
		"created_at": usr.CreatedAt.UTC(),
	}
}
