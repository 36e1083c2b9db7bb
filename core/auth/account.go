package auth

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/tasktutor/core"
)

const Table = "users"

var (
	ErrNotFound           = errors.New("account not found")
	ErrEmailExists        = errors.New("an account with this email already exists")
	ErrInvalidCredentials = errors.New("invalid login credentials")
	ErrAccountDeactivated = errors.New("account deactivated")
)

// Account holds the sign-in credentials of a user.
type Account struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash []byte    `json:"-"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"` // UTC
	LastLogin    null.Time `json:"last_login"` // UTC
}

func (a *Account) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.PasswordHash = hash
	return nil
}

func (a *Account) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(a.PasswordHash, []byte(pwd))
}

func fromRecord(rec core.Record) Account {
	return Account{
		ID:           rec.String("id"),
		Email:        rec.String("email"),
		PasswordHash: []byte(rec.String("password_hash")),
		IsActive:     rec.Bool("is_active"),
		CreatedAt:    rec.Time("created_at"),
		LastLogin:    rec.NullTime("last_login"),
	}
}

func toRecord(a Account) core.Record {
	rec := core.Record{
		"id":            a.ID,
		"email":         a.Email,
		"password_hash": string(a.PasswordHash),
		"is_active":     a.IsActive,
		"created_at":    a.CreatedAt.UTC(),
		"last_login":    nil,
	}
	if a.LastLogin.Valid {
		rec["last_login"] = a.LastLogin.Time.UTC()
	}
	return rec
}

// NewAccount contains information needed to sign up.
type NewAccount struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

func (na *NewAccount) Validate(validate *validator.Validate) error {
	na.Email = core.CleanString(na.Email, true /* lower */)
	return validate.Struct(na)
}

type Credentials struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (c *Credentials) Validate(validate *validator.Validate) error {
	c.Email = core.CleanString(c.Email, true /* lower */)
	return validate.Struct(c)
}

type ResetPassword struct {
	Token           string `json:"token,omitempty" validate:"required"`
	UID             string `json:"uid,omitempty" validate:"required"`
	Password        string `json:"password,omitempty" validate:"required"`
	PasswordConfirm string `json:"password_confirm,omitempty" validate:"required,eqfield=Password"`
}

func (rp ResetPassword) Validate(validate *validator.Validate) error { return validate.Struct(rp) }
