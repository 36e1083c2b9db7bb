package auth

import (
	"context"
	"net/mail"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/tasktutor/core"
)

type (
	// SetPassword is used by operators to set an account password directly.
	SetPassword struct {
		Email           string `json:"email" validate:"required,email"`
		Password        string `json:"password" validate:"required"`
		PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
	}

	// Service manages accounts, password resets and access tokens. It keeps no session state.
	Service struct {
		store    core.RecordStore
		mailSvc  core.EmailService
		validate *validator.Validate
		tokens   tokenGen

		appName           string
		secretKey         []byte
		jwtExpiration     time.Duration
		refreshExpiration time.Duration
	}

	passwordResetData struct {
		UID   string
		Token string
	}
)

func NewService(
	store core.RecordStore,
	mailSvc core.EmailService,
	validate *validator.Validate,
	translator ut.Translator,
	conf *core.Config,
) *Service {
	RegisterValidators(validate, translator)
	return &Service{
		store:             store,
		mailSvc:           mailSvc,
		validate:          validate,
		tokens:            tokenGen{secret: []byte(conf.SecretKey), timeout: conf.PasswordResetTimeoutDelta},
		appName:           conf.AppName,
		secretKey:         []byte(conf.SecretKey),
		jwtExpiration:     conf.Server.JWTExpirationDelta,
		refreshExpiration: conf.Server.JWTRefreshExpirationDelta,
	}
}

func (sp *SetPassword) Validate(validate *validator.Validate) error {
	sp.Email = core.CleanString(sp.Email, true /* lower */)
	return validate.Struct(sp)
}

func (svc *Service) get(ctx context.Context, match core.Match) (Account, error) {
	recs, err := svc.store.Select(ctx, Table, match)
	if err != nil {
		return Account{}, errors.Wrap(err, "querying accounts")
	}
	if len(recs) == 0 {
		return Account{}, ErrNotFound
	}
	return fromRecord(recs[0]), nil
}

func (svc *Service) GetByID(ctx context.Context, id string) (Account, error) {
	return svc.get(ctx, core.Match{"id": id})
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (Account, error) {
	return svc.get(ctx, core.Match{"email": core.CleanString(email, true /* lower */)})
}

func (svc *Service) save(ctx context.Context, acc Account) (Account, error) {
	fields := toRecord(acc)
	delete(fields, "id")
	rec, err := svc.store.Update(ctx, Table, core.Match{"id": acc.ID}, fields)
	if err != nil {
		if errors.Cause(err) == core.ErrRecordNotFound {
			return Account{}, ErrNotFound
		}
		return Account{}, errors.Wrap(err, "updating account")
	}
	return fromRecord(rec), nil
}

// SignUp validates na and creates an active account.
func (svc *Service) SignUp(ctx context.Context, na NewAccount) (Account, error) {
	if err := na.Validate(svc.validate); err != nil {
		return Account{}, err
	}
	if _, err := svc.GetByEmail(ctx, na.Email); err == nil {
		return Account{}, core.NewValidationError(ErrEmailExists, core.FieldError{Field: "email", Error: ErrEmailExists.Error()})
	} else if err != ErrNotFound {
		return Account{}, err
	}

	acc := Account{
		ID:        uuid.NewString(),
		Email:     na.Email,
		IsActive:  true,
		CreatedAt: NowFunc().UTC(),
	}
	if err := acc.SetPassword(na.Password); err != nil {
		return Account{}, errors.Wrap(err, "hashing password")
	}
	rec, err := svc.store.Insert(ctx, Table, toRecord(acc))
	if err != nil {
		return Account{}, errors.Wrap(err, "inserting account")
	}
	return fromRecord(rec), nil
}

// Authenticate checks the credentials and records the login.
func (svc *Service) Authenticate(ctx context.Context, email, pwd string) (Account, error) {
	acc, err := svc.GetByEmail(ctx, email)
	if err != nil {
		if err == ErrNotFound {
			return Account{}, ErrInvalidCredentials
		}
		return Account{}, errors.Wrap(err, "finding account by email")
	}
	if err := acc.CheckPassword(pwd); err != nil {
		return Account{}, ErrInvalidCredentials
	}
	if !acc.IsActive {
		return Account{}, ErrAccountDeactivated
	}
	acc.LastLogin = null.TimeFrom(NowFunc().UTC())
	return svc.save(ctx, acc)
}

// SignIn authenticates and issues a session.
func (svc *Service) SignIn(ctx context.Context, creds Credentials) (Session, error) {
	if err := creds.Validate(svc.validate); err != nil {
		return Session{}, err
	}
	acc, err := svc.Authenticate(ctx, creds.Email, creds.Password)
	if err != nil {
		return Session{}, err
	}
	return svc.IssueSession(acc)
}

// RequestPasswordReset emails a reset link to an active account. ErrNotFound is returned for unknown emails.
func (svc *Service) RequestPasswordReset(ctx context.Context, email string) error {
	acc, err := svc.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if !acc.IsActive {
		return ErrNotFound
	}
	token, err := svc.tokens.makeToken(acc)
	if err != nil {
		return errors.Wrap(err, "making password reset token")
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Address: acc.Email}},
		Subject:      "Password Reset",
		TemplateName: "password_reset",
		TemplateData: passwordResetData{UID: EncodeUID(acc), Token: token},
	})
	return nil
}

// ResetPassword sets a new password given a valid reset token.
func (svc *Service) ResetPassword(ctx context.Context, rp ResetPassword) (Account, error) {
	if err := rp.Validate(svc.validate); err != nil {
		return Account{}, err
	}
	id, err := decodeUID(rp.UID)
	if err != nil {
		return Account{}, core.NewValidationError(ErrInvalidToken)
	}
	acc, err := svc.GetByID(ctx, id)
	if err != nil {
		if err == ErrNotFound {
			return Account{}, core.NewValidationError(ErrInvalidToken)
		}
		return Account{}, err
	}
	if err := svc.tokens.verifyToken(acc, rp.Token); err != nil {
		return Account{}, core.NewValidationError(err)
	}
	if err := acc.SetPassword(rp.Password); err != nil {
		return Account{}, errors.Wrap(err, "hashing password")
	}
	return svc.save(ctx, acc)
}

// SetPassword sets the password of an existing account and reactivates it.
func (svc *Service) SetPassword(ctx context.Context, sp SetPassword) (Account, error) {
	if err := sp.Validate(svc.validate); err != nil {
		return Account{}, err
	}
	acc, err := svc.GetByEmail(ctx, sp.Email)
	if err != nil {
		return Account{}, err
	}
	if err := acc.SetPassword(sp.Password); err != nil {
		return Account{}, errors.Wrap(err, "hashing password")
	}
	acc.IsActive = true
	return svc.save(ctx, acc)
}

// SetActive activates or deactivates an account.
func (svc *Service) SetActive(ctx context.Context, id string, active bool) (Account, error) {
	acc, err := svc.GetByID(ctx, id)
	if err != nil {
		return Account{}, err
	}
	acc.IsActive = active
	return svc.save(ctx, acc)
}

// CreateOrActivate signs up a new account, or sets the password of an existing one.
func (svc *Service) CreateOrActivate(ctx context.Context, sp SetPassword) (acc Account, created bool, err error) {
	acc, err = svc.SetPassword(ctx, sp)
	if err != ErrNotFound {
		return acc, false, err
	}
	acc, err = svc.SignUp(ctx, NewAccount(sp))
	return acc, err == nil, err
}

// RefreshSession issues a new session from a valid token, within the refresh window of the original sign in.
func (svc *Service) RefreshSession(ctx context.Context, token string) (Session, error) {
	claims, err := svc.ParseToken(token)
	if err != nil {
		return Session{}, err
	}
	acc, err := svc.GetByID(ctx, claims.Subject)
	if err != nil {
		return Session{}, errors.Wrap(err, "finding account by ID")
	}
	if !acc.IsActive {
		return Session{}, ErrAccountDeactivated
	}
	expTime := time.Unix(claims.OrigIssuedAt, 0).Add(svc.refreshExpiration)
	if NowFunc().After(expTime) {
		return Session{}, ErrRefreshExpired
	}
	return svc.IssueSession(acc, claims.OrigIssuedAt)
}
