package auth_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/tasktutor/core"
	"github.com/trezcool/tasktutor/core/auth"
	"github.com/trezcool/tasktutor/tests"
)

const pwd = "s3cret-Pass"

func fieldErrors(t *testing.T, env *testutil.Env, err error) map[string]string {
	t.Helper()
	vErr, ok := errors.Cause(core.ValidationErrorFrom(err, env.Translator)).(*core.ValidationError)
	require.True(t, ok, "want a validation error, got %v", err)
	flds := make(map[string]string, len(vErr.Fields))
	for _, f := range vErr.Fields {
		flds[f.Field] = f.Error
	}
	return flds
}

func TestService_SignUp(t *testing.T) {
	env := testutil.NewEnv(t)
	testutil.CreateAccount(t, env.Auth, "taken@test.io", pwd, true)

	tests := []struct {
		name     string
		na       auth.NewAccount
		wantFlds map[string]string
	}{
		{name: "required fields", na: auth.NewAccount{}, wantFlds: map[string]string{
			"email": "this field is required", "password": "this field is required", "password_confirm": "this field is required",
		}},
		{name: "invalid email", na: auth.NewAccount{Email: "lol", Password: pwd, PasswordConfirm: pwd}, wantFlds: map[string]string{
			"email": "email must be a valid email address",
		}},
		{name: "passwords mismatch", na: auth.NewAccount{Email: "a@test.io", Password: pwd, PasswordConfirm: "other"}, wantFlds: map[string]string{
			"password_confirm": "password_confirm must be equal to Password",
		}},
		{name: "short password", na: auth.NewAccount{Email: "a@test.io", Password: "abc", PasswordConfirm: "abc"}, wantFlds: map[string]string{
			"password": "password must contain at least 8 characters",
		}},
		{name: "whitespace", na: auth.NewAccount{Email: "a@test.io", Password: "abc def ghi", PasswordConfirm: "abc def ghi"}, wantFlds: map[string]string{
			"password": "password must not contain whitespace",
		}},
		{name: "numeric", na: auth.NewAccount{Email: "a@test.io", Password: "1234567890", PasswordConfirm: "1234567890"}, wantFlds: map[string]string{
			"password": "password cannot be entirely numeric",
		}},
		{name: "similar to email", na: auth.NewAccount{Email: "margaret.hamilton@test.io", Password: "hamilton.margaret", PasswordConfirm: "hamilton.margaret"}, wantFlds: map[string]string{
			"password": "password cannot be similar to the email address",
		}},
		{name: "email exists", na: auth.NewAccount{Email: " Taken@Test.io ", Password: pwd, PasswordConfirm: pwd}, wantFlds: map[string]string{
			"email": auth.ErrEmailExists.Error(),
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.Auth.SignUp(context.Background(), tt.na)
			require.Error(t, err)
			assert.Equal(t, tt.wantFlds, fieldErrors(t, env, err))
		})
	}

	acc, err := env.Auth.SignUp(context.Background(), auth.NewAccount{Email: "New@Test.io", Password: pwd, PasswordConfirm: pwd})
	require.NoError(t, err)
	assert.Equal(t, "new@test.io", acc.Email)
	assert.True(t, acc.IsActive)
	assert.NoError(t, acc.CheckPassword(pwd))
}

func TestService_Authenticate(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	testutil.CreateAccount(t, env.Auth, "ada@test.io", pwd, true)
	testutil.CreateAccount(t, env.Auth, "off@test.io", pwd, false)

	tests := []struct {
		name    string
		email   string
		pwd     string
		wantErr error
	}{
		{name: "unknown email", email: "nobody@test.io", pwd: pwd, wantErr: auth.ErrInvalidCredentials},
		{name: "wrong password", email: "ada@test.io", pwd: "nope", wantErr: auth.ErrInvalidCredentials},
		{name: "deactivated", email: "off@test.io", pwd: pwd, wantErr: auth.ErrAccountDeactivated},
		{name: "valid", email: " ADA@test.io", pwd: pwd},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc, err := env.Auth.Authenticate(ctx, tt.email, tt.pwd)
			if err != tt.wantErr {
				t.Fatalf("Authenticate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				assert.True(t, acc.LastLogin.Valid)
			}
		})
	}
}

func TestService_Sessions(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	acc := testutil.CreateAccount(t, env.Auth, "ada@test.io", pwd, true)

	sess, err := env.Auth.SignIn(ctx, auth.Credentials{Email: "ada@test.io", Password: pwd})
	require.NoError(t, err)
	assert.Equal(t, acc.ID, sess.Account.ID)
	assert.False(t, sess.IsExpired(time.Now()))

	claims, err := env.Auth.ParseToken(sess.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, acc.ID, claims.Subject)
	assert.Equal(t, "ada@test.io", claims.Email)

	_, err = env.Auth.ParseToken(sess.AccessToken + "x")
	assert.Equal(t, auth.ErrInvalidToken, err)

	refreshed, err := env.Auth.RefreshSession(ctx, sess.AccessToken)
	require.NoError(t, err)
	rClaims, err := env.Auth.ParseToken(refreshed.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, claims.OrigIssuedAt, rClaims.OrigIssuedAt)

	// past the refresh window
	auth.NowFunc = func() time.Time { return time.Now().Add(-5 * time.Hour) }
	old, err := env.Auth.IssueSession(acc)
	auth.NowFunc = time.Now
	require.NoError(t, err)
	_, err = env.Auth.ParseToken(old.AccessToken)
	assert.Equal(t, auth.ErrInvalidToken, err, "expired")

	_, err = env.Auth.SetActive(ctx, acc.ID, false)
	require.NoError(t, err)
	_, err = env.Auth.RefreshSession(ctx, sess.AccessToken)
	assert.Equal(t, auth.ErrAccountDeactivated, err)
}

func TestService_PasswordReset(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	acc := testutil.CreateAccount(t, env.Auth, "ada@test.io", pwd, true)

	assert.Equal(t, auth.ErrNotFound, env.Auth.RequestPasswordReset(ctx, "nobody@test.io"))
	require.NoError(t, env.Auth.RequestPasswordReset(ctx, "ada@test.io"))

	sent := env.Mail.SentMessages()
	require.Len(t, sent, 1)
	assert.Equal(t, "ada@test.io", sent[0].To[0].Address)

	// http://tasktutor.test/password-reset/<uid>/<token>
	var link string
	for _, line := range strings.Split(sent[0].TextContent, "\n") {
		if strings.HasPrefix(line, env.Conf.FrontendBaseURL+"/password-reset/") {
			link = strings.TrimPrefix(line, env.Conf.FrontendBaseURL+"/password-reset/")
		}
	}
	parts := strings.Split(link, "/")
	require.Len(t, parts, 2)
	uid, token := parts[0], parts[1]
	assert.Equal(t, auth.EncodeUID(acc), uid)

	newPwd := "n3w-Passw0rd"
	tests := []struct {
		name    string
		rp      auth.ResetPassword
		wantErr bool
	}{
		{name: "required fields", rp: auth.ResetPassword{}, wantErr: true},
		{name: "invalid uid", rp: auth.ResetPassword{UID: "%%%", Token: token, Password: newPwd, PasswordConfirm: newPwd}, wantErr: true},
		{name: "unknown uid", rp: auth.ResetPassword{UID: "bG9s", Token: token, Password: newPwd, PasswordConfirm: newPwd}, wantErr: true},
		{name: "invalid token", rp: auth.ResetPassword{UID: uid, Token: "HE4TS-sig", Password: newPwd, PasswordConfirm: newPwd}, wantErr: true},
		{name: "weak password", rp: auth.ResetPassword{UID: uid, Token: token, Password: "12345678", PasswordConfirm: "12345678"}, wantErr: true},
		{name: "valid", rp: auth.ResetPassword{UID: uid, Token: token, Password: newPwd, PasswordConfirm: newPwd}},
		{name: "token already used", rp: auth.ResetPassword{UID: uid, Token: token, Password: newPwd, PasswordConfirm: newPwd}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.Auth.ResetPassword(ctx, tt.rp)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ResetPassword() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				assert.True(t, core.IsValidationError(err))
			}
		})
	}

	_, err := env.Auth.Authenticate(ctx, "ada@test.io", newPwd)
	assert.NoError(t, err)
}

func TestService_CreateOrActivate(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	off := testutil.CreateAccount(t, env.Auth, "off@test.io", pwd, false)

	acc, created, err := env.Auth.CreateOrActivate(ctx, auth.SetPassword{Email: "off@test.io", Password: "an0ther-Pass", PasswordConfirm: "an0ther-Pass"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, off.ID, acc.ID)
	assert.True(t, acc.IsActive)

	acc, created, err = env.Auth.CreateOrActivate(ctx, auth.SetPassword{Email: "new@test.io", Password: pwd, PasswordConfirm: pwd})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "new@test.io", acc.Email)
}
