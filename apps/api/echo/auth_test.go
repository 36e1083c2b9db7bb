package echoapi_test

import (
	"context"
	"net/http"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/tasktutor/apps/api/echo"
	"github.com/trezcool/tasktutor/core/auth"
	"github.com/trezcool/tasktutor/tests"
)

func Test_authApi_signUpAndSignIn(t *testing.T) {
	app := setup(t)
	inactive := testutil.CreateAccount(t, app.env.Auth, "naughty@test.cd", pwd, false)

	tests := []httpTest{
		{
			name:     "signup: malformed body",
			method:   http.MethodPost,
			path:     "/v1/auth/signup",
			body:     []byte(`{"email": 42`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "malformed request"}),
		},
		{
			name:     "signup: weak password",
			method:   http.MethodPost,
			path:     "/v1/auth/signup",
			body:     marchallObj(t, auth.NewAccount{Email: "ada@test.cd", Password: "12345678", PasswordConfirm: "12345678"}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"password": "password cannot be entirely numeric"}),
		},
		{
			name:     "signup",
			method:   http.MethodPost,
			path:     "/v1/auth/signup",
			body:     marchallObj(t, auth.NewAccount{Email: "ada@test.cd", Password: pwd, PasswordConfirm: pwd}),
			wantCode: http.StatusCreated,
		},
		{
			name:     "signup: email taken",
			method:   http.MethodPost,
			path:     "/v1/auth/signup",
			body:     marchallObj(t, auth.NewAccount{Email: "Ada@test.cd", Password: pwd, PasswordConfirm: pwd}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"email": auth.ErrEmailExists.Error()}),
		},
		{
			name:     "signin: wrong password",
			method:   http.MethodPost,
			path:     "/v1/auth/signin",
			body:     marchallObj(t, auth.Credentials{Email: "ada@test.cd", Password: "wrong-Pass1"}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name:     "signin: unknown email",
			method:   http.MethodPost,
			path:     "/v1/auth/signin",
			body:     marchallObj(t, auth.Credentials{Email: "lol@test.cd", Password: pwd}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name:     "signin: deactivated",
			method:   http.MethodPost,
			path:     "/v1/auth/signin",
			body:     marchallObj(t, auth.Credentials{Email: inactive.Email, Password: pwd}),
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "account deactivated"}),
		},
		{
			name:     "signin",
			method:   http.MethodPost,
			path:     "/v1/auth/signin",
			body:     marchallObj(t, auth.Credentials{Email: " ADA@test.cd ", Password: pwd}),
			wantCode: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := app.do(tt)
			checkCodeAndData(t, tt, rec)

			if rec.Code == http.StatusOK || rec.Code == http.StatusCreated {
				var sess auth.Session
				unmarshal(t, rec, &sess)
				assert.NotEmpty(t, sess.AccessToken)
				assert.Equal(t, "bearer", sess.TokenType)
				assert.Equal(t, "ada@test.cd", sess.Account.Email)
				assert.NotContains(t, rec.Body.String(), "password")
			}
		})
	}
}

func Test_authApi_passwordReset(t *testing.T) {
	app := setup(t)
	acc, _ := app.signUp(t, "ada@test.cd")
	success := marchallObj(t, echoapi.SuccessResponse{
		Success: "If the email address supplied is associated with an active account on this system, " +
			"an email will arrive in your inbox shortly with instructions to reset your password.",
	})

	tests := []httpTest{
		{name: "invalid email", method: http.MethodPost, path: "/v1/auth/password-reset", body: []byte(`{"email": "lol"}`), wantCode: http.StatusBadRequest},
		{name: "unknown email", method: http.MethodPost, path: "/v1/auth/password-reset", body: []byte(`{"email": "lol@test.cd"}`), wantCode: http.StatusOK, wantData: success},
		{name: "known email", method: http.MethodPost, path: "/v1/auth/password-reset", body: []byte(`{"email": "ada@test.cd"}`), wantCode: http.StatusOK, wantData: success},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkCodeAndData(t, tt, app.do(tt))
		})
	}

	msgs := app.env.Mail.SentMessages()
	require.Len(t, msgs, 1)
	assert.Equal(t, acc.Email, msgs[0].To[0].Address)

	// the reset link carries the uid and the token
	match := regexp.MustCompile(`/password-reset/([^/\s]+)/([^/\s]+)`).FindStringSubmatch(msgs[0].TextContent)
	require.Len(t, match, 3, "reset link in %q", msgs[0].TextContent)
	uid, token := match[1], strings.TrimSpace(match[2])

	newPwd := "n3w-Passw0rd"
	confirmTests := []httpTest{
		{
			name:     "bad token",
			method:   http.MethodPost,
			path:     "/v1/auth/password-reset-confirm",
			body:     marchallObj(t, auth.ResetPassword{UID: uid, Token: "lol-nope", Password: newPwd, PasswordConfirm: newPwd}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: auth.ErrInvalidToken.Error()}),
		},
		{
			name:     "passwords differ",
			method:   http.MethodPost,
			path:     "/v1/auth/password-reset-confirm",
			body:     marchallObj(t, auth.ResetPassword{UID: uid, Token: token, Password: newPwd, PasswordConfirm: "other-Pass1"}),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "confirm",
			method:   http.MethodPost,
			path:     "/v1/auth/password-reset-confirm",
			body:     marchallObj(t, auth.ResetPassword{UID: uid, Token: token, Password: newPwd, PasswordConfirm: newPwd}),
			wantCode: http.StatusOK,
			wantData: marchallObj(t, echoapi.SuccessResponse{Success: "Password has been reset with the new password."}),
		},
	}
	for _, tt := range confirmTests {
		t.Run(tt.name, func(t *testing.T) {
			checkCodeAndData(t, tt, app.do(tt))
		})
	}

	rec := app.do(httpTest{method: http.MethodPost, path: "/v1/auth/signin", body: marchallObj(t, auth.Credentials{Email: acc.Email, Password: newPwd})})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func Test_authApi_session(t *testing.T) {
	app := setup(t)
	acc, token := app.signUp(t, "ada@test.cd")

	tests := []httpTest{
		{name: "session: no token", method: http.MethodGet, path: "/v1/auth/session", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "session: bad token", method: http.MethodGet, path: "/v1/auth/session", token: "lol", wantCode: http.StatusUnauthorized},
		{name: "session", method: http.MethodGet, path: "/v1/auth/session", token: token, wantCode: http.StatusOK},
		{name: "token-refresh", method: http.MethodPost, path: "/v1/auth/token-refresh", token: token, wantCode: http.StatusOK},
		{name: "signout: no token", method: http.MethodPost, path: "/v1/auth/signout", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "signout", method: http.MethodPost, path: "/v1/auth/signout", token: token, wantCode: http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := app.do(tt)
			checkCodeAndData(t, tt, rec)

			if tt.path == "/v1/auth/session" && rec.Code == http.StatusOK {
				var res echoapi.SessionResponse
				unmarshal(t, rec, &res)
				assert.Equal(t, acc.ID, res.Account.ID)
				assert.NotZero(t, res.ExpiresAt)
			}
		})
	}

	// deactivated accounts lose access and cannot refresh
	_, err := app.env.Auth.SetActive(context.Background(), acc.ID, false)
	require.NoError(t, err)
	rec := app.do(httpTest{method: http.MethodPost, path: "/v1/auth/token-refresh", token: token})
	checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "account deactivated"})}, rec)
}
