package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/tasktutor/core/auth"
	"github.com/trezcool/tasktutor/tests"
)

func TestClient_SessionLifecycle(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	testutil.CreateAccount(t, env.Auth, "ada@test.io", pwd, true)
	client := auth.NewClient(env.Auth)

	var events []auth.Event
	var last *auth.Session
	unsubscribe := client.OnSessionChange(func(event auth.Event, s *auth.Session) {
		events = append(events, event)
		last = s
	})

	_, ok := client.GetSession()
	assert.False(t, ok)

	_, err := client.SignIn(ctx, "ada@test.io", "wrong-pass")
	assert.Equal(t, auth.ErrInvalidCredentials, err)
	assert.Empty(t, events, "failed sign in does not notify")

	sess, err := client.SignIn(ctx, "ada@test.io", pwd)
	require.NoError(t, err)
	got, ok := client.GetSession()
	require.True(t, ok)
	assert.Equal(t, sess.AccessToken, got.AccessToken)
	require.NotNil(t, last)
	assert.Equal(t, "ada@test.io", last.Account.Email)

	_, err = client.Refresh(ctx)
	require.NoError(t, err)

	client.SignOut()
	_, ok = client.GetSession()
	assert.False(t, ok)
	assert.Nil(t, last)
	assert.Equal(t, []auth.Event{auth.EventSignedIn, auth.EventTokenRefreshed, auth.EventSignedOut}, events)

	unsubscribe()
	unsubscribe()
	_, err = client.SignIn(ctx, "ada@test.io", pwd)
	require.NoError(t, err)
	assert.Len(t, events, 3, "unsubscribed listener is not called")
}

func TestClient_SignUpAndReset(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	client := auth.NewClient(env.Auth)

	sess, err := client.SignUp(ctx, auth.NewAccount{Email: "grace@test.io", Password: pwd, PasswordConfirm: pwd})
	require.NoError(t, err)
	assert.Equal(t, "grace@test.io", sess.Account.Email)

	_, ok := client.GetSession()
	assert.True(t, ok)

	assert.NoError(t, client.ResetPassword(ctx, "unknown@test.io"), "unknown emails are not reported")
	assert.NoError(t, client.ResetPassword(ctx, "grace@test.io"))
	assert.Len(t, env.Mail.SentMessages(), 1)

	_, err = client.Refresh(ctx)
	require.NoError(t, err)
	client.SignOut()
	_, err = client.Refresh(ctx)
	assert.Equal(t, auth.ErrInvalidToken, err)
}
