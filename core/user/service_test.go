package user

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/tasktutor/core"
	"github.com/trezcool/tasktutor/storage/database/inmem"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := inmemdb.Open()
	require.NoError(t, err)
	validate, _ := core.NewValidator()
	return NewService(db, validate)
}

func TestService_Create(t *testing.T) {
	tests := []struct {
		name      string
		nu        NewUser
		wantErr   bool
		wantEmail string
	}{
		{name: "valid", nu: NewUser{Name: " Ada ", Email: " Ada@Test.io "}, wantEmail: "ada@test.io"},
		{name: "blank name", nu: NewUser{Name: "  ", Email: "ada@test.io"}, wantErr: true},
		{name: "invalid email", nu: NewUser{Name: "Ada", Email: "ada"}, wantErr: true},
		{name: "missing email", nu: NewUser{Name: "Ada"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t)
			usr, err := svc.Create(context.Background(), tt.nu)
			if tt.wantErr {
				assert.True(t, core.IsValidationError(err))
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, usr.ID)
			assert.Equal(t, "Ada", usr.Name)
			assert.Equal(t, tt.wantEmail, usr.Email)
		})
	}
}

func TestService_QueryAllAndDelete(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	base := time.Date(2026, 2, 13, 8, 0, 0, 0, time.UTC)
	for i, name := range []string{"Ada", "Grace", "Linus"} {
		i := i
		NowFunc = func() time.Time { return base.Add(time.Duration(i) * time.Minute) }
		_, err := svc.Create(ctx, NewUser{Name: name, Email: name + "@test.io"})
		require.NoError(t, err)
	}
	NowFunc = time.Now

	users, err := svc.QueryAll(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "Linus", users[0].Name)
	assert.Equal(t, "Ada", users[2].Name)

	ok, err := svc.Exists(ctx, users[1].ID)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, svc.Delete(ctx, users[1].ID))
	assert.Equal(t, ErrNotFound, svc.Delete(ctx, users[1].ID))

	ok, err = svc.Exists(ctx, users[1].ID)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = svc.GetByID(ctx, "nope")
	assert.Equal(t, ErrNotFound, err)
}
