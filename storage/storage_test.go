package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/tasktutor/core"
)

func TestOpen(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{name: "memory", url: "mem://"},
		{name: "sqlite memory", url: "sqlite://"},
		{name: "rest api", url: "https://project.supabase.co"},
		{name: "unknown scheme", url: "ftp://host", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf := &core.Config{Store: core.StoreConfig{URL: tt.url, Key: "key"}}
			store, err := Open(context.Background(), conf)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			defer func() { _ = store.Close() }()
		})
	}
}

func TestPing(t *testing.T) {
	conf := &core.Config{Store: core.StoreConfig{URL: "sqlite://", Key: "key"}}
	store, err := Open(context.Background(), conf)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	assert.NoError(t, Ping(context.Background(), store))
}
