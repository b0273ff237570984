package keyring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gokeyring "github.com/zalando/go-keyring"
)

func TestConnectionStringLifecycle(t *testing.T) {
	gokeyring.MockInit()

	_, err := GetConnectionString()
	assert.ErrorIs(t, err, ErrNotFound)

	dsn := "postgres://tracker@localhost:5432/tracklit?sslmode=disable"
	require.NoError(t, SetConnectionString(dsn))

	got, err := GetConnectionString()
	require.NoError(t, err)
	assert.Equal(t, dsn, got)
	assert.True(t, IsAvailable())

	require.NoError(t, DeleteConnectionString())
	assert.ErrorIs(t, DeleteConnectionString(), ErrNotFound)
}

func TestSetConnectionStringEmpty(t *testing.T) {
	gokeyring.MockInit()
	assert.Error(t, SetConnectionString(""))
}
