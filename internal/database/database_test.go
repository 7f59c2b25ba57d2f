package database

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/ledgersync/internal/database/migrations"
)

func TestPendingMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"010_later.up.sql":    {Data: []byte("SELECT 1")},
		"002_second.up.sql":   {Data: []byte("SELECT 1")},
		"001_init.up.sql":     {Data: []byte("SELECT 1")},
		"002_second.down.sql": {Data: []byte("SELECT 1")},
		"README.md":           {Data: []byte("notes")},
		"x_bad.up.sql":        {Data: []byte("SELECT 1")},
	}

	t.Run("FromScratch", func(t *testing.T) {
		got, err := pendingMigrations(fsys, 0)
		require.NoError(t, err)

		assert.Equal(t, []migration{
			{version: 1, name: "001_init.up.sql"},
			{version: 2, name: "002_second.up.sql"},
			{version: 10, name: "010_later.up.sql"},
		}, got)
	})

	t.Run("PartiallyApplied", func(t *testing.T) {
		got, err := pendingMigrations(fsys, 2)
		require.NoError(t, err)

		assert.Equal(t, []migration{{version: 10, name: "010_later.up.sql"}}, got)
	})
}

func TestEmbeddedMigrations(t *testing.T) {
	got, err := pendingMigrations(migrations.FS, 0)
	require.NoError(t, err)

	require.NotEmpty(t, got)
	assert.Equal(t, 1, got[0].version)
}
