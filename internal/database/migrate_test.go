package database

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/jackc/tern/v2/migrate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greenCommuteAPI/internal/database/migrations"
)

const dropMarker = "---- create above / drop below ----"

func TestFindMigrationsOrdersAndSkipsOtherFiles(t *testing.T) {
	fsys := fstest.MapFS{
		"0002_b.sql": {Data: []byte("SELECT 2;")},
		"0001_a.sql": {Data: []byte("SELECT 1;")},
		"README.md":  {Data: []byte("docs")},
	}
	paths, err := migrate.FindMigrations(fsys)
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_a.sql", "0002_b.sql"}, paths)
}

func TestFindMigrationsRejectsGaps(t *testing.T) {
	fsys := fstest.MapFS{
		"0001_a.sql": {Data: []byte("SELECT 1;")},
		"0003_c.sql": {Data: []byte("SELECT 3;")},
	}
	_, err := migrate.FindMigrations(fsys)
	assert.Error(t, err)
}

func TestEmbeddedMigrationsAreContiguousWithDownSections(t *testing.T) {
	paths, err := migrate.FindMigrations(migrations.FS)
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	var up strings.Builder
	for _, p := range paths {
		data, err := migrations.FS.ReadFile(p)
		require.NoError(t, err)

		create, drop, found := strings.Cut(string(data), dropMarker)
		require.True(t, found, p)
		assert.NotEmpty(t, strings.TrimSpace(create), p)
		assert.Contains(t, drop, "DROP", p)
		assert.NotContains(t, create, "{{", "%s must not use template actions", p)
		up.WriteString(create)
	}
	assert.Contains(t, up.String(), "friend_battles_open_pair_idx")
	assert.Contains(t, up.String(), "WHERE status IN ('pending', 'active')")
	assert.Contains(t, up.String(), "CREATE TABLE IF NOT EXISTS locations")
}
