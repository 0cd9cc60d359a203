package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate_FreshSchema(t *testing.T) {
	s, err := Open(":memory:")
	require.NoError(t, err)
	defer s.Close()

	var version int
	require.NoError(t, s.sql.QueryRow("SELECT MAX(version) FROM schema_version").Scan(&version))
	assert.Equal(t, 1, version)

	var n int
	require.NoError(t, s.sql.QueryRow(
		"SELECT COUNT(*) FROM pragma_table_info('runs') WHERE name = 'evaluated'").Scan(&n))
	assert.Equal(t, 1, n)

	// Running migrations again is a no-op.
	require.NoError(t, s.migrate())
}
