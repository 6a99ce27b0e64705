package migrations_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plakatpro/plakatpro/migrations"
	testingutil "github.com/plakatpro/plakatpro/testing"
)

func TestApplyIsIdempotent(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		// SetupTestDB already applied the full ledger once.
		var before int64
		require.NoError(t, testDB.DB.Table("schema_migrations").Count(&before).Error)
		assert.Equal(t, int64(len(migrations.All())), before)

		ctx := testingutil.CreateTestContext()
		require.NoError(t, migrations.Apply(ctx, testDB.DB))

		var after int64
		require.NoError(t, testDB.DB.Table("schema_migrations").Count(&after).Error)
		assert.Equal(t, before, after)

		return nil
	})
	require.NoError(t, err)
}

func TestLedgerVersionsAreUniqueAndOrdered(t *testing.T) {
	all := migrations.All()
	require.NotEmpty(t, all)

	seen := make(map[string]bool, len(all))
	prev := ""
	for _, m := range all {
		assert.NotEmpty(t, m.Version)
		assert.NotEmpty(t, m.SQL)
		assert.False(t, seen[m.Version], "duplicate version %s", m.Version)
		seen[m.Version] = true
		assert.Less(t, prev, m.Version, "versions must be appended in order")
		prev = m.Version
	}
}
