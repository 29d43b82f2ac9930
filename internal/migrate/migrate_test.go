package migrate

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVersionsSortedAndReadable(t *testing.T) {
	vs, err := versions()
	require.NoError(t, err)
	require.NotEmpty(t, vs)
	require.True(t, sort.StringsAreSorted(vs))

	for _, v := range vs {
		require.NotContains(t, v, ".sql")
		sql, err := migrationFS.ReadFile("migrations/" + v + ".sql")
		require.NoError(t, err)
		require.NotEmpty(t, sql)
	}
}
