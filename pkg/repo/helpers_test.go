package repo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ropeworks/ropeworks/pkg/repo"
)

func TestJoin_SkipsEmptyFragments(t *testing.T) {
	assert.Equal(t, "SELECT 1", repo.Join("SELECT 1"))
	assert.Equal(t, "SELECT 1 FROM t", repo.Join("SELECT 1", "", "FROM t"))
	assert.Equal(t, "SELECT 1 FROM t", repo.Join("SELECT 1", "   ", "FROM t"))
}

func TestJoinWhere(t *testing.T) {
	assert.Equal(t, "", repo.JoinWhere())
	assert.Equal(t, "WHERE role = $1", repo.JoinWhere("role = $1"))
	assert.Equal(t,
		"WHERE role = $1 AND tenant_id = $2",
		repo.JoinWhere("role = $1", "tenant_id = $2"),
	)
	assert.Equal(t, "WHERE role = $1", repo.JoinWhere("", "role = $1"))
}

// TestJoinWhere_ComposesWithJoin pins the paginated-select shape the user
// repository builds: conditions AND-joined under WHERE, never space-joined.
func TestJoinWhere_ComposesWithJoin(t *testing.T) {
	query := repo.Join(
		"SELECT id FROM users",
		repo.JoinWhere("role = $1", "tenant_id = $2"),
		"ORDER BY last_name, first_name",
		repo.FormatLimitOffset(25, 50),
	)
	assert.Equal(t,
		"SELECT id FROM users WHERE role = $1 AND tenant_id = $2 ORDER BY last_name, first_name LIMIT 25 OFFSET 50",
		query,
	)
}

func TestFormatLimitOffset(t *testing.T) {
	assert.Equal(t, "", repo.FormatLimitOffset(0, 0))
	assert.Equal(t, "LIMIT 10", repo.FormatLimitOffset(10, 0))
	assert.Equal(t, "OFFSET 5", repo.FormatLimitOffset(0, 5))
	assert.Equal(t, "LIMIT 10 OFFSET 5", repo.FormatLimitOffset(10, 5))
}
