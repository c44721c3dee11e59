package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staff_reviews/internal/domain"
)

// run executes one reviewctl invocation against dsn and returns stdout.
func run(t *testing.T, dsn string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--driver", "sqlite3", "--dsn", dsn}, args...))
	err := root.Execute()
	return out.String(), err
}

func tempDSN(t *testing.T) string {
	t.Helper()
	t.Setenv("REDIS_ADDR", "")
	return filepath.Join(t.TempDir(), "staff.db")
}

func TestCLI_SchemaAndCRUD(t *testing.T) {
	dsn := tempDSN(t)

	out, err := run(t, dsn, "schema", "create")
	require.NoError(t, err)
	assert.Contains(t, out, "schema created")

	out, err = run(t, dsn, "employees", "add", "--name", "Lee", "--job-title", "Manager", "-o", "json")
	require.NoError(t, err)
	var emps []domain.Employee
	require.NoError(t, json.Unmarshal([]byte(out), &emps))
	require.Len(t, emps, 1)
	assert.Equal(t, int64(1), emps[0].ID)

	_, err = run(t, dsn, "reviews", "create", "--year", "2021", "--summary", "Good work", "--employee", "1")
	require.NoError(t, err)

	_, err = run(t, dsn, "reviews", "update", "1", "--summary", "Great work")
	require.NoError(t, err)

	out, err = run(t, dsn, "reviews", "get", "1", "-o", "json")
	require.NoError(t, err)
	var views []domain.ReviewView
	require.NoError(t, json.Unmarshal([]byte(out), &views))
	require.Len(t, views, 1)
	assert.Equal(t, "Great work", views[0].Summary)
	assert.Equal(t, 2021, views[0].Year)

	out, err = run(t, dsn, "reviews", "list", "--employee", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Great work")

	out, err = run(t, dsn, "reviews", "delete", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "review 1 deleted")

	_, err = run(t, dsn, "reviews", "get", "1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	out, err = run(t, dsn, "schema", "drop")
	require.NoError(t, err)
	assert.Contains(t, out, "schema dropped")
}

func TestCLI_ValidationErrors(t *testing.T) {
	dsn := tempDSN(t)
	_, err := run(t, dsn, "schema", "create")
	require.NoError(t, err)
	_, err = run(t, dsn, "employees", "add", "--name", "Lee", "--job-title", "Manager")
	require.NoError(t, err)

	_, err = run(t, dsn, "reviews", "create", "--year", "1999", "--summary", "ok", "--employee", "1")
	assert.ErrorIs(t, err, domain.ErrInvalidYear)

	_, err = run(t, dsn, "reviews", "create", "--year", "2020", "--summary", "ok", "--employee", "99")
	assert.ErrorIs(t, err, domain.ErrInvalidEmployee)

	_, err = run(t, dsn, "reviews", "update", "1")
	assert.ErrorContains(t, err, "nothing to update")

	_, err = run(t, dsn, "reviews", "get", "abc")
	assert.ErrorContains(t, err, "must be a number")

	_, err = run(t, dsn, "employees", "list", "-o", "yaml")
	assert.ErrorContains(t, err, "unknown output format")
}

func TestCLI_Seed(t *testing.T) {
	dsn := tempDSN(t)
	seed := filepath.Join(t.TempDir(), "seed.json")
	doc := `{"employees":[{"name":"Lee","job_title":"Manager","reviews":[{"year":2022,"summary":"Solid"},{"year":1990,"summary":"old"}]}]}`
	require.NoError(t, os.WriteFile(seed, []byte(doc), 0o600))

	out, err := run(t, dsn, "seed", seed)
	require.NoError(t, err)
	assert.Contains(t, out, "imported 1 employees and 1 reviews")
	assert.Contains(t, out, "employees[0].reviews[1]")

	out, err = run(t, dsn, "employees", "list")
	require.NoError(t, err)
	assert.True(t, strings.Contains(out, "Lee") && strings.Contains(out, "Manager"), out)
}
