package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_URL", "")
	previewTable = ""

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(args, "--env-file", ""))
	err := rootCmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestTablesCommand(t *testing.T) {
	out, err := run(t, "tables")
	require.NoError(t, err)
	for _, key := range []string{"universities", "semesters", "programs", "outreach_contacts"} {
		assert.Contains(t, out, key)
	}
	assert.Contains(t, out, "s4g_staff")
}

func TestPreviewCommand(t *testing.T) {
	path := writeFile(t, "schools.csv", "University Name,City,Mascot\nUCLA,Los Angeles,Bruins\n")

	out, err := run(t, "preview", path, "--table", "universities")
	require.NoError(t, err)
	assert.Contains(t, out, "schools.csv")
	assert.Contains(t, out, "universities")
	assert.Contains(t, out, "(ignored)", "unmatched columns are listed")
}

func TestPreviewCommand_Errors(t *testing.T) {
	_, err := run(t, "preview", writeFile(t, "notes.txt", "hello"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FILE003")

	_, err = run(t, "preview", filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)

	_, err = run(t, "preview")
	require.Error(t, err, "FILE argument is required")
}

func TestUserError(t *testing.T) {
	err := userError(errors.New("unsupported file type: .txt"))
	assert.Contains(t, err.Error(), "(Code: FILE003)")

	raw := errors.New("read notes.csv: permission denied")
	assert.Same(t, raw, userError(raw), "unknown errors keep their detail")
}
