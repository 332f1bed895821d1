package tools

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFileOps() *FileOps {
	return NewFileOps(
		[]string{"/etc", "/usr", "/bin"},
		[]string{".txt", ".md", ".json", ".csv", ".log"},
	)
}

func TestWriteThenReadFile(t *testing.T) {
	files := testFileOps()
	path := filepath.Join(t.TempDir(), "notes.txt")

	written, err := files.WriteFile(map[string]interface{}{
		"file_path": path,
		"content":   "line one\nline two\n",
	})
	require.NoError(t, err)
	assert.True(t, written.Success)
	assert.Equal(t, 2, written.Lines)
	assert.False(t, written.BackupCreated)

	read, err := files.ReadFile(map[string]interface{}{"file_path": path})
	require.NoError(t, err)
	assert.Equal(t, "line one\nline two\n", read.Content)
	assert.Equal(t, 2, read.Lines)
	assert.Equal(t, len(read.Content), read.Characters)
}

func TestWriteFileCreatesBackup(t *testing.T) {
	files := testFileOps()
	path := filepath.Join(t.TempDir(), "config.json")

	_, err := files.WriteFile(map[string]interface{}{
		"file_path": path,
		"content":   `{"version": 1}`,
	})
	require.NoError(t, err)

	written, err := files.WriteFile(map[string]interface{}{
		"file_path":     path,
		"content":       `{"version": 2}`,
		"create_backup": true,
	})
	require.NoError(t, err)
	assert.True(t, written.BackupCreated)
	assert.Equal(t, path+".backup", written.BackupPath)

	backup, err := os.ReadFile(written.BackupPath)
	require.NoError(t, err)
	assert.Equal(t, `{"version": 1}`, string(backup))

	current, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"version": 2}`, string(current))
}

func TestWriteFileBackupSkippedWhenNoPriorFile(t *testing.T) {
	files := testFileOps()
	path := filepath.Join(t.TempDir(), "fresh.txt")

	written, err := files.WriteFile(map[string]interface{}{
		"file_path":     path,
		"content":       "hello",
		"create_backup": true,
	})
	require.NoError(t, err)
	assert.False(t, written.BackupCreated)
	assert.Empty(t, written.BackupPath)
}

func TestFilePathValidation(t *testing.T) {
	files := testFileOps()

	tests := []struct {
		name     string
		path     string
		wantCode Code
	}{
		{name: "restricted prefix", path: "/etc/passwd", wantCode: CodeAccessDenied},
		{name: "restricted root itself", path: "/etc", wantCode: CodeAccessDenied},
		{name: "extension not allowed", path: filepath.Join(t.TempDir(), "tool.exe"), wantCode: CodeExtensionNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := files.WriteFile(map[string]interface{}{
				"file_path": tt.path,
				"content":   "x",
			})
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, CodeOf(err))
		})
	}
}

func TestFilePathValidationAllowsSiblingPrefix(t *testing.T) {
	files := testFileOps()

	// "/etcetera" shares a string prefix with "/etc" but is a different tree.
	abs, err := files.validatePath("/etcetera/notes.txt")
	require.NoError(t, err)
	assert.Equal(t, "/etcetera/notes.txt", abs)
}

func TestReadFileErrors(t *testing.T) {
	files := testFileOps()
	dir := t.TempDir()

	_, err := files.ReadFile(map[string]interface{}{
		"file_path": filepath.Join(dir, "missing.txt"),
	})
	require.Error(t, err)
	assert.Equal(t, CodeNotFound, CodeOf(err))

	_, err = files.ReadFile(map[string]interface{}{"file_path": dir})
	require.Error(t, err)
	assert.Equal(t, CodeNotAFile, CodeOf(err))
}

func TestListDirectory(t *testing.T) {
	files := testFileOps()
	dir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.csv"), []byte("b"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden"), []byte("h"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "c.txt"), []byte("c"), 0o644))

	result, err := files.ListDirectory(map[string]interface{}{"directory_path": dir})
	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalFiles)
	assert.Equal(t, 1, result.TotalDirectories)
	assert.Empty(t, result.Skipped)

	result, err = files.ListDirectory(map[string]interface{}{
		"directory_path": dir,
		"recursive":      true,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, result.TotalFiles)

	result, err = files.ListDirectory(map[string]interface{}{
		"directory_path": dir,
		"include_hidden": true,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, result.TotalFiles)

	result, err = files.ListDirectory(map[string]interface{}{
		"directory_path": dir,
		"file_filter":    ".csv",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.TotalFiles)
	assert.Equal(t, "b.csv", result.Files[0].Name)
}

func TestListDirectoryReportsSkippedSubtrees(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}

	files := testFileOps()
	dir := t.TempDir()
	locked := filepath.Join(dir, "locked")
	require.NoError(t, os.MkdirAll(locked, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(locked, "secret.txt"), []byte("s"), 0o644))
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { os.Chmod(locked, 0o755) })

	result, err := files.ListDirectory(map[string]interface{}{
		"directory_path": dir,
		"recursive":      true,
	})
	require.NoError(t, err)
	assert.Contains(t, result.Skipped, locked)
}

func TestListDirectoryMissing(t *testing.T) {
	files := testFileOps()

	_, err := files.ListDirectory(map[string]interface{}{
		"directory_path": filepath.Join(t.TempDir(), "nope"),
	})
	require.Error(t, err)
	assert.Equal(t, CodeNotFound, CodeOf(err))
}
