package resources

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Terrib1e/awt-chat-mcp-server/internal/tools"
)

func testCatalog(t *testing.T) (*Catalog, string) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "report.txt"), []byte("hello"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rows.csv"), []byte("a,b\n1,2\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "blob.bin"), []byte{0x00}, 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0o755))

	catalog := NewCatalog(dir, StatusInfo{
		ServerName: "test-server",
		Version:    "0.0.1",
		ToolCount:  20,
		StartedAt:  time.Now().Add(-time.Minute),
	}, nil, nil)
	return catalog, dir
}

func TestCatalogList(t *testing.T) {
	catalog, dir := testCatalog(t)

	entries := catalog.List()
	require.Len(t, entries, 4)

	assert.Equal(t, "file://"+filepath.Join(dir, "report.txt"), entries[0].URI)
	assert.Equal(t, "file://"+filepath.Join(dir, "rows.csv"), entries[1].URI)
	assert.Equal(t, "system://status", entries[2].URI)
	assert.Equal(t, "system://logs", entries[3].URI)

	// blob.bin and the nested directory are not listed.
	for _, entry := range entries {
		assert.NotContains(t, entry.URI, "blob.bin")
		assert.NotContains(t, entry.URI, "nested")
	}
}

func TestCatalogReadFile(t *testing.T) {
	catalog, dir := testCatalog(t)

	content, err := catalog.Read("file://" + filepath.Join(dir, "report.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", content.Text)
	assert.True(t, strings.HasPrefix(content.MimeType, "text/plain"))
}

func TestCatalogReadErrors(t *testing.T) {
	catalog, dir := testCatalog(t)

	tests := []struct {
		name     string
		uri      string
		wantCode tools.Code
	}{
		{
			name:     "unsupported scheme",
			uri:      "ftp://example.com/file.txt",
			wantCode: tools.CodeUnsupportedResource,
		},
		{
			name:     "outside data directory",
			uri:      "file:///etc/passwd",
			wantCode: tools.CodeAccessDenied,
		},
		{
			name:     "extension not allowed",
			uri:      "file://" + filepath.Join(dir, "blob.bin"),
			wantCode: tools.CodeExtensionNotAllowed,
		},
		{
			name:     "missing file",
			uri:      "file://" + filepath.Join(dir, "absent.txt"),
			wantCode: tools.CodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := catalog.Read(tt.uri)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, tools.CodeOf(err))
		})
	}
}

func TestCatalogReadStatus(t *testing.T) {
	catalog, _ := testCatalog(t)

	content, err := catalog.Read("system://status")
	require.NoError(t, err)
	assert.Equal(t, "application/json", content.MimeType)

	var status map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(content.Text), &status))
	assert.Equal(t, "test-server", status["server_name"])
	assert.Equal(t, "running", status["status"])
	assert.Equal(t, 20.0, status["tools_count"])
	assert.GreaterOrEqual(t, status["uptime_seconds"], 60.0)
}

func TestCatalogReadLogs(t *testing.T) {
	t.Run("without buffer", func(t *testing.T) {
		catalog, _ := testCatalog(t)
		content, err := catalog.Read("system://logs")
		require.NoError(t, err)
		assert.Contains(t, content.Text, "disabled")
	})

	t.Run("with buffer", func(t *testing.T) {
		logs := NewLogBuffer(0)
		logs.Write([]byte("level=INFO msg=started\n"))

		catalog := NewCatalog(t.TempDir(), StatusInfo{}, logs, nil)
		content, err := catalog.Read("system://logs")
		require.NoError(t, err)
		assert.Equal(t, "level=INFO msg=started\n", content.Text)
	})

	t.Run("with empty buffer", func(t *testing.T) {
		catalog := NewCatalog(t.TempDir(), StatusInfo{}, NewLogBuffer(0), nil)
		content, err := catalog.Read("system://logs")
		require.NoError(t, err)
		assert.Contains(t, content.Text, "No log entries")
	})
}

func TestLogBufferDropsOldest(t *testing.T) {
	buf := NewLogBuffer(8)

	buf.Write([]byte("abcd"))
	buf.Write([]byte("efgh"))
	assert.Equal(t, "abcdefgh", buf.Tail())

	buf.Write([]byte("ij"))
	assert.Equal(t, "cdefghij", buf.Tail())

	buf.Write([]byte("0123456789"))
	assert.Equal(t, "23456789", buf.Tail())
}
