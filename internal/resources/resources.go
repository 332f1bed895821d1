// Package resources exposes readable server resources: data files from a
// configured directory plus synthetic system status and log resources.
package resources

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/Terrib1e/awt-chat-mcp-server/internal/tools"
)

// Entry describes one listable resource.
type Entry struct {
	URI         string
	Name        string
	Description string
	MimeType    string
}

// Content is the payload of a read resource.
type Content struct {
	URI      string
	MimeType string
	Text     string
}

// StatusInfo is what the status resource reports about.
type StatusInfo struct {
	ServerName string
	Version    string
	ToolCount  int
	StartedAt  time.Time
}

var dataExtensions = map[string]bool{
	".txt":  true,
	".csv":  true,
	".json": true,
}

// Catalog resolves resource URIs. Data files are rescanned on every list so
// files added to the directory after startup still show up.
type Catalog struct {
	dataDir string
	status  StatusInfo
	logs    *LogBuffer
	logger  *slog.Logger
}

// NewCatalog builds a resource catalog over dataDir. A nil logs buffer is
// allowed; the logs resource then reports that capture is disabled.
func NewCatalog(dataDir string, status StatusInfo, logs *LogBuffer, logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.Default()
	}
	return &Catalog{
		dataDir: dataDir,
		status:  status,
		logs:    logs,
		logger:  logger,
	}
}

// List returns every available resource: one entry per data file plus the
// system entries.
func (c *Catalog) List() []Entry {
	entries := []Entry{}

	if c.dataDir != "" {
		files, err := os.ReadDir(c.dataDir)
		if err != nil {
			c.logger.Warn("cannot scan data directory", "dir", c.dataDir, "error", err)
		} else {
			for _, file := range files {
				if file.IsDir() {
					continue
				}
				ext := strings.ToLower(filepath.Ext(file.Name()))
				if !dataExtensions[ext] {
					continue
				}
				full := filepath.Join(c.dataDir, file.Name())
				entries = append(entries, Entry{
					URI:         "file://" + full,
					Name:        file.Name(),
					Description: fmt.Sprintf("Data file: %s", file.Name()),
					MimeType:    mimeFor(ext),
				})
			}
		}
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].URI < entries[j].URI })

	entries = append(entries,
		Entry{
			URI:         "system://status",
			Name:        "System Status",
			Description: "Current server status and statistics",
			MimeType:    "application/json",
		},
		Entry{
			URI:         "system://logs",
			Name:        "Server Logs",
			Description: "Recent server log entries",
			MimeType:    "text/plain",
		},
	)
	return entries
}

// Read resolves a resource URI to its content.
func (c *Catalog) Read(uri string) (*Content, error) {
	switch {
	case uri == "system://status":
		return c.readStatus()
	case uri == "system://logs":
		return c.readLogs()
	case strings.HasPrefix(uri, "file://"):
		return c.readFile(strings.TrimPrefix(uri, "file://"))
	default:
		return nil, tools.Errorf(tools.CodeUnsupportedResource, "unsupported resource URI: %s", uri)
	}
}

// readFile serves a data file, but only from inside the data directory and
// only with a data extension. The catalog is not a general file reader.
func (c *Catalog) readFile(path string) (*Content, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, tools.Errorf(tools.CodeInvalidArgument, "invalid resource path: %v", err)
	}

	dir, err := filepath.Abs(c.dataDir)
	if err != nil || c.dataDir == "" {
		return nil, tools.Errorf(tools.CodeUnsupportedResource, "no data directory configured")
	}
	if filepath.Dir(abs) != dir {
		return nil, tools.Errorf(tools.CodeAccessDenied, "resource outside data directory: %s", path)
	}

	ext := strings.ToLower(filepath.Ext(abs))
	if !dataExtensions[ext] {
		return nil, tools.Errorf(tools.CodeExtensionNotAllowed, "resource extension not allowed: %s", ext)
	}

	data, err := os.ReadFile(abs)
	if os.IsNotExist(err) {
		return nil, tools.Errorf(tools.CodeNotFound, "resource not found: %s", path)
	}
	if err != nil {
		return nil, tools.Errorf(tools.CodeAccessDenied, "cannot read resource: %v", err)
	}

	return &Content{
		URI:      "file://" + abs,
		MimeType: mimeFor(ext),
		Text:     string(data),
	}, nil
}

func (c *Catalog) readStatus() (*Content, error) {
	status := map[string]interface{}{
		"server_name":    c.status.ServerName,
		"version":        c.status.Version,
		"tools_count":    c.status.ToolCount,
		"uptime_seconds": int64(time.Since(c.status.StartedAt).Seconds()),
		"started_at":     c.status.StartedAt.Format(time.RFC3339),
		"status":         "running",
	}
	buf, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding status: %w", err)
	}
	return &Content{
		URI:      "system://status",
		MimeType: "application/json",
		Text:     string(buf),
	}, nil
}

func (c *Catalog) readLogs() (*Content, error) {
	text := "Log capture is disabled.\n"
	if c.logs != nil {
		if tail := c.logs.Tail(); tail != "" {
			text = tail
		} else {
			text = "No log entries recorded yet.\n"
		}
	}
	return &Content{
		URI:      "system://logs",
		MimeType: "text/plain",
		Text:     text,
	}, nil
}

func mimeFor(ext string) string {
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return "text/plain"
}
