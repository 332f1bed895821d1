package tools

import (
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileOps implements the file tools. Paths are canonicalized and checked
// against a restricted-prefix set and an extension allow-list before any
// read or write happens.
type FileOps struct {
	restricted []string
	allowedExt map[string]bool
}

// NewFileOps builds the file tool set with the given restricted path
// prefixes and allowed file extensions (with leading dot, e.g. ".txt").
func NewFileOps(restricted, extensions []string) *FileOps {
	allowed := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		allowed[strings.ToLower(ext)] = true
	}
	return &FileOps{
		restricted: restricted,
		allowedExt: allowed,
	}
}

// ReadFileResult carries file content plus metadata.
type ReadFileResult struct {
	FilePath     string    `json:"file_path"`
	Content      string    `json:"content"`
	Size         int64     `json:"size"`
	MimeType     string    `json:"mime_type,omitempty"`
	LastModified time.Time `json:"last_modified"`
	Lines        int       `json:"lines"`
	Characters   int       `json:"characters"`
}

// WriteFileResult reports what a write produced.
type WriteFileResult struct {
	FilePath      string `json:"file_path"`
	Size          int64  `json:"size"`
	Lines         int    `json:"lines"`
	Characters    int    `json:"characters"`
	BackupCreated bool   `json:"backup_created"`
	BackupPath    string `json:"backup_path,omitempty"`
	Success       bool   `json:"success"`
}

// DirEntry describes one file or directory in a listing.
type DirEntry struct {
	Name         string    `json:"name"`
	Path         string    `json:"path"`
	Type         string    `json:"type"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
	Level        int       `json:"level"`
	MimeType     string    `json:"mime_type,omitempty"`
}

// ListDirectoryResult is the outcome of a directory listing. Skipped holds
// subtrees that could not be read, so callers can tell "empty" from
// "inaccessible".
type ListDirectoryResult struct {
	DirectoryPath    string     `json:"directory_path"`
	Files            []DirEntry `json:"files"`
	Directories      []DirEntry `json:"directories"`
	TotalFiles       int        `json:"total_files"`
	TotalDirectories int        `json:"total_directories"`
	Recursive        bool       `json:"recursive"`
	IncludeHidden    bool       `json:"include_hidden"`
	Skipped          []string   `json:"skipped,omitempty"`
}

// validatePath canonicalizes the path and enforces the restricted-prefix set.
// The residual ".." check is a defensive double-check after cleaning.
func (f *FileOps) validatePath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", Errorf(CodeInvalidArgument, "invalid path: %v", err)
	}
	for _, prefix := range f.restricted {
		if abs == prefix || strings.HasPrefix(abs, prefix+string(os.PathSeparator)) {
			return "", Errorf(CodeAccessDenied, "access to %s is restricted", prefix)
		}
	}
	for _, seg := range strings.Split(abs, string(os.PathSeparator)) {
		if seg == ".." {
			return "", Errorf(CodePathTraversal, "path traversal not allowed")
		}
	}
	return abs, nil
}

func (f *FileOps) checkExtension(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if !f.allowedExt[ext] {
		return Errorf(CodeExtensionNotAllowed, "file extension not allowed: %s", ext)
	}
	return nil
}

func countLines(content string) int {
	if content == "" {
		return 0
	}
	return len(strings.Split(strings.TrimSuffix(content, "\n"), "\n"))
}

// ReadFile reads a text file and returns its content with metadata.
func (f *FileOps) ReadFile(args map[string]interface{}) (*ReadFileResult, error) {
	filePath, err := requireStringArg(args, "file_path")
	if err != nil {
		return nil, err
	}

	path, err := f.validatePath(filePath)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, Errorf(CodeNotFound, "file not found: %s", filePath)
	}
	if err != nil {
		return nil, Errorf(CodeNotFound, "cannot access file: %v", err)
	}
	if info.IsDir() {
		return nil, Errorf(CodeNotAFile, "path is not a file: %s", filePath)
	}
	if err := f.checkExtension(path); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, Errorf(CodeAccessDenied, "failed to read file: %v", err)
	}
	content := string(data)

	return &ReadFileResult{
		FilePath:     path,
		Content:      content,
		Size:         info.Size(),
		MimeType:     mime.TypeByExtension(filepath.Ext(path)),
		LastModified: info.ModTime(),
		Lines:        countLines(content),
		Characters:   len(content),
	}, nil
}

// WriteFile writes content to a file. The content goes to a temporary
// sibling first and is renamed over the target, so a partial write never
// corrupts the original. With create_backup, a prior file is copied to a
// ".backup"-suffixed sibling before the write.
func (f *FileOps) WriteFile(args map[string]interface{}) (*WriteFileResult, error) {
	filePath, err := requireStringArg(args, "file_path")
	if err != nil {
		return nil, err
	}
	content, err := stringArg(args, "content", "")
	if err != nil {
		return nil, err
	}
	createBackup, err := boolArg(args, "create_backup", false)
	if err != nil {
		return nil, err
	}

	path, err := f.validatePath(filePath)
	if err != nil {
		return nil, err
	}
	if err := f.checkExtension(path); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, Errorf(CodeAccessDenied, "failed to create directory: %v", err)
	}

	backupPath := ""
	if createBackup {
		if prior, err := os.ReadFile(path); err == nil {
			backupPath = path + ".backup"
			if err := os.WriteFile(backupPath, prior, 0o644); err != nil {
				return nil, Errorf(CodeAccessDenied, "failed to create backup: %v", err)
			}
		}
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, []byte(content), 0o644); err != nil {
		return nil, Errorf(CodeAccessDenied, "failed to write file: %v", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return nil, Errorf(CodeAccessDenied, "failed to write file: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, Errorf(CodeNotFound, "cannot stat written file: %v", err)
	}

	return &WriteFileResult{
		FilePath:      path,
		Size:          info.Size(),
		Lines:         countLines(content),
		Characters:    len(content),
		BackupCreated: backupPath != "",
		BackupPath:    backupPath,
		Success:       true,
	}, nil
}

// ListDirectory lists a directory, optionally recursively, with a
// name-substring filter and hidden-entry exclusion. Unreadable subtrees are
// recorded in Skipped rather than silently dropped.
func (f *FileOps) ListDirectory(args map[string]interface{}) (*ListDirectoryResult, error) {
	dirPath, err := stringArg(args, "directory_path", ".")
	if err != nil {
		return nil, err
	}
	recursive, err := boolArg(args, "recursive", false)
	if err != nil {
		return nil, err
	}
	includeHidden, err := boolArg(args, "include_hidden", false)
	if err != nil {
		return nil, err
	}
	fileFilter, err := stringArg(args, "file_filter", "")
	if err != nil {
		return nil, err
	}

	path, err := f.validatePath(dirPath)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, Errorf(CodeNotFound, "directory not found: %s", dirPath)
	}
	if err != nil {
		return nil, Errorf(CodeNotFound, "cannot access directory: %v", err)
	}
	if !info.IsDir() {
		return nil, Errorf(CodeNotAFile, "path is not a directory: %s", dirPath)
	}

	result := &ListDirectoryResult{
		DirectoryPath: path,
		Files:         []DirEntry{},
		Directories:   []DirEntry{},
		Recursive:     recursive,
		IncludeHidden: includeHidden,
	}
	f.collect(path, 0, recursive, includeHidden, fileFilter, result)

	result.TotalFiles = len(result.Files)
	result.TotalDirectories = len(result.Directories)
	return result, nil
}

func (f *FileOps) collect(dir string, level int, recursive, includeHidden bool, filter string, out *ListDirectoryResult) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		out.Skipped = append(out.Skipped, dir)
		return
	}

	for _, entry := range entries {
		name := entry.Name()
		if !includeHidden && strings.HasPrefix(name, ".") {
			continue
		}
		if filter != "" && !strings.Contains(name, filter) {
			continue
		}

		full := filepath.Join(dir, name)
		info, err := entry.Info()
		if err != nil {
			out.Skipped = append(out.Skipped, full)
			continue
		}

		item := DirEntry{
			Name:         name,
			Path:         full,
			Size:         info.Size(),
			LastModified: info.ModTime(),
			Level:        level,
			MimeType:     mime.TypeByExtension(filepath.Ext(name)),
		}

		if entry.IsDir() {
			item.Type = "directory"
			out.Directories = append(out.Directories, item)
			if recursive {
				f.collect(full, level+1, recursive, includeHidden, filter, out)
			}
		} else {
			item.Type = "file"
			out.Files = append(out.Files, item)
		}
	}
}
