package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileMover relocates an uploaded file from its staging location into
// permanent storage.
type FileMover interface {
	Move(tempPath, finalPath string) error
	Remove(path string) error
}

// OSFileMover implements FileMover on the local filesystem.
type OSFileMover struct{}

func (OSFileMover) Move(tempPath, finalPath string) error {
	if err := os.MkdirAll(filepath.Dir(finalPath), 0o755); err != nil {
		return fmt.Errorf("create storage dir: %w", err)
	}
	if err := os.Rename(tempPath, finalPath); err != nil {
		return fmt.Errorf("move file: %w", err)
	}
	return nil
}

func (OSFileMover) Remove(path string) error {
	return os.Remove(path)
}

// SanitizeFilename strips any path components from an uploaded filename and
// reduces it to a safe character set. Uploaded names are attacker-controlled;
// without this a crafted name could escape the avatars directory.
func SanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "..", "")

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	out := strings.Trim(b.String(), ".")
	if out == "" {
		return "avatar"
	}
	return out
}
