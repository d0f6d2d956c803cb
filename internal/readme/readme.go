// ABOUTME: Idempotent README footer stamping
// ABOUTME: Appends an attribution footer once, writing through a temp file and rename

package readme

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultFooter is appended when no footer is given.
const DefaultFooter = "---\n\nMade with [adot](https://github.com/harper/adot)"

// AppendFooter appends footer to the file at path unless the file already
// ends with it, ignoring trailing whitespace. It reports whether the file was changed. A missing file is an
// error wrapping fs.ErrNotExist.
func AppendFooter(path, footer string) (bool, error) {
	footer = strings.TrimSpace(footer)
	if footer == "" {
		footer = DefaultFooter
	}

	info, err := os.Stat(path)
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return false, fmt.Errorf("%s is a directory, not a file", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", path, err)
	}
	content := string(data)
	if strings.HasSuffix(trimTrailing(content), footer) {
		return false, nil
	}

	if err := writeAtomic(path, []byte(withFooter(content, footer)), info.Mode().Perm()); err != nil {
		return false, err
	}
	return true, nil
}

// withFooter joins content and footer with exactly one blank line between them.
func withFooter(content, footer string) string {
	body := trimTrailing(content)
	if body == "" {
		return footer + "\n"
	}
	return body + "\n\n" + footer + "\n"
}

func trimTrailing(s string) string {
	return strings.TrimRight(s, "\r\n \t")
}

func writeAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return fmt.Errorf("chmod %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
