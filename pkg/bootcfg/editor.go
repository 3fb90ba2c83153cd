package bootcfg

import (
	"fmt"
	"os"
	"strings"

	kderrors "github.com/bsun-sudo/sonic-utilities/pkg/errors"
)

// ReadLines loads path as an ordered line sequence without trailing
// newlines. A read failure is an IO_ERROR; callers treat it as fatal.
func ReadLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, kderrors.Wrap(kderrors.ErrCodeIO, err, fmt.Sprintf("failed to read %s", path))
	}

	s := strings.TrimRight(string(data), "\n")
	if s == "" {
		return nil, nil
	}
	return strings.Split(s, "\n"), nil
}

// Locate returns the index of the first line containing needle.
func Locate(lines []string, needle string) (int, bool) {
	for i, line := range lines {
		if strings.Contains(line, needle) {
			return i, true
		}
	}
	return 0, false
}

// WriteLines truncates path and rewrites it, one line per entry,
// newline-terminated. The rewrite is not atomic; boot entries only matter
// at the next reboot and a single operator owns the file during an
// invocation.
func WriteLines(path string, lines []string) error {
	var b strings.Builder
	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return kderrors.Wrap(kderrors.ErrCodeIO, err, fmt.Sprintf("failed to write %s", path))
	}
	return nil
}
