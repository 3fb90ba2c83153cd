package store

import (
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/renameio/v2"

	kderrors "github.com/bsun-sudo/sonic-utilities/pkg/errors"
)

const (
	useKdumpKey = "USE_KDUMP"
	numDumpsKey = "KDUMP_NUM_DUMPS"
)

// ToolConfig reads and writes the kdump tool's KEY=VALUE config file.
// Every write is re-read and compared against what was requested; a
// mismatch is a VERIFY_FAILED error and fatal to the operation. A missing
// key line is caught the same way: the substitution touches nothing and
// the read-back comes up empty.
type ToolConfig struct {
	path string
}

// NewToolConfig returns a ToolConfig over the file at path.
func NewToolConfig(path string) *ToolConfig {
	return &ToolConfig{path: path}
}

// WriteEnabled persists USE_KDUMP as 1 or 0.
func (t *ToolConfig) WriteEnabled(enabled bool) error {
	v := "0"
	if enabled {
		v = "1"
	}
	return t.writeKey(useKdumpKey, v)
}

// WriteNumDumps persists KDUMP_NUM_DUMPS.
func (t *ToolConfig) WriteNumDumps(n int) error {
	return t.writeKey(numDumpsKey, strconv.Itoa(n))
}

// UseKdump reports the persisted USE_KDUMP flag.
func (t *ToolConfig) UseKdump() (bool, error) {
	v, err := t.readKey(useKdumpKey)
	if err != nil {
		return false, err
	}
	return v == "1", nil
}

// StoredNumDumps reports the persisted KDUMP_NUM_DUMPS value; 0 when the
// key is absent. A non-numeric stored value is a VERIFY_FAILED error.
func (t *ToolConfig) StoredNumDumps() (int, error) {
	v, err := t.readKey(numDumpsKey)
	if err != nil {
		return 0, err
	}
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, kderrors.Newf(kderrors.ErrCodeVerifyFailed,
			"%s holds non-numeric value %q in %s", numDumpsKey, v, t.path)
	}
	return n, nil
}

func (t *ToolConfig) writeKey(key, value string) error {
	data, err := os.ReadFile(t.path)
	if err != nil {
		return kderrors.Wrap(kderrors.ErrCodeIO, err, fmt.Sprintf("failed to read %s", t.path))
	}

	re := regexp.MustCompile("(?m)^" + regexp.QuoteMeta(key) + "=.*$")
	out := re.ReplaceAll(data, []byte(key+"="+value))
	if err := renameio.WriteFile(t.path, out, 0o644); err != nil {
		return kderrors.Wrap(kderrors.ErrCodeIO, err, fmt.Sprintf("failed to write %s", t.path))
	}

	got, err := t.readKey(key)
	if err != nil {
		return err
	}
	if got != value {
		return kderrors.Newf(kderrors.ErrCodeVerifyFailed,
			"%s reads back %q after writing %q to %s", key, got, value, t.path)
	}

	slog.Debug("tool config updated", slog.String("key", key), slog.String("value", value))
	return nil
}

// readKey returns the value of the first KEY= line, "" when absent.
func (t *ToolConfig) readKey(key string) (string, error) {
	data, err := os.ReadFile(t.path)
	if err != nil {
		return "", kderrors.Wrap(kderrors.ErrCodeIO, err, fmt.Sprintf("failed to read %s", t.path))
	}

	re := regexp.MustCompile("(?m)^" + regexp.QuoteMeta(key) + "=(.*)$")
	m := re.FindSubmatch(data)
	if m == nil {
		return "", nil
	}
	return strings.TrimSpace(string(m[1])), nil
}
