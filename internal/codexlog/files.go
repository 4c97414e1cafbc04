package codexlog

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	filePrefix = "codex-session-"
	fileExt    = ".jsonl"

	// fileTimeLayout is the seconds-resolution timestamp embedded in each
	// filename. It keeps names filesystem-safe and sortable.
	fileTimeLayout = "20060102-150405"
)

// DirResolver returns the directory session log files live in. It is
// injected so tests can point the writer at a scratch directory.
type DirResolver func() string

// DefaultLogDir resolves the per-application log directory under the
// platform's user config location, falling back to the system temp
// directory when that cannot be determined.
func DefaultLogDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "Agmente", "logs", "codex")
}

// sanitizeSessionID makes a session id safe for use in a filename.
// Characters outside [A-Za-z0-9_-] become "-"; input that yields nothing
// usable falls back to "session". Reapplying to an output is a no-op.
func sanitizeSessionID(id string) string {
	sanitized := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			return r
		default:
			return '-'
		}
	}, id)
	if strings.Trim(sanitized, "-") == "" {
		return "session"
	}
	return sanitized
}

// logFileName builds the filename for a session started at t.
func logFileName(sessionID string, t time.Time) string {
	return filePrefix + sanitizeSessionID(sessionID) + "-" + t.Format(fileTimeLayout) + fileExt
}

// isLogFileName reports whether name matches the session log naming
// convention.
func isLogFileName(name string) bool {
	return strings.HasPrefix(name, filePrefix) && strings.HasSuffix(name, fileExt) &&
		len(name) > len(filePrefix)+len(fileExt)
}

// fileCreationTime recovers the creation time embedded in a log filename.
// Unparsable names yield the zero time, which sorts as oldest so such
// files are never protected from pruning.
func fileCreationTime(name string) time.Time {
	trimmed := strings.TrimSuffix(name, fileExt)
	if len(trimmed) < len(fileTimeLayout) {
		return time.Time{}
	}
	stamp := trimmed[len(trimmed)-len(fileTimeLayout):]
	t, err := time.ParseInLocation(fileTimeLayout, stamp, time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}

// logFileInfo couples a log file path with its creation time.
type logFileInfo struct {
	path    string
	created time.Time
}

// listLogFiles returns all session log files in dir, newest first. Files
// with equal creation times (same-second rotations) order by name
// descending so the result is deterministic. A missing or unreadable
// directory yields nil.
func listLogFiles(dir string) []logFileInfo {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var files []logFileInfo
	for _, entry := range entries {
		if entry.IsDir() || !isLogFileName(entry.Name()) {
			continue
		}
		files = append(files, logFileInfo{
			path:    filepath.Join(dir, entry.Name()),
			created: fileCreationTime(entry.Name()),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		if files[i].created.Equal(files[j].created) {
			return files[i].path > files[j].path
		}
		return files[i].created.After(files[j].created)
	})
	return files
}
