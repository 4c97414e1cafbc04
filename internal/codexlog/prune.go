package codexlog

import "os"

// DefaultMaxLogFiles is the default retention limit for session log files.
const DefaultMaxLogFiles = 5

// pruneLogFiles deletes all but the keep most recently created session
// log files in dir; keep <= 0 deletes every file. Deletion is
// best-effort: a file that cannot be removed is skipped and pruning
// continues through the rest.
//
// Whether retention is enabled at all is the caller's decision; the
// writer skips pruning entirely when its configured limit is not
// positive.
func pruneLogFiles(dir string, keep int) {
	if keep < 0 {
		keep = 0
	}
	files := listLogFiles(dir)
	if len(files) <= keep {
		return
	}
	for _, file := range files[keep:] {
		_ = os.Remove(file.path)
	}
}
