package codexlog

// CollectLogFiles returns the paths of all session log files in the log
// directory, sorted by creation time descending (newest first).
//
// This is a pure read path: it takes no lock and may run concurrently
// with writes. A file created mid-listing may or may not appear.
func (w *Writer) CollectLogFiles() []string {
	files := listLogFiles(w.resolve())
	paths := make([]string, 0, len(files))
	for _, file := range files {
		paths = append(paths, file.path)
	}
	return paths
}
