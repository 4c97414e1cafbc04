package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/agmente/agmente/internal/codexlog"
	"github.com/agmente/agmente/internal/config"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Inspect session log files",
	Long: `List, export, follow, and purge the JSONL session log files Agmente
records for each Codex conversation.`,
}

var (
	logsDir        string
	logsExportAll  bool
	logsExportDest string
	logsPurgeForce bool
	logsTailLines  int
	logsTailFollow bool
)

var logsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List session log files, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLogsList(cmd.OutOrStdout(), sessionWriter())
	},
}

var logsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export session logs",
	Long: `Export the most recent session log (or all of them with --all) to
stdout or to the file given with --output.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLogsExport(cmd.OutOrStdout(), sessionWriter(), logsExportDest, logsExportAll)
	},
}

var logsPurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete all session log files",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !logsPurgeForce {
			return fmt.Errorf("refusing to delete session logs without --force")
		}
		return runLogsPurge(cmd.OutOrStdout(), sessionWriter())
	},
}

var logsTailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Print the end of the most recent session log",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLogsTail(cmd.OutOrStdout(), sessionWriter(), logsTailLines, logsTailFollow)
	},
}

func init() {
	rootCmd.AddCommand(logsCmd)
	logsCmd.AddCommand(logsListCmd, logsExportCmd, logsPurgeCmd, logsTailCmd)

	logsCmd.PersistentFlags().StringVar(&logsDir, "dir", "", "Log directory (default: the application log directory)")
	logsExportCmd.Flags().BoolVarP(&logsExportAll, "all", "a", false, "Export every session log, oldest first")
	logsExportCmd.Flags().StringVarP(&logsExportDest, "output", "o", "", "Write to a file instead of stdout")
	logsPurgeCmd.Flags().BoolVar(&logsPurgeForce, "force", false, "Actually delete the files")
	logsTailCmd.Flags().IntVarP(&logsTailLines, "lines", "n", 20, "Number of lines to show (0 for all)")
	logsTailCmd.Flags().BoolVarP(&logsTailFollow, "follow", "f", false, "Keep the file open and print appended lines")
}

// sessionWriter builds a read-side writer over the configured log
// directory, honoring the --dir override.
func sessionWriter() *codexlog.Writer {
	cfg := config.Get()
	var resolve codexlog.DirResolver
	if logsDir != "" {
		dir := logsDir
		resolve = func() string { return dir }
	}
	return codexlog.NewWriter(resolve, cfg.Logging.MaxFiles, cfg.Logging.Level)
}

var (
	logsHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	logsNameStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	logsMetaStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
)

func runLogsList(out io.Writer, w *codexlog.Writer) error {
	paths := w.CollectLogFiles()
	if len(paths) == 0 {
		fmt.Fprintln(out, "No session logs found.")
		return nil
	}

	fmt.Fprintln(out, logsHeaderStyle.Render(fmt.Sprintf("%-58s %10s  %s", "FILE", "SIZE", "MODIFIED")))
	for _, path := range paths {
		size, modified := "?", "?"
		if info, err := os.Stat(path); err == nil {
			size = humanSize(info.Size())
			modified = humanAge(info.ModTime())
		}
		fmt.Fprintf(out, "%s %s  %s\n",
			logsNameStyle.Render(fmt.Sprintf("%-58s", filepath.Base(path))),
			logsMetaStyle.Render(fmt.Sprintf("%10s", size)),
			logsMetaStyle.Render(modified))
	}
	return nil
}

func runLogsExport(out io.Writer, w *codexlog.Writer, dest string, all bool) error {
	paths := w.CollectLogFiles()
	if len(paths) == 0 {
		return fmt.Errorf("no session logs found")
	}
	if !all {
		paths = paths[:1]
	}

	target := out
	if dest != "" {
		file, err := os.Create(dest)
		if err != nil {
			return fmt.Errorf("creating export file: %w", err)
		}
		defer file.Close()
		target = file
	}

	// Oldest first so the export reads chronologically.
	for i := len(paths) - 1; i >= 0; i-- {
		file, err := os.Open(paths[i])
		if err != nil {
			return fmt.Errorf("opening %s: %w", paths[i], err)
		}
		_, err = io.Copy(target, file)
		file.Close()
		if err != nil {
			return fmt.Errorf("exporting %s: %w", paths[i], err)
		}
	}
	return nil
}

func runLogsPurge(out io.Writer, w *codexlog.Writer) error {
	count := len(w.CollectLogFiles())
	w.DeleteAllLogs()
	fmt.Fprintf(out, "Deleted %d session log file(s).\n", count)
	return nil
}

func runLogsTail(out io.Writer, w *codexlog.Writer, lines int, follow bool) error {
	paths := w.CollectLogFiles()
	if len(paths) == 0 {
		return fmt.Errorf("no session logs found")
	}
	path := paths[0]

	offset, err := printTail(out, path, lines)
	if err != nil {
		return err
	}
	if !follow {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("watching %s: %w", path, err)
	}

	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Write) {
				offset, err = printFrom(out, path, offset)
				if err != nil {
					return err
				}
			}
			if ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
				// The session rotated or was purged; stop following.
				return nil
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watching %s: %w", path, err)
		}
	}
}

// printTail writes the last n lines of the file (all lines when n <= 0)
// and returns the offset at end of file.
func printTail(out io.Writer, path string, n int) (int64, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening %s: %w", path, err)
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("reading %s: %w", path, err)
	}

	if n > 0 && len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	for _, line := range lines {
		fmt.Fprintln(out, line)
	}

	offset, err := file.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, err
	}
	return offset, nil
}

// printFrom writes everything appended past offset and returns the new
// offset.
func printFrom(out io.Writer, path string, offset int64) (int64, error) {
	file, err := os.Open(path)
	if err != nil {
		return offset, fmt.Errorf("opening %s: %w", path, err)
	}
	defer file.Close()

	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return offset, err
	}
	n, err := io.Copy(out, file)
	if err != nil {
		return offset, err
	}
	return offset + n, nil
}

func humanSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

func humanAge(t time.Time) string {
	age := time.Since(t)
	switch {
	case age < time.Minute:
		return "just now"
	case age < time.Hour:
		return fmt.Sprintf("%dm ago", int(age.Minutes()))
	case age < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(age.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(age.Hours()/24))
	}
}
