package codexlog

import (
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Writer is the session log writer. It owns the current session id and
// the single open log file, and appends one JSON line per logged event.
//
// All exported methods are safe for concurrent use. Write-side methods
// serialize on an internal mutex so file-state mutation and the byte
// sequence written to the active file never interleave across calls.
type Writer struct {
	mu       sync.Mutex
	resolve  DirResolver
	maxFiles int
	level    string

	// Current session state. file is non-nil iff sessionID is non-empty
	// iff a file was successfully opened.
	sessionID string
	filePath  string
	file      *os.File
}

// NewWriter creates a session log writer. resolve locates the log
// directory (nil means [DefaultLogDir]); maxFiles is the retention limit
// applied on each rotation (zero or negative disables pruning); level is
// the initial verbosity for gated diagnostics.
func NewWriter(resolve DirResolver, maxFiles int, level string) *Writer {
	if resolve == nil {
		resolve = DefaultLogDir
	}
	return &Writer{
		resolve:  resolve,
		maxFiles: maxFiles,
		level:    ParseLevel(level),
	}
}

// StartSession rotates to a new log file for the given session and writes
// its session_start entry. When called again with the session that is
// already open it is a no-op returning the existing path. When a
// different session is open, that session is ended first (its session_end
// entry is written before its file closes).
//
// Returns the path of the active log file, or "" if the directory or file
// could not be created; in that case the writer holds no session and
// subsequent log calls are silent no-ops until the next StartSession.
func (w *Writer) StartSession(sessionID, endpoint, cwd string) string {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file != nil && w.sessionID == sessionID {
		return w.filePath
	}
	w.closeLocked(true)

	dir := w.resolve()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return ""
	}
	if w.maxFiles > 0 {
		// The file this rotation is about to create counts toward the
		// retention limit.
		pruneLogFiles(dir, w.maxFiles-1)
	}

	path := filepath.Join(dir, logFileName(sessionID, time.Now()))
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return ""
	}

	w.file = file
	w.filePath = path
	w.sessionID = sessionID
	w.appendLocked(&LogEntry{
		Type:      TypeSessionStart,
		Timestamp: now(),
		SessionID: sessionID,
		Endpoint:  endpoint,
		Cwd:       cwd,
	})
	return path
}

// EndSession writes a session_end entry and closes the current log file.
// No-op when no session is open.
func (w *Writer) EndSession() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closeLocked(true)
}

// closeLocked closes the current file, optionally writing a session_end
// entry first, and clears the session state. The caller must hold mu.
func (w *Writer) closeLocked(emitEnd bool) {
	if w.file == nil {
		return
	}
	if emitEnd {
		w.appendLocked(&LogEntry{
			Type:      TypeSessionEnd,
			Timestamp: now(),
			SessionID: w.sessionID,
		})
	}
	_ = w.file.Close()
	w.file = nil
	w.filePath = ""
	w.sessionID = ""
}

// LogWire records one protocol message crossing the wire. direction is
// caller-supplied ([DirectionIn] or [DirectionOut]) and passed through
// unvalidated.
func (w *Writer) LogWire(direction, method, message, sessionID string) {
	w.append(&LogEntry{
		Type:      TypeWire,
		Timestamp: now(),
		SessionID: sessionID,
		Direction: direction,
		Method:    method,
		Message:   message,
	})
}

// LogTurnEvent records a turn lifecycle event of an arbitrary type.
func (w *Writer) LogTurnEvent(eventType, sessionID, turnID string) {
	w.append(&LogEntry{
		Type:      eventType,
		Timestamp: now(),
		SessionID: sessionID,
		TurnID:    turnID,
	})
}

// LogReasoning records a reasoning block emitted during a turn.
func (w *Writer) LogReasoning(sessionID, turnID, itemID, text string) {
	w.append(&LogEntry{
		Type:      TypeReasoning,
		Timestamp: now(),
		SessionID: sessionID,
		TurnID:    turnID,
		ItemID:    itemID,
		Message:   text,
	})
}

// LogToolCall records a tool call and its outcome.
func (w *Writer) LogToolCall(sessionID, turnID, itemID, title, kind, status, output string) {
	w.append(&LogEntry{
		Type:      TypeToolCall,
		Timestamp: now(),
		SessionID: sessionID,
		TurnID:    turnID,
		ItemID:    itemID,
		Title:     title,
		Kind:      kind,
		Status:    status,
		Output:    output,
	})
}

// LogFileChange records a file modification made by the agent.
func (w *Writer) LogFileChange(sessionID, turnID, itemID, path, changeType, diff string) {
	w.append(&LogEntry{
		Type:       TypeFileChange,
		Timestamp:  now(),
		SessionID:  sessionID,
		TurnID:     turnID,
		ItemID:     itemID,
		Path:       path,
		ChangeType: changeType,
		Diff:       diff,
	})
}

// LogCommandExecution records a shell command run by the agent.
func (w *Writer) LogCommandExecution(sessionID, turnID, itemID, command, cwd, output string) {
	w.append(&LogEntry{
		Type:      TypeCommandExecution,
		Timestamp: now(),
		SessionID: sessionID,
		TurnID:    turnID,
		ItemID:    itemID,
		Command:   command,
		Cwd:       cwd,
		Output:    output,
	})
}

// LogConnectionEvent records a connection lifecycle diagnostic. Emitted at
// every verbosity level.
func (w *Writer) LogConnectionEvent(event, sessionID, endpoint, detail string) {
	w.append(&DiagnosticEntry{
		Type:      TypeConnection,
		Timestamp: now(),
		SessionID: sessionID,
		Event:     event,
		Endpoint:  endpoint,
		Detail:    detail,
	})
}

// LogMergeOutcome records the statistics of one session-resume merge.
// Emitted at every verbosity level: merge correctness is standard-level
// observability.
func (w *Writer) LogMergeOutcome(sessionID, source string, stats DiagnosticStats, detail string) {
	w.append(&DiagnosticEntry{
		Type:      TypeMergeOutcome,
		Timestamp: now(),
		SessionID: sessionID,
		Source:    source,
		Detail:    detail,
		Stats:     &stats,
	})
}

// LogChatSnapshot records a snapshot of the chat transcript. Dropped
// without any I/O unless the verbosity level is verbose.
func (w *Writer) LogChatSnapshot(sessionID, label string, messages []MessageSnapshot) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.level != LevelVerbose {
		return
	}
	w.appendLocked(&DiagnosticEntry{
		Type:      TypeChatSnapshot,
		Timestamp: now(),
		SessionID: sessionID,
		Event:     label,
		Messages:  messages,
	})
}

// LogRenderDecision records a UI rendering decision. Dropped without any
// I/O unless the verbosity level is verbose.
func (w *Writer) LogRenderDecision(sessionID, event, detail string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.level != LevelVerbose {
		return
	}
	w.appendLocked(&DiagnosticEntry{
		Type:      TypeRenderDecision,
		Timestamp: now(),
		SessionID: sessionID,
		Event:     event,
		Detail:    detail,
	})
}

// SetLogLevel changes the verbosity gate for calls issued after it
// returns.
func (w *Writer) SetLogLevel(level string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.level = ParseLevel(level)
}

// DeleteAllLogs closes the current file without writing a session_end
// entry and deletes every session log file in the directory. Idempotent;
// safe with no session open. A subsequent StartSession begins cleanly.
func (w *Writer) DeleteAllLogs() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.closeLocked(false)
	for _, file := range listLogFiles(w.resolve()) {
		_ = os.Remove(file.path)
	}
}

// append serializes one write-side call.
func (w *Writer) append(entry any) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.appendLocked(entry)
}

// appendLocked writes one entry line to the open file. The caller must
// hold mu. All failures are swallowed: with no open file the entry is
// dropped, an encode failure drops the entry, and a write failure drops
// the entry but leaves the file open so later writes can still succeed.
func (w *Writer) appendLocked(entry any) {
	if w.file == nil {
		return
	}
	line, err := encodeLine(entry)
	if err != nil {
		return
	}
	_, _ = w.file.Write(line)
}
