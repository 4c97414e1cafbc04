// Package codexlog records the traffic and lifecycle of a Codex agent
// session as JSON Lines files on disk, for later export and for debugging
// session-resume behavior.
//
// # Main Types
//
//   - [Writer]: the serialized session log writer. It owns at most one open
//     log file at a time, rotates to a fresh file per session, and appends
//     exactly one JSON line per logged event.
//   - [LogEntry]: a protocol-level event (session boundaries, wire traffic,
//     turn events, reasoning, tool calls, file changes, command executions).
//   - [DiagnosticEntry]: an internal-observability event (connection state,
//     merge outcomes, chat snapshots, render decisions).
//
// # File Layout
//
// Each session produces one file named
//
//	codex-session-<sanitizedId>-<yyyyMMdd-HHmmss>.jsonl
//
// under the application log directory (see [DefaultLogDir]). Old files are
// pruned on rotation so at most a configured number remain.
//
// # Concurrency
//
// All Writer operations are safe for concurrent use. Write-side operations
// serialize on an internal mutex, so entries appear in the file in the order
// their calls acquired the lock. [Writer.CollectLogFiles] is a lock-free
// read path and may observe the directory mid-rotation.
//
// # Error Policy
//
// Logging must never break the session it observes. Every I/O failure is
// swallowed: a failed append drops that one entry and leaves the file open,
// a failed deletion leaves the file in place. The single exception is
// [Writer.StartSession], which returns an empty path when the log file
// could not be created so callers can tell logging did not start.
package codexlog
