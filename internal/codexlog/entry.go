package codexlog

import (
	"bytes"
	"encoding/json"
	"time"
)

// Entry types for protocol-level session events. LogTurnEvent additionally
// accepts arbitrary caller-supplied type strings for turn lifecycle events.
const (
	TypeSessionStart     = "session_start"
	TypeSessionEnd       = "session_end"
	TypeWire             = "wire"
	TypeReasoning        = "reasoning"
	TypeToolCall         = "tool_call"
	TypeFileChange       = "file_change"
	TypeCommandExecution = "command_execution"
)

// Entry types for diagnostic events.
const (
	TypeConnection     = "connection"
	TypeMergeOutcome   = "merge_outcome"
	TypeChatSnapshot   = "chat_snapshot"
	TypeRenderDecision = "render_decision"
)

// Wire directions.
const (
	DirectionIn  = "in"
	DirectionOut = "out"
)

// LogEntry is one protocol-level session event. The field set is a
// superset across all entry types; fields that do not apply to a given
// type are left zero and omitted from the JSON line.
type LogEntry struct {
	Type       string `json:"type"`
	Timestamp  string `json:"timestamp"`
	SessionID  string `json:"sessionId,omitempty"`
	TurnID     string `json:"turnId,omitempty"`
	ItemID     string `json:"itemId,omitempty"`
	Direction  string `json:"direction,omitempty"`
	Method     string `json:"method,omitempty"`
	Message    string `json:"message,omitempty"`
	Title      string `json:"title,omitempty"`
	Kind       string `json:"kind,omitempty"`
	Status     string `json:"status,omitempty"`
	Output     string `json:"output,omitempty"`
	Path       string `json:"path,omitempty"`
	ChangeType string `json:"changeType,omitempty"`
	Diff       string `json:"diff,omitempty"`
	Command    string `json:"command,omitempty"`
	Cwd        string `json:"cwd,omitempty"`
	Endpoint   string `json:"endpoint,omitempty"`
}

// DiagnosticEntry is one internal-observability event.
type DiagnosticEntry struct {
	Type      string            `json:"type"`
	Timestamp string            `json:"timestamp"`
	SessionID string            `json:"sessionId,omitempty"`
	Event     string            `json:"event,omitempty"`
	Source    string            `json:"source,omitempty"`
	Detail    string            `json:"detail,omitempty"`
	Endpoint  string            `json:"endpoint,omitempty"`
	Stats     *DiagnosticStats  `json:"stats,omitempty"`
	Messages  []MessageSnapshot `json:"messages,omitempty"`
}

// DiagnosticStats carries the counters from one merge/reconciliation of a
// locally-held conversation with a server-resumed one.
type DiagnosticStats struct {
	Reused                int  `json:"reused"`
	Inserted              int  `json:"inserted"`
	Updated               int  `json:"updated"`
	Unchanged             int  `json:"unchanged"`
	ResumedTurns          int  `json:"resumedTurns"`
	ResumedItems          int  `json:"resumedItems"`
	StaleDetected         bool `json:"staleDetected"`
	PreferLocalRichness   bool `json:"preferLocalRichness"`
	CarryForwardUnmatched bool `json:"carryForwardUnmatched"`
	LocalToolCalls        int  `json:"localToolCalls"`
	ResumedToolCalls      int  `json:"resumedToolCalls"`
}

// MessageSnapshot is a point-in-time view of one chat message, produced by
// the UI layer for chat_snapshot diagnostics. The writer treats it as
// opaque beyond serialization.
type MessageSnapshot struct {
	Index        int    `json:"index"`
	Role         string `json:"role"`
	Streaming    bool   `json:"streaming"`
	SegmentCount int    `json:"segmentCount"`
	SegmentKinds string `json:"segmentKinds,omitempty"`
	ToolCalls    int    `json:"toolCalls"`
	Preview      string `json:"preview,omitempty"`
	MessageID    string `json:"messageId,omitempty"`
}

// timestampLayout is RFC 3339 with fixed millisecond precision. Timestamps
// are always UTC.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// now returns the current time formatted for an entry timestamp.
func now() string {
	return time.Now().UTC().Format(timestampLayout)
}

// encodeLine serializes an entry as one compact JSON object followed by a
// newline. HTML escaping is disabled so forward slashes in paths and URLs
// stay literal.
func encodeLine(entry any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(entry); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
