package event

import (
	"time"

	"github.com/agmente/agmente/internal/codexlog"
)

// Event is the interface that all events must implement.
type Event interface {
	// EventType returns a string identifier for this event type.
	// Convention: "category.action" (e.g., "wire.message", "turn.event").
	EventType() string

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// baseEvent provides common fields for all events.
// Embed this in concrete event types to satisfy the Event interface.
type baseEvent struct {
	eventType string
	timestamp time.Time
}

func (e baseEvent) EventType() string    { return e.eventType }
func (e baseEvent) Timestamp() time.Time { return e.timestamp }

// newBaseEvent creates a baseEvent with the current time.
func newBaseEvent(eventType string) baseEvent {
	return baseEvent{
		eventType: eventType,
		timestamp: time.Now(),
	}
}

// -----------------------------------------------------------------------------
// Session Lifecycle Events
// -----------------------------------------------------------------------------

// SessionStartedEvent is emitted when a conversation with the agent
// endpoint begins (or is resumed under a new session id).
type SessionStartedEvent struct {
	baseEvent
	SessionID string // Session identifier from the endpoint
	Endpoint  string // Agent endpoint URL
	Cwd       string // Working directory the session operates in
}

// NewSessionStartedEvent creates a SessionStartedEvent.
func NewSessionStartedEvent(sessionID, endpoint, cwd string) SessionStartedEvent {
	return SessionStartedEvent{
		baseEvent: newBaseEvent("session.started"),
		SessionID: sessionID,
		Endpoint:  endpoint,
		Cwd:       cwd,
	}
}

// SessionEndedEvent is emitted when the conversation ends.
type SessionEndedEvent struct {
	baseEvent
	SessionID string
}

// NewSessionEndedEvent creates a SessionEndedEvent.
func NewSessionEndedEvent(sessionID string) SessionEndedEvent {
	return SessionEndedEvent{
		baseEvent: newBaseEvent("session.ended"),
		SessionID: sessionID,
	}
}

// -----------------------------------------------------------------------------
// Wire Events
// -----------------------------------------------------------------------------

// WireMessageEvent is emitted for every protocol message crossing the
// connection, in either direction.
type WireMessageEvent struct {
	baseEvent
	SessionID string
	Direction string // codexlog.DirectionIn or codexlog.DirectionOut
	Method    string // Protocol method name
	Payload   string // Serialized message body, already truncated by the producer
}

// NewWireMessageEvent creates a WireMessageEvent.
func NewWireMessageEvent(sessionID, direction, method, payload string) WireMessageEvent {
	return WireMessageEvent{
		baseEvent: newBaseEvent("wire.message"),
		SessionID: sessionID,
		Direction: direction,
		Method:    method,
		Payload:   payload,
	}
}

// -----------------------------------------------------------------------------
// Turn and Item Events
// -----------------------------------------------------------------------------

// TurnEvent is emitted for turn lifecycle transitions. Kind is the raw
// turn-event type string from the protocol (e.g., "turn_started").
type TurnEvent struct {
	baseEvent
	Kind      string
	SessionID string
	TurnID    string
}

// NewTurnEvent creates a TurnEvent.
func NewTurnEvent(kind, sessionID, turnID string) TurnEvent {
	return TurnEvent{
		baseEvent: newBaseEvent("turn.event"),
		Kind:      kind,
		SessionID: sessionID,
		TurnID:    turnID,
	}
}

// ReasoningEvent is emitted when the agent produces a reasoning block.
type ReasoningEvent struct {
	baseEvent
	SessionID string
	TurnID    string
	ItemID    string
	Text      string
}

// NewReasoningEvent creates a ReasoningEvent.
func NewReasoningEvent(sessionID, turnID, itemID, text string) ReasoningEvent {
	return ReasoningEvent{
		baseEvent: newBaseEvent("item.reasoning"),
		SessionID: sessionID,
		TurnID:    turnID,
		ItemID:    itemID,
		Text:      text,
	}
}

// ToolCallEvent is emitted when a tool call starts or resolves.
type ToolCallEvent struct {
	baseEvent
	SessionID string
	TurnID    string
	ItemID    string
	Title     string // Human-readable tool call title
	Kind      string // Tool kind (read, edit, shell, ...)
	Status    string // Current status (pending, completed, failed)
	Output    string // Truncated tool output, empty until resolved
}

// NewToolCallEvent creates a ToolCallEvent.
func NewToolCallEvent(sessionID, turnID, itemID, title, kind, status, output string) ToolCallEvent {
	return ToolCallEvent{
		baseEvent: newBaseEvent("item.tool_call"),
		SessionID: sessionID,
		TurnID:    turnID,
		ItemID:    itemID,
		Title:     title,
		Kind:      kind,
		Status:    status,
		Output:    output,
	}
}

// FileChangeEvent is emitted when the agent modifies a file.
type FileChangeEvent struct {
	baseEvent
	SessionID  string
	TurnID     string
	ItemID     string
	Path       string
	ChangeType string // added, modified, deleted
	Diff       string // Unified diff, already truncated by the producer
}

// NewFileChangeEvent creates a FileChangeEvent.
func NewFileChangeEvent(sessionID, turnID, itemID, path, changeType, diff string) FileChangeEvent {
	return FileChangeEvent{
		baseEvent:  newBaseEvent("item.file_change"),
		SessionID:  sessionID,
		TurnID:     turnID,
		ItemID:     itemID,
		Path:       path,
		ChangeType: changeType,
		Diff:       diff,
	}
}

// CommandExecutionEvent is emitted when the agent runs a shell command.
type CommandExecutionEvent struct {
	baseEvent
	SessionID string
	TurnID    string
	ItemID    string
	Command   string
	Cwd       string
	Output    string
}

// NewCommandExecutionEvent creates a CommandExecutionEvent.
func NewCommandExecutionEvent(sessionID, turnID, itemID, command, cwd, output string) CommandExecutionEvent {
	return CommandExecutionEvent{
		baseEvent: newBaseEvent("item.command"),
		SessionID: sessionID,
		TurnID:    turnID,
		ItemID:    itemID,
		Command:   command,
		Cwd:       cwd,
		Output:    output,
	}
}

// -----------------------------------------------------------------------------
// Diagnostic Events
// -----------------------------------------------------------------------------

// ConnectionEvent is emitted on connection lifecycle transitions
// (connecting, connected, reconnecting, closed, failed).
type ConnectionEvent struct {
	baseEvent
	State     string
	SessionID string
	Endpoint  string
	Detail    string
}

// NewConnectionEvent creates a ConnectionEvent.
func NewConnectionEvent(state, sessionID, endpoint, detail string) ConnectionEvent {
	return ConnectionEvent{
		baseEvent: newBaseEvent("connection.changed"),
		State:     state,
		SessionID: sessionID,
		Endpoint:  endpoint,
		Detail:    detail,
	}
}

// MergeOutcomeEvent is emitted after reconciling local conversation state
// with a session resumed from the server.
type MergeOutcomeEvent struct {
	baseEvent
	SessionID string
	Source    string // What triggered the merge (e.g., "reconnect", "resume")
	Stats     codexlog.DiagnosticStats
	Detail    string
}

// NewMergeOutcomeEvent creates a MergeOutcomeEvent.
func NewMergeOutcomeEvent(sessionID, source string, stats codexlog.DiagnosticStats, detail string) MergeOutcomeEvent {
	return MergeOutcomeEvent{
		baseEvent: newBaseEvent("merge.outcome"),
		SessionID: sessionID,
		Source:    source,
		Stats:     stats,
		Detail:    detail,
	}
}

// ChatSnapshotEvent carries a point-in-time view of the chat transcript,
// produced by the UI layer around merge operations.
type ChatSnapshotEvent struct {
	baseEvent
	SessionID string
	Label     string // What the snapshot captures (e.g., "pre-merge")
	Messages  []codexlog.MessageSnapshot
}

// NewChatSnapshotEvent creates a ChatSnapshotEvent.
func NewChatSnapshotEvent(sessionID, label string, messages []codexlog.MessageSnapshot) ChatSnapshotEvent {
	return ChatSnapshotEvent{
		baseEvent: newBaseEvent("chat.snapshot"),
		SessionID: sessionID,
		Label:     label,
		Messages:  messages,
	}
}

// RenderDecisionEvent is emitted when the UI layer decides how to render
// (or skip rendering) a piece of content.
type RenderDecisionEvent struct {
	baseEvent
	SessionID string
	Decision  string
	Detail    string
}

// NewRenderDecisionEvent creates a RenderDecisionEvent.
func NewRenderDecisionEvent(sessionID, decision, detail string) RenderDecisionEvent {
	return RenderDecisionEvent{
		baseEvent: newBaseEvent("render.decision"),
		SessionID: sessionID,
		Decision:  decision,
		Detail:    detail,
	}
}
