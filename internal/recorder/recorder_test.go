package recorder

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/agmente/agmente/internal/codexlog"
	"github.com/agmente/agmente/internal/event"
)

func newTestRecorder(t *testing.T, level string) (*event.Bus, *codexlog.Writer, *Recorder) {
	t.Helper()
	dir := t.TempDir()
	bus := event.NewBus()
	writer := codexlog.NewWriter(func() string { return dir }, 0, level)
	rec := New(bus, writer, nil)
	t.Cleanup(rec.Close)
	return bus, writer, rec
}

func readTypes(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading session log: %v", err)
	}
	var types []string
	for _, line := range strings.Split(strings.TrimSuffix(string(data), "\n"), "\n") {
		var entry struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("invalid line %q: %v", line, err)
		}
		types = append(types, entry.Type)
	}
	return types
}

func TestRecorderPersistsSessionActivity(t *testing.T) {
	bus, writer, rec := newTestRecorder(t, codexlog.LevelStandard)

	bus.Publish(event.NewSessionStartedEvent("s1", "wss://host", "/tmp"))
	bus.Publish(event.NewWireMessageEvent("s1", codexlog.DirectionOut, "initialize", "{}"))
	bus.Publish(event.NewTurnEvent("turn_started", "s1", "t1"))
	bus.Publish(event.NewReasoningEvent("s1", "t1", "i1", "thinking"))
	bus.Publish(event.NewToolCallEvent("s1", "t1", "i2", "Read", "read", "completed", "ok"))
	bus.Publish(event.NewFileChangeEvent("s1", "t1", "i3", "/tmp/a.go", "modified", "+x"))
	bus.Publish(event.NewCommandExecutionEvent("s1", "t1", "i4", "go vet", "/tmp", "ok"))
	bus.Publish(event.NewConnectionEvent("connected", "s1", "wss://host", ""))
	bus.Publish(event.NewMergeOutcomeEvent("s1", "reconnect", codexlog.DiagnosticStats{Reused: 2}, ""))
	bus.Publish(event.NewSessionEndedEvent("s1"))

	rec.Close() // drain before reading

	paths := writer.CollectLogFiles()
	if len(paths) != 1 {
		t.Fatalf("expected 1 session file, got %d", len(paths))
	}

	got := readTypes(t, paths[0])
	want := []string{
		"session_start", "wire", "turn_started", "reasoning", "tool_call",
		"file_change", "command_execution", "connection", "merge_outcome",
		"session_end",
	}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("types = %v, want %v", got, want)
	}
}

func TestRecorderRespectsVerbosityGate(t *testing.T) {
	bus, writer, rec := newTestRecorder(t, codexlog.LevelStandard)

	bus.Publish(event.NewSessionStartedEvent("s1", "wss://host", "/tmp"))
	bus.Publish(event.NewChatSnapshotEvent("s1", "pre-merge", []codexlog.MessageSnapshot{{Role: "user"}}))
	bus.Publish(event.NewRenderDecisionEvent("s1", "collapse", ""))
	rec.Close()

	paths := writer.CollectLogFiles()
	if len(paths) != 1 {
		t.Fatalf("expected 1 session file, got %d", len(paths))
	}
	if types := readTypes(t, paths[0]); len(types) != 1 || types[0] != "session_start" {
		t.Errorf("gated diagnostics leaked at standard level: %v", types)
	}
}

func TestRecorderVerboseWritesSnapshots(t *testing.T) {
	bus, writer, rec := newTestRecorder(t, codexlog.LevelVerbose)

	bus.Publish(event.NewSessionStartedEvent("s1", "wss://host", "/tmp"))
	bus.Publish(event.NewChatSnapshotEvent("s1", "pre-merge", []codexlog.MessageSnapshot{{Role: "user"}}))
	bus.Publish(event.NewRenderDecisionEvent("s1", "collapse", "too long"))
	rec.Close()

	got := readTypes(t, writer.CollectLogFiles()[0])
	want := []string{"session_start", "chat_snapshot", "render_decision"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("types = %v, want %v", got, want)
	}
}

// unrelatedEvent is a bus event type the recorder does not subscribe to.
type unrelatedEvent struct{ at time.Time }

func (e unrelatedEvent) EventType() string    { return "ui.resize" }
func (e unrelatedEvent) Timestamp() time.Time { return e.at }

func TestRecorderIgnoresUnrelatedEvents(t *testing.T) {
	bus, writer, rec := newTestRecorder(t, codexlog.LevelStandard)

	bus.Publish(event.NewSessionStartedEvent("s1", "wss://host", "/tmp"))
	bus.Publish(unrelatedEvent{at: time.Now()})
	rec.Close()

	got := readTypes(t, writer.CollectLogFiles()[0])
	if len(got) != 1 || got[0] != "session_start" {
		t.Errorf("expected only session_start, got %v", got)
	}
}

func TestRecorderCloseIsIdempotent(t *testing.T) {
	bus, _, rec := newTestRecorder(t, codexlog.LevelStandard)

	rec.Close()
	rec.Close()

	// Publishing after close must not panic or block.
	bus.Publish(event.NewWireMessageEvent("s1", codexlog.DirectionIn, "update", "{}"))
}
