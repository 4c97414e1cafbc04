// Package internal contains integration tests that verify the session
// logging pipeline works end to end: producers publish on the event bus,
// the recorder drains into the session log writer, and the read path sees
// the resulting files.
package internal

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/agmente/agmente/internal/codexlog"
	"github.com/agmente/agmente/internal/event"
	"github.com/agmente/agmente/internal/recorder"
)

func TestSessionLoggingPipeline(t *testing.T) {
	dir := t.TempDir()
	bus := event.NewBus()
	writer := codexlog.NewWriter(func() string { return dir }, 3, codexlog.LevelStandard)
	rec := recorder.New(bus, writer, nil)

	// Two concurrent producers: the protocol layer and the diagnostics
	// side, both publishing into the same session.
	bus.Publish(event.NewSessionStartedEvent("sess-1", "wss://agent.example.com/codex", "/work"))

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 20; i++ {
			bus.Publish(event.NewWireMessageEvent("sess-1", codexlog.DirectionOut, fmt.Sprintf("req-%d", i), "{}"))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 20; i++ {
			bus.Publish(event.NewConnectionEvent("heartbeat", "sess-1", "wss://agent.example.com/codex", ""))
		}
	}()
	wg.Wait()

	bus.Publish(event.NewSessionEndedEvent("sess-1"))
	rec.Close()

	paths := writer.CollectLogFiles()
	if len(paths) != 1 {
		t.Fatalf("expected 1 session file, got %d", len(paths))
	}

	data, err := os.ReadFile(paths[0])
	if err != nil {
		t.Fatalf("reading session log: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	if len(lines) != 43 { // start + 40 events + end
		t.Fatalf("expected 43 lines, got %d", len(lines))
	}
	for i, line := range lines {
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("line %d is not valid JSON: %v", i+1, err)
		}
	}

	var first, last map[string]any
	_ = json.Unmarshal([]byte(lines[0]), &first)
	_ = json.Unmarshal([]byte(lines[len(lines)-1]), &last)
	if first["type"] != "session_start" || last["type"] != "session_end" {
		t.Errorf("session boundaries wrong: first %v, last %v", first["type"], last["type"])
	}
}

func TestRotationAcrossSessionsKeepsRetention(t *testing.T) {
	dir := t.TempDir()
	bus := event.NewBus()
	writer := codexlog.NewWriter(func() string { return dir }, 2, codexlog.LevelStandard)
	rec := recorder.New(bus, writer, nil)

	for i := 0; i < 5; i++ {
		bus.Publish(event.NewSessionStartedEvent(fmt.Sprintf("sess-%d", i), "wss://host", "/work"))
		bus.Publish(event.NewTurnEvent("turn_started", fmt.Sprintf("sess-%d", i), "t1"))
	}
	bus.Publish(event.NewSessionEndedEvent("sess-4"))
	rec.Close()

	paths := writer.CollectLogFiles()
	if len(paths) > 2 {
		t.Errorf("retention violated: %d files", len(paths))
	}
}
