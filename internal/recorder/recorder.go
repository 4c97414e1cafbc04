// Package recorder connects the event bus to the session log writer.
//
// Producers publish session activity on the bus and never touch the
// logging machinery; the recorder subscribes to the event types the
// session log persists and forwards them to a codexlog.Writer from a
// single drain goroutine. Bus handlers only enqueue, so publishing is
// never blocked on file I/O; when the queue is full the event is dropped,
// matching the best-effort policy of the writer itself.
package recorder

import (
	"sync"

	"github.com/agmente/agmente/internal/codexlog"
	"github.com/agmente/agmente/internal/event"
	"github.com/agmente/agmente/internal/logging"
)

// defaultQueueSize bounds how many events may be waiting on the drain
// goroutine before publishers start dropping.
const defaultQueueSize = 256

// recordedEventTypes are the bus event types the session log persists.
var recordedEventTypes = []string{
	"session.started",
	"session.ended",
	"wire.message",
	"turn.event",
	"item.reasoning",
	"item.tool_call",
	"item.file_change",
	"item.command",
	"connection.changed",
	"merge.outcome",
	"chat.snapshot",
	"render.decision",
}

// Recorder subscribes to session activity on an event bus and appends it
// to the session log.
type Recorder struct {
	bus    *event.Bus
	writer *codexlog.Writer
	log    *logging.Logger

	mu     sync.RWMutex
	closed bool
	queue  chan event.Event
	done   chan struct{}
	subIDs []string

	closeOnce sync.Once
}

// New creates a Recorder, subscribes it to the bus, and starts its drain
// goroutine. log may be nil.
func New(bus *event.Bus, writer *codexlog.Writer, log *logging.Logger) *Recorder {
	if log == nil {
		log = logging.NopLogger()
	}
	r := &Recorder{
		bus:    bus,
		writer: writer,
		log:    log.WithComponent("recorder"),
		queue:  make(chan event.Event, defaultQueueSize),
		done:   make(chan struct{}),
	}
	for _, eventType := range recordedEventTypes {
		r.subIDs = append(r.subIDs, bus.Subscribe(eventType, r.enqueue))
	}
	go r.drain()
	return r
}

// enqueue hands an event to the drain goroutine without blocking the
// publisher. Events are dropped when the queue is full or the recorder
// is closed.
func (r *Recorder) enqueue(e event.Event) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return
	}
	select {
	case r.queue <- e:
	default:
		r.log.Debug("session log queue full, dropping event", "event", e.EventType())
	}
}

// drain forwards queued events to the writer one at a time, preserving
// enqueue order.
func (r *Recorder) drain() {
	defer close(r.done)
	for e := range r.queue {
		r.record(e)
	}
}

// record maps one bus event onto the writer's event-reporting interface.
func (r *Recorder) record(e event.Event) {
	switch ev := e.(type) {
	case event.SessionStartedEvent:
		if path := r.writer.StartSession(ev.SessionID, ev.Endpoint, ev.Cwd); path == "" {
			r.log.Warn("session log unavailable", "session_id", ev.SessionID)
		} else {
			r.log.Debug("session log started", "session_id", ev.SessionID, "path", path)
		}
	case event.SessionEndedEvent:
		r.writer.EndSession()
	case event.WireMessageEvent:
		r.writer.LogWire(ev.Direction, ev.Method, ev.Payload, ev.SessionID)
	case event.TurnEvent:
		r.writer.LogTurnEvent(ev.Kind, ev.SessionID, ev.TurnID)
	case event.ReasoningEvent:
		r.writer.LogReasoning(ev.SessionID, ev.TurnID, ev.ItemID, ev.Text)
	case event.ToolCallEvent:
		r.writer.LogToolCall(ev.SessionID, ev.TurnID, ev.ItemID, ev.Title, ev.Kind, ev.Status, ev.Output)
	case event.FileChangeEvent:
		r.writer.LogFileChange(ev.SessionID, ev.TurnID, ev.ItemID, ev.Path, ev.ChangeType, ev.Diff)
	case event.CommandExecutionEvent:
		r.writer.LogCommandExecution(ev.SessionID, ev.TurnID, ev.ItemID, ev.Command, ev.Cwd, ev.Output)
	case event.ConnectionEvent:
		r.writer.LogConnectionEvent(ev.State, ev.SessionID, ev.Endpoint, ev.Detail)
	case event.MergeOutcomeEvent:
		r.writer.LogMergeOutcome(ev.SessionID, ev.Source, ev.Stats, ev.Detail)
	case event.ChatSnapshotEvent:
		r.writer.LogChatSnapshot(ev.SessionID, ev.Label, ev.Messages)
	case event.RenderDecisionEvent:
		r.writer.LogRenderDecision(ev.SessionID, ev.Decision, ev.Detail)
	}
}

// Close unsubscribes from the bus, drains the queue, and waits for the
// drain goroutine to finish. The open session, if any, stays open; ending
// it is the producer's decision, expressed as a session.ended event
// before Close.
func (r *Recorder) Close() {
	r.closeOnce.Do(func() {
		for _, id := range r.subIDs {
			r.bus.Unsubscribe(id)
		}
		r.mu.Lock()
		r.closed = true
		r.mu.Unlock()
		close(r.queue)
		<-r.done
	})
}
