// Package event provides a pub-sub event bus for decoupled communication
// between Agmente's protocol client, UI layer, and observability code.
//
// Producers publish events describing session activity (wire traffic, turn
// lifecycle, connection state, merge outcomes, render decisions) without
// knowing who consumes them; the session log recorder subscribes to the
// types it persists. This keeps the protocol and UI layers free of any
// dependency on the logging machinery.
//
// # Thread Safety
//
// [Bus] is safe for concurrent use. Handlers are called synchronously in
// registration order and are protected against panics: a panicking handler
// cannot prevent delivery to the remaining handlers.
//
// # Event Type Naming Convention
//
// Event types follow the pattern "category.action":
//   - session.started, session.ended
//   - wire.message
//   - turn.event
//   - item.reasoning, item.tool_call, item.file_change, item.command
//   - connection.changed
//   - merge.outcome
//   - chat.snapshot, render.decision
package event
