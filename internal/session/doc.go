// Package session owns one interactive double-pendulum run.
//
// A [Session] bundles the physical parameters, the evolving state, both
// trails and the energy log, and mutates them together: every call to
// [Session.Advance] is a single atomic transition
//
//	(State, Buffers) = advance(State, Buffers, Params, dt, now)
//
// so a renderer never observes a state whose trails or energy history lag
// behind it.
//
// The interaction controller is a two-state machine, Idle and Dragging,
// driven by [Session.PointerDown], [Session.PointerMove] and
// [Session.PointerUp]. Dragging pauses integration and writes angles
// directly; releasing resumes playback if it was running before.
//
// A Session is not safe for concurrent use. Integration and pointer
// callbacks must be serialized by the caller, as the frame loop does.
package session
