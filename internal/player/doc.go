// Package player implements the playback engine: one logical session over an ordered queue of songs, reflected
// into a single audio [Output].
//
// # State transitions
//
// All mutations go through [Reduce], a pure function from ([State], [Action]) to a new [State]. The [Engine]
// applies actions one at a time under a mutex and never mutates a published snapshot, so readers of
// [Engine.State] and [Engine.Updates] always see a consistent value.
//
//	Idle --Play(song)--> Loading --output ready--> Playing --Pause--> Paused --Play()--> Playing
//
// There is no transition back to Idle: once a song has been loaded the engine keeps a current song.
//
// # Queue invariant
//
// CurrentIndex is in [0, len(Queue)) whenever the queue is non-empty and -1 when it is empty.
//
// # Persistence
//
// Volume and the liked-song id set are written through to a [models.KeyValue] store on every change.
// The queue and playback position are not persisted.
package player
