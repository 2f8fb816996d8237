package store

import "cadence-cli/internal/board"

// BoardState builds the engine's mutable state from a loaded workspace. The
// records are copied: optimistic edits and rollbacks touch the state, not the
// load snapshot.
func BoardState(db *DB) *board.State {
	st := &board.State{}
	for i := range db.Tasks {
		t := db.Tasks[i]
		st.Tasks = append(st.Tasks, &t)
	}
	for i := range db.Checklist {
		c := db.Checklist[i]
		st.Checklist = append(st.Checklist, &c)
	}
	return st
}
