package bot

import (
	"sync"

	"github.com/google/uuid"
)

// flowKind identifies one of the three multi-step input collectors.
type flowKind int

const (
	flowAddClient flowKind = iota + 1
	flowAddProject
	flowStartWork
)

// flowStep is the index into a flow's fixed step list. Steps only ever
// advance; cancelling discards the whole flow.
type flowStep int

const (
	// add-client
	stepClientName flowStep = iota + 1

	// add-project
	stepProjectClient
	stepProjectName
	stepProjectRate

	// start-work
	stepWorkProject
	stepWorkTask
	stepWorkDescription
)

// flowState is the transient per-account state of one open dialog flow.
// It lives only in memory and is dropped on completion or /cancel.
type flowState struct {
	kind flowKind
	step flowStep
	// token is embedded in inline-keyboard callback data so taps on a
	// keyboard from an abandoned flow instance are ignored.
	token string

	clientID    uint
	projectID   uint
	projectName string
	taskType    string
}

// dialogStore holds open flows keyed by account id. Access is serialized by
// a mutex; per-account traffic is effectively serial anyway (one chat, one
// conversation), the lock only guards the map itself.
type dialogStore struct {
	mu sync.Mutex
	m  map[int64]*flowState
}

func newDialogStore() *dialogStore {
	return &dialogStore{m: make(map[int64]*flowState)}
}

// begin replaces any open flow of userID with a fresh one and returns it.
func (d *dialogStore) begin(userID int64, kind flowKind, step flowStep) *flowState {
	st := &flowState{kind: kind, step: step, token: uuid.NewString()}
	d.mu.Lock()
	d.m[userID] = st
	d.mu.Unlock()
	return st
}

// current returns the open flow of userID, or nil.
func (d *dialogStore) current(userID int64) *flowState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.m[userID]
}

// end discards the open flow of userID, if any, and reports whether one
// existed.
func (d *dialogStore) end(userID int64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.m[userID]
	delete(d.m, userID)
	return ok
}
