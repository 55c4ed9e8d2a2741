package memo

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/five82/stash/internal/mutate"
	"github.com/five82/stash/internal/observe"
	"github.com/five82/stash/internal/store"
)

// Entry is one submitted memo.
type Entry struct {
	ID      uuid.UUID
	Text    string
	Created time.Time
}

// State is the board's store value.
type State struct {
	Draft string
	Memos []Entry
}

// Options configure a Board.
type Options struct {
	Observer observe.Observer // nil disables tracing
	Name     string           // store name reported to the observer
	MaxMemos int              // zero keeps every memo
	Memos    []Entry          // initial memos

	now   func() time.Time
	newID func() uuid.UUID
}

// Board is the memo form and list backed by one store.
type Board struct {
	api      store.API[State]
	set      store.SetFunc[State]
	get      store.GetFunc[State]
	dispatch func(Action) Action
	maxMemos int
	now      func() time.Time
	newID    func() uuid.UUID
}

// NewBoard builds a board whose store is traced, selectable and accepts
// dispatched actions.
func NewBoard(opts Options) *Board {
	b := &Board{
		maxMemos: opts.MaxMemos,
		now:      opts.now,
		newID:    opts.newID,
	}
	if b.now == nil {
		b.now = time.Now
	}
	if b.newID == nil {
		b.newID = uuid.New
	}
	name := opts.Name
	if name == "" {
		name = "memos"
	}

	initial := State{Memos: slices.Clone(opts.Memos)}
	if b.maxMemos > 0 && len(initial.Memos) > b.maxMemos {
		initial.Memos = initial.Memos[len(initial.Memos)-b.maxMemos:]
	}

	b.api = store.New(func(set store.SetFunc[State], get store.GetFunc[State], _ store.API[State]) State {
		b.set, b.get = set, get
		return initial
	},
		mutate.Trace[State](opts.Observer, name),
		mutate.Selector[State](),
		mutate.Reducer[State, Action](reducer(b.maxMemos)),
	)
	b.dispatch, _ = mutate.Dispatcher[Action](b.api)
	return b
}

// API exposes the underlying store handle.
func (b *Board) API() store.API[State] {
	return b.api
}

// State returns the current board state.
func (b *Board) State() State {
	return b.get()
}

// Write replaces the draft text.
func (b *Board) Write(text string) {
	b.set(store.Patch[State](store.Fields{"Draft": text}))
}

// Submit appends the draft as a new memo and clears the draft. A blank draft
// is ignored.
func (b *Board) Submit() (Entry, bool) {
	draft := b.get().Draft
	if strings.TrimSpace(draft) == "" {
		return Entry{}, false
	}
	entry := Entry{ID: b.newID(), Text: draft, Created: b.now()}
	b.set(store.Updater(func(s State) store.Update[State] {
		return store.Patch[State](store.Fields{"Memos": appendCapped(s.Memos, entry, b.maxMemos)})
	}))
	b.set(store.Patch[State](store.Fields{"Draft": ""}))
	return entry, true
}

// Remove deletes the memo with the given ID and reports whether it existed.
func (b *Board) Remove(id uuid.UUID) bool {
	before := len(b.get().Memos)
	b.Dispatch(Action{Op: OpRemove, ID: id})
	return len(b.get().Memos) < before
}

// Clear drops the draft and every memo.
func (b *Board) Clear() {
	b.Dispatch(Action{Op: OpClear})
}

// Dispatch applies an action through the reducer. Submit actions without an
// ID or timestamp get fresh ones.
func (b *Board) Dispatch(a Action) Action {
	if a.Op == OpSubmit {
		if a.ID == uuid.Nil {
			a.ID = b.newID()
		}
		if a.At.IsZero() {
			a.At = b.now()
		}
	}
	return b.dispatch(a)
}

// Subscribe calls fn after every committed change.
func (b *Board) Subscribe(fn func(next, prev State)) func() {
	return store.SubscribeFunc(b.api, fn)
}

// OnMemos calls fn only when the memo list changes, not on draft edits.
func (b *Board) OnMemos(fn func(cur, prev []Entry)) func() {
	return mutate.SubscribeSelect(b.api, func(s State) []Entry { return s.Memos }, fn)
}
