package memo

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Op names a board action.
type Op string

const (
	OpWrite  Op = "write"
	OpSubmit Op = "submit"
	OpRemove Op = "remove"
	OpClear  Op = "clear"
)

var (
	ErrUnknownOp = errors.New("unknown action")
	ErrBadIndex  = errors.New("invalid memo index")
)

// Action is a board change routed through the store's reducer.
type Action struct {
	Op   Op
	Text string
	// ID selects the memo for OpRemove, or names the new memo for OpSubmit.
	ID uuid.UUID
	// Index selects the memo for OpRemove when ID is unset (1-based).
	Index int
	// At stamps the new memo for OpSubmit.
	At time.Time
}

func (a Action) String() string {
	return string(a.Op)
}

// ParseAction reads the script form used by the demo command:
// "write:<text>", "submit", "remove:<n>" (1-based) and "clear".
func ParseAction(s string) (Action, error) {
	op, arg, _ := strings.Cut(strings.TrimSpace(s), ":")
	switch Op(strings.ToLower(op)) {
	case OpWrite:
		return Action{Op: OpWrite, Text: arg}, nil
	case OpSubmit:
		return Action{Op: OpSubmit}, nil
	case OpClear:
		return Action{Op: OpClear}, nil
	case OpRemove:
		n, err := strconv.Atoi(strings.TrimSpace(arg))
		if err != nil || n < 1 {
			return Action{}, fmt.Errorf("%w: %q", ErrBadIndex, arg)
		}
		return Action{Op: OpRemove, Index: n}, nil
	}
	return Action{}, fmt.Errorf("%w: %q", ErrUnknownOp, op)
}

// reducer returns the pure state transition for a board capped at limit memos.
func reducer(limit int) func(State, Action) State {
	return func(s State, a Action) State {
		switch a.Op {
		case OpWrite:
			s.Draft = a.Text
		case OpSubmit:
			if strings.TrimSpace(s.Draft) == "" {
				return s
			}
			s.Memos = appendCapped(s.Memos, Entry{ID: a.ID, Text: s.Draft, Created: a.At}, limit)
			s.Draft = ""
		case OpRemove:
			idx := a.Index - 1
			if a.ID != uuid.Nil {
				idx = slices.IndexFunc(s.Memos, func(e Entry) bool { return e.ID == a.ID })
			}
			if idx < 0 || idx >= len(s.Memos) {
				return s
			}
			s.Memos = slices.Delete(slices.Clone(s.Memos), idx, idx+1)
		case OpClear:
			s = State{}
		}
		return s
	}
}

// appendCapped returns a new slice with e appended, dropping the oldest
// entries beyond limit. A limit of zero or less means no cap.
func appendCapped(memos []Entry, e Entry, limit int) []Entry {
	out := append(slices.Clone(memos), e)
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}
