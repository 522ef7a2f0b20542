// Package command implements the editor's bounded undo/redo history: every
// mutation to the world goes through an Action so it can be reverted,
// mirroring the snapshot-based history the original map editor kept, but
// storing the edit itself rather than a full copy of the world.
package command

import (
	"fmt"

	"github.com/trafficgrid/sim/internal/gridmap"
)

// Action is one reversible edit against the world.
type Action interface {
	// Execute applies the action, returning an error if it cannot be
	// applied to the world in its current state.
	Execute(m *gridmap.Map) error
	// Undo reverts a previously executed action. It is only ever called
	// on an action whose Execute already succeeded.
	Undo(m *gridmap.Map) error
	// Description is a short human-readable label for logs and the REPL.
	Description() string
}

const maxHistory = 16

// History is a bounded undo/redo stack of executed actions.
type History struct {
	actions    []Action
	historyPos int // index of the most recently executed action, -1 if empty
}

// NewHistory returns an empty history.
func NewHistory() *History {
	return &History{historyPos: -1}
}

// Do executes action against m and, on success, records it, truncating
// any redo tail the way a fresh edit always does.
func (h *History) Do(m *gridmap.Map, action Action) error {
	if err := action.Execute(m); err != nil {
		return err
	}

	if h.historyPos < len(h.actions)-1 {
		h.actions = h.actions[:h.historyPos+1]
	}
	h.actions = append(h.actions, action)
	h.historyPos = len(h.actions) - 1

	if len(h.actions) > maxHistory {
		h.actions = h.actions[1:]
		h.historyPos--
	}
	return nil
}

// Undo reverts the most recently executed action.
func (h *History) Undo(m *gridmap.Map) error {
	if h.historyPos < 0 {
		return fmt.Errorf("command: nothing to undo")
	}
	action := h.actions[h.historyPos]
	if err := action.Undo(m); err != nil {
		return err
	}
	h.historyPos--
	return nil
}

// Redo re-applies the next action in the history, if any.
func (h *History) Redo(m *gridmap.Map) error {
	if h.historyPos >= len(h.actions)-1 {
		return fmt.Errorf("command: nothing to redo")
	}
	action := h.actions[h.historyPos+1]
	if err := action.Execute(m); err != nil {
		return err
	}
	h.historyPos++
	return nil
}

// CanUndo reports whether Undo would currently succeed.
func (h *History) CanUndo() bool { return h.historyPos >= 0 }

// CanRedo reports whether Redo would currently succeed.
func (h *History) CanRedo() bool { return h.historyPos < len(h.actions)-1 }

// Clear discards all recorded actions.
func (h *History) Clear() {
	h.actions = nil
	h.historyPos = -1
}
