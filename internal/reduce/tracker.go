package reduce

import (
	"encoding/json"

	"convo/internal/types"
)

// toolTracker follows invocations through preparing, executing and complete,
// independent of any message. Completed invocations accumulate per turn
// until the reducer drains them.
type toolTracker struct {
	inflight  map[string]*types.ToolInvocation
	order     []string
	completed []types.ToolInvocation
	done      map[string]struct{}
}

func newToolTracker() *toolTracker {
	return &toolTracker{
		inflight: map[string]*types.ToolInvocation{},
		done:     map[string]struct{}{},
	}
}

func (t *toolTracker) OnSelected(id, name string, input json.RawMessage) {
	if t == nil || id == "" {
		return
	}
	if _, exists := t.inflight[id]; exists {
		return
	}
	inv := &types.ToolInvocation{
		ID:     id,
		Name:   name,
		Status: types.ToolStatusPreparing,
	}
	if input != nil {
		inv.Input = append(json.RawMessage{}, input...)
	}
	t.inflight[id] = inv
	t.order = append(t.order, id)
}

// OnActive transitions an invocation. An activation with no prior selection
// opens an executing entry; a deactivation with no prior selection is a
// single-shot completion (servers coalesce short tool runs into one event).
// A deactivation for an id already complete is a duplicate and changes
// nothing. Reports the completed invocation, when one completed.
func (t *toolTracker) OnActive(id string, active bool, results json.RawMessage, isError bool) (types.ToolInvocation, bool) {
	if t == nil || id == "" {
		return types.ToolInvocation{}, false
	}
	if active {
		inv, exists := t.inflight[id]
		if !exists {
			t.OnSelected(id, "", nil)
			inv = t.inflight[id]
		}
		inv.Status = types.ToolStatusExecuting
		return types.ToolInvocation{}, false
	}
	if _, alreadyDone := t.done[id]; alreadyDone {
		return types.ToolInvocation{}, false
	}
	inv, exists := t.inflight[id]
	if !exists {
		inv = &types.ToolInvocation{ID: id}
	}
	inv.Status = types.ToolStatusComplete
	inv.IsError = isError
	if results != nil {
		inv.Result = append(json.RawMessage{}, results...)
	}
	delete(t.inflight, id)
	t.order = removeID(t.order, id)
	t.done[id] = struct{}{}
	t.completed = append(t.completed, inv.Clone())
	return inv.Clone(), true
}

// ActiveNotifications lists the non-complete invocations in selection order,
// for transient UI display.
func (t *toolTracker) ActiveNotifications() []types.ToolInvocation {
	if t == nil || len(t.order) == 0 {
		return nil
	}
	out := make([]types.ToolInvocation, 0, len(t.order))
	for _, id := range t.order {
		if inv, exists := t.inflight[id]; exists {
			out = append(out, inv.Clone())
		}
	}
	return out
}

// TakeCompleted drains the per-turn completion accumulator.
func (t *toolTracker) TakeCompleted() []types.ToolInvocation {
	if t == nil || len(t.completed) == 0 {
		return nil
	}
	out := t.completed
	t.completed = nil
	return out
}

func (t *toolTracker) Reset() {
	if t == nil {
		return
	}
	t.inflight = map[string]*types.ToolInvocation{}
	t.order = nil
	t.completed = nil
	t.done = map[string]struct{}{}
}

func removeID(ids []string, id string) []string {
	for i, candidate := range ids {
		if candidate == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
