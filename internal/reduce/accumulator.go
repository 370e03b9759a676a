package reduce

import (
	"fmt"
	"strings"

	"convo/internal/types"
)

type lane string

const (
	laneThought lane = "thought"
	laneAnswer  lane = "answer"
)

// laneOrder fixes the finalize order so a thought always lands ahead of the
// answer it preceded.
var laneOrder = []lane{laneThought, laneAnswer}

type laneState struct {
	buf       strings.Builder
	draft     types.Message
	streaming bool
	finalized bool
}

// laneAccumulator keeps at most one in-progress draft per lane for the
// active turn. Lanes are independent: thought deltas keep landing after the
// answer lane has started streaming, and neither append resets the other.
type laneAccumulator struct {
	states map[lane]*laneState
	turn   int
}

func newLaneAccumulator() *laneAccumulator {
	return &laneAccumulator{states: map[lane]*laneState{}}
}

// Append adds a delta to the lane's buffer, opening the draft on first use,
// and returns the updated draft for upserting into the store. The
// sub-conversation tagging is captured when the draft opens and never
// rewritten by later deltas.
func (a *laneAccumulator) Append(l lane, delta string, scope types.EventScope) types.Message {
	if a == nil {
		return types.Message{}
	}
	state, ok := a.states[l]
	if !ok || state.finalized {
		state = &laneState{}
		a.states[l] = state
	}
	if !state.streaming {
		state.streaming = true
		state.draft = types.Message{
			ID:     fmt.Sprintf("%s-%d", l, a.turn),
			Role:   types.MessageRoleAssistant,
			Kind:   laneKind(l),
			Status: types.MessageStatusStreaming,
		}
		if l == laneThought {
			state.draft.Collapsed = true
		}
		if scope.IsSubConversation() {
			state.draft.SubConversation = true
			state.draft.SessionID = scope.SessionID
			state.draft.ParentSessionID = scope.ParentSessionID
		}
	}
	state.buf.WriteString(delta)
	state.draft.Content = types.PlainContent(state.buf.String())
	return state.draft.Clone()
}

// FinalizeAll completes every streaming lane, stamping the turn usage, and
// returns the finalized messages. Idle lanes produce nothing: a turn without
// thought deltas never synthesizes an empty thought message. Calling it again
// before the next append returns nothing.
func (a *laneAccumulator) FinalizeAll(usage *types.TurnUsage) []types.Message {
	if a == nil {
		return nil
	}
	var out []types.Message
	for _, l := range laneOrder {
		state, ok := a.states[l]
		if !ok || !state.streaming || state.finalized {
			continue
		}
		state.finalized = true
		state.streaming = false
		state.draft.Status = types.MessageStatusComplete
		if usage != nil {
			stamped := *usage
			state.draft.Usage = &stamped
		}
		out = append(out, state.draft.Clone())
	}
	return out
}

// Reset discards both lanes. Called after every finalize and defensively on
// turn start, so a missed turn end never leaks a stale draft into the next
// turn.
func (a *laneAccumulator) Reset() {
	if a == nil {
		return
	}
	a.states = map[lane]*laneState{}
	a.turn++
}

func laneKind(l lane) types.MessageKind {
	if l == laneThought {
		return types.MessageKindThought
	}
	return types.MessageKindMessage
}
