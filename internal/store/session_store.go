package store

import (
	"sync"
	"time"

	"convo/internal/types"
)

// SessionStore holds the current conversation state and publishes a new
// immutable snapshot on every mutation. Readers keep whatever snapshot they
// hold; the store never writes through a pointer it has handed out.
type SessionStore struct {
	mu      sync.Mutex
	current *types.Session
	subs    map[int]func(*types.Session)
	nextSub int
	now     func() time.Time
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		current: &types.Session{Messages: []types.Message{}},
		subs:    map[int]func(*types.Session){},
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Snapshot returns the current immutable session. Successive calls return
// the same pointer until a mutation lands.
func (s *SessionStore) Snapshot() *types.Session {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Subscribe registers a listener invoked with each new snapshot, in mutation
// order. The returned func removes the listener.
func (s *SessionStore) Subscribe(fn func(*types.Session)) func() {
	if s == nil || fn == nil {
		return func() {}
	}
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// apply clones the current session, lets mutate work on the clone, and swaps
// it in if mutate reports a change. Exactly one notification goes out per
// successful apply, after the swap, outside the lock.
func (s *SessionStore) apply(mutate func(*types.Session) bool) bool {
	if s == nil || mutate == nil {
		return false
	}
	s.mu.Lock()
	next := s.current.Clone()
	if next == nil {
		next = &types.Session{Messages: []types.Message{}}
	}
	if !mutate(next) {
		s.mu.Unlock()
		return false
	}
	next.UpdatedAt = s.now()
	s.current = next
	listeners := make([]func(*types.Session), 0, len(s.subs))
	for _, fn := range s.subs {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()
	for _, fn := range listeners {
		fn(next)
	}
	return true
}

// Replace installs a whole new session, discarding all streaming state.
func (s *SessionStore) Replace(session *types.Session) bool {
	if session == nil {
		return false
	}
	return s.apply(func(next *types.Session) bool {
		replacement := session.Clone()
		*next = *replacement
		if next.Messages == nil {
			next.Messages = []types.Message{}
		}
		return true
	})
}

// Append adds a complete message to the permanent history.
func (s *SessionStore) Append(msg types.Message, subSession string) bool {
	return s.apply(func(next *types.Session) bool {
		next.Messages = append(next.Messages, msg.Clone())
		next.AddSubSession(subSession)
		return true
	})
}

// UpsertStreaming replaces the streaming draft sharing the message's id, or
// inserts the draft when no slot holds that id yet. Summaries attached to
// the slot mid-turn survive the refresh; the incoming draft never carries
// them.
func (s *SessionStore) UpsertStreaming(draft types.Message, subSession string) bool {
	return s.apply(func(next *types.Session) bool {
		for i, existing := range next.Streaming {
			if existing.ID == draft.ID {
				refreshed := draft.Clone()
				if len(refreshed.Invocations) == 0 {
					refreshed.Invocations = existing.Invocations
				}
				next.Streaming[i] = refreshed
				next.AddSubSession(subSession)
				return true
			}
		}
		next.Streaming = append(next.Streaming, draft.Clone())
		next.AddSubSession(subSession)
		return true
	})
}

// Promote moves finalized messages out of the streaming slots into the
// permanent list, replacing any earlier entry sharing an id. Finalizing a
// message a second time is a no-op, so a duplicate turn-end never produces
// a duplicate entry and never publishes a new snapshot.
func (s *SessionStore) Promote(finalized []types.Message) bool {
	if len(finalized) == 0 {
		return false
	}
	return s.apply(func(next *types.Session) bool {
		changed := false
		for _, msg := range finalized {
			if removeMessageByID(&next.Streaming, msg.ID) {
				changed = true
			}
			if replaceMessageByID(next.Messages, msg) {
				changed = true
				continue
			}
			if containsMessageID(next.Messages, msg.ID) {
				continue
			}
			next.Messages = append(next.Messages, msg.Clone())
			changed = true
		}
		return changed
	})
}

// CompleteTool attaches a finished invocation summary to the streaming
// answer draft, when one exists, and refreshes the in-flight set, as one
// mutation. The durable attachment happens at turn end, when the tracker's
// completed set lands on the finalized message.
func (s *SessionStore) CompleteTool(inv types.ToolInvocation, active []types.ToolInvocation) bool {
	return s.apply(func(next *types.Session) bool {
		for i := len(next.Streaming) - 1; i >= 0; i-- {
			draft := &next.Streaming[i]
			if draft.Role == types.MessageRoleAssistant && draft.Kind == types.MessageKindMessage {
				draft.Invocations = append(draft.Invocations, inv.Clone())
				break
			}
		}
		next.ActiveTools = cloneInvocations(active)
		return true
	})
}

// AttachInvocations appends completed invocation summaries to the most
// recent permanent assistant message. Used when a turn ends with completed
// tools but no finalized draft to carry them.
func (s *SessionStore) AttachInvocations(invs []types.ToolInvocation) bool {
	if len(invs) == 0 {
		return false
	}
	return s.apply(func(next *types.Session) bool {
		for i := len(next.Messages) - 1; i >= 0; i-- {
			msg := &next.Messages[i]
			if msg.Role == types.MessageRoleAssistant {
				msg.Invocations = append(msg.Invocations, cloneInvocations(invs)...)
				return true
			}
		}
		return false
	})
}

// SetActiveTools refreshes the transient in-flight invocation set.
func (s *SessionStore) SetActiveTools(active []types.ToolInvocation) bool {
	return s.apply(func(next *types.Session) bool {
		next.ActiveTools = cloneInvocations(active)
		return true
	})
}

func cloneInvocations(in []types.ToolInvocation) []types.ToolInvocation {
	if len(in) == 0 {
		return nil
	}
	out := make([]types.ToolInvocation, 0, len(in))
	for _, inv := range in {
		out = append(out, inv.Clone())
	}
	return out
}

func removeMessageByID(list *[]types.Message, id string) bool {
	for i, msg := range *list {
		if msg.ID == id {
			*list = append((*list)[:i], (*list)[i+1:]...)
			return true
		}
	}
	return false
}

func replaceMessageByID(list []types.Message, msg types.Message) bool {
	for i, existing := range list {
		if existing.ID == msg.ID && existing.Status != types.MessageStatusComplete {
			list[i] = msg.Clone()
			return true
		}
	}
	return false
}

func containsMessageID(list []types.Message, id string) bool {
	for _, msg := range list {
		if msg.ID == id {
			return true
		}
	}
	return false
}
