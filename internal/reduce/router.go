package reduce

import (
	"fmt"
	"strings"

	"convo/internal/content"
	"convo/internal/logging"
	"convo/internal/store"
	"convo/internal/types"
)

// Reducer is the single entry point of the event-reduction core. The
// transport collaborator calls Process once per decoded wire event, in
// delivery order; every side effect lands in the session store, which
// publishes one snapshot per state-changing event.
type Reducer struct {
	sessions *store.SessionStore
	lanes    *laneAccumulator
	tools    *toolTracker
	logger   logging.Logger
	seq      int
}

func New(sessions *store.SessionStore, logger logging.Logger) *Reducer {
	if sessions == nil {
		sessions = store.NewSessionStore()
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Reducer{
		sessions: sessions,
		lanes:    newLaneAccumulator(),
		tools:    newToolTracker(),
		logger:   logger,
	}
}

func (r *Reducer) Store() *store.SessionStore {
	if r == nil {
		return nil
	}
	return r.sessions
}

// ActiveToolNotifications lists in-flight invocations for transient display.
func (r *Reducer) ActiveToolNotifications() []types.ToolInvocation {
	if r == nil {
		return nil
	}
	return r.tools.ActiveNotifications()
}

// Process reduces one event into session-store mutations. It never panics
// across this boundary; a malformed event is dropped with a warning so one
// bad event cannot halt the stream.
func (r *Reducer) Process(event types.Event) {
	if r == nil || event == nil {
		return
	}
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("event reduction recovered", logging.F("panic", fmt.Sprintf("%v", rec)))
		}
	}()

	switch ev := event.(type) {
	case types.Ignored:
		// Recognized-but-dropped and unknown wire kinds both land here:
		// no state change, no notification.
		return
	case types.SessionSnapshot:
		r.applySnapshot(ev)
	case types.UserMessage:
		r.applyUserMessage(ev)
	case types.TextDelta:
		r.applyDelta(laneAnswer, ev.EventScope, ev.Delta)
	case types.ThoughtDelta:
		r.applyDelta(laneThought, ev.EventScope, ev.Delta)
	case types.TurnStarted:
		// Defensive: guarantees no stale draft leaks across turns even if
		// the prior turn-end was missed.
		r.lanes.Reset()
	case types.TurnEnded:
		r.applyTurnEnded(ev)
	case types.ToolSelected:
		r.tools.OnSelected(ev.ToolID, ev.Name, ev.Input)
		r.sessions.SetActiveTools(r.tools.ActiveNotifications())
	case types.ToolActive:
		r.applyToolActive(ev)
	case types.MediaRendered:
		r.applyMedia(ev)
	}
}

func (r *Reducer) applySnapshot(ev types.SessionSnapshot) {
	if ev.SessionID == "" {
		r.dropMalformed("session_snapshot", ev.EventScope)
		return
	}
	session := &types.Session{
		ID:       ev.SessionID,
		Vendor:   ev.Vendor,
		Title:    ev.Title,
		Messages: make([]types.Message, 0, len(ev.Messages)),
	}
	sub := ev.IsSubConversation()
	for i, snap := range ev.Messages {
		msg := types.Message{
			ID:      snap.ID,
			Role:    snapshotRole(snap.Role),
			Kind:    types.MessageKindMessage,
			Status:  types.MessageStatusComplete,
			Content: content.Normalize(snap.Content, ev.Vendor),
		}
		if msg.ID == "" {
			msg.ID = fmt.Sprintf("snap-%d", i)
		}
		if sub {
			msg.SubConversation = true
			msg.SessionID = ev.SessionID
			msg.ParentSessionID = ev.ParentSessionID
		}
		session.Messages = append(session.Messages, msg)
	}
	if sub {
		session.AddSubSession(ev.SessionID)
	}
	// A snapshot replaces streaming state wholesale, so the per-turn
	// machinery starts over too.
	r.lanes.Reset()
	r.tools.Reset()
	r.sessions.Replace(session)
}

func (r *Reducer) applyUserMessage(ev types.UserMessage) {
	if ev.SessionID == "" {
		r.dropMalformed("user_message", ev.EventScope)
		return
	}
	vendor := ""
	if snapshot := r.sessions.Snapshot(); snapshot != nil {
		vendor = snapshot.Vendor
	}
	msg := types.Message{
		ID:      ev.MessageID,
		Role:    types.MessageRoleUser,
		Kind:    types.MessageKindMessage,
		Status:  types.MessageStatusComplete,
		Content: content.Normalize(ev.Content, vendor),
	}
	if msg.ID == "" {
		msg.ID = r.nextID("user")
	}
	r.tagSubConversation(&msg, ev.EventScope)
	r.sessions.Append(msg, subSessionID(ev.EventScope))
}

func (r *Reducer) applyDelta(l lane, scope types.EventScope, delta string) {
	if scope.SessionID == "" {
		r.dropMalformed(string(l)+"_delta", scope)
		return
	}
	if delta == "" {
		return
	}
	draft := r.lanes.Append(l, delta, scope)
	r.sessions.UpsertStreaming(draft, subSessionID(scope))
}

func (r *Reducer) applyTurnEnded(ev types.TurnEnded) {
	finalized := r.lanes.FinalizeAll(ev.Usage)
	completed := r.tools.TakeCompleted()
	r.lanes.Reset()
	if len(completed) > 0 && !attachToAnswer(finalized, completed) {
		// No answer draft this turn: summaries land on the most recent
		// permanent assistant message, or on the finalized thought when
		// the history holds none.
		if !r.sessions.AttachInvocations(completed) && len(finalized) > 0 {
			finalized[0].Invocations = completed
		}
	}
	if len(finalized) > 0 {
		r.sessions.Promote(finalized)
	}
}

func attachToAnswer(finalized []types.Message, completed []types.ToolInvocation) bool {
	for i := range finalized {
		if finalized[i].Kind == types.MessageKindMessage {
			finalized[i].Invocations = completed
			return true
		}
	}
	return false
}

func (r *Reducer) applyToolActive(ev types.ToolActive) {
	if ev.ToolID == "" {
		r.dropMalformed("tool_active", ev.EventScope)
		return
	}
	if !ev.Active && len(ev.Results) == 0 {
		// A completion must carry results; without them the invocation
		// stays in flight.
		r.dropMalformed("tool_active", ev.EventScope)
		return
	}
	inv, done := r.tools.OnActive(ev.ToolID, ev.Active, ev.Results, ev.IsError)
	if done {
		r.sessions.CompleteTool(inv, r.tools.ActiveNotifications())
		return
	}
	r.sessions.SetActiveTools(r.tools.ActiveNotifications())
}

func (r *Reducer) applyMedia(ev types.MediaRendered) {
	if ev.SessionID == "" || ev.Content == "" {
		r.dropMalformed("media_rendered", ev.EventScope)
		return
	}
	msg := types.Message{
		ID:          ev.MessageID,
		Role:        types.MessageRoleAssistant,
		Kind:        types.MessageKindMedia,
		Status:      types.MessageStatusComplete,
		Content:     types.PlainContent(ev.Content),
		ContentType: ev.ContentType,
	}
	if msg.ID == "" {
		msg.ID = r.nextID("media")
	}
	r.tagSubConversation(&msg, ev.EventScope)
	r.sessions.Append(msg, subSessionID(ev.EventScope))
}

func (r *Reducer) tagSubConversation(msg *types.Message, scope types.EventScope) {
	if !scope.IsSubConversation() {
		return
	}
	msg.SubConversation = true
	msg.SessionID = scope.SessionID
	msg.ParentSessionID = scope.ParentSessionID
}

func (r *Reducer) dropMalformed(kind string, scope types.EventScope) {
	r.logger.Warn("dropped malformed event",
		logging.F("kind", kind),
		logging.F("session_id", scope.SessionID),
		logging.F("user_session_id", scope.UserSessionID),
	)
}

func (r *Reducer) nextID(prefix string) string {
	r.seq++
	return fmt.Sprintf("%s-%d", prefix, r.seq)
}

func subSessionID(scope types.EventScope) string {
	if scope.IsSubConversation() {
		return scope.SessionID
	}
	return ""
}

func snapshotRole(raw string) types.MessageRole {
	if strings.EqualFold(strings.TrimSpace(raw), string(types.MessageRoleUser)) {
		return types.MessageRoleUser
	}
	return types.MessageRoleAssistant
}
