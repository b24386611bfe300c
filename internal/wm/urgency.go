package wm

import "github.com/i3/i3-sub000/internal/model"

// ApplyUrgencyHint implements §4.4.7: read the urgency bit for cl, with
// the rule that the currently focused client can never be urgent (the
// hint is ignored for it), then recompute the owning workspace's urgent
// flag as the OR of its members.
func (m *Manager) ApplyUrgencyHint(cl *model.Client, hintSet bool) {
	ws := m.State.Workspace(cl.Workspace)
	if ws == nil {
		return
	}
	isFocused := false
	if last, ok := m.State.GetLastFocusedClient(ws, nil); ok {
		isFocused = last == cl.ID && m.State.WorkspaceIsVisible(ws)
	}
	if isFocused {
		cl.Urgent = false
	} else {
		cl.Urgent = hintSet
	}
	RecomputeWorkspaceUrgency(m.State, ws)
}

// RecomputeWorkspaceUrgency sets ws.Urgent to true iff any tiled or
// floating member of ws carries the urgent flag.
func RecomputeWorkspaceUrgency(s *model.State, ws *model.Workspace) {
	urgent := false
	for _, cid := range ws.FocusStack.Items() {
		if cl := s.Client(cid); cl != nil && cl.Urgent {
			urgent = true
			break
		}
	}
	ws.Urgent = urgent
}
