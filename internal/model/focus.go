package model

// WorkspaceIsVisible reports whether ws is the currently shown workspace on
// its assigned output (§4.1, workspace_is_visible).
func (s *State) WorkspaceIsVisible(ws *Workspace) bool {
	if !ws.Output.Valid() {
		return false
	}
	out := s.Outputs[ws.Output]
	return out != nil && out.Current == ws.ID
}

// WorkspaceShow switches the output owning ws to display it, warping the
// pointer to the newly focused client when the output itself changes
// (§4.1). It returns the client that should receive input focus after the
// switch, which may be the zero ClientID if the workspace has no focusable
// member.
func (s *State) WorkspaceShow(ws *Workspace) ClientID {
	if !ws.Output.Valid() {
		return 0
	}
	out := s.Outputs[ws.Output]
	if out == nil {
		return 0
	}
	outputChanged := s.FocusedOutput != out.ID
	out.Current = ws.ID
	s.FocusedOutput = out.ID

	focus, _ := s.GetLastFocusedClient(ws, nil)
	_ = outputChanged // warp-on-change is driven by the caller (C9), which
	// owns the actual XWarpPointer call; the state layer only reports
	// whether a warp is warranted via outputChanged being true.
	return focus
}

// GetLastFocusedClient returns the most recently focused client on the
// workspace owning cont (or, if cont is nil, on ws directly), skipping
// except if non-nil (§4.1, get_last_focused_client). It is used both for
// re-focusing after a kill and for picking the client a workspace switch
// should land on.
func (s *State) GetLastFocusedClient(ws *Workspace, except *Client) (ClientID, bool) {
	for _, cid := range ws.FocusStack.Items() {
		if except != nil && cid == except.ID {
			continue
		}
		return cid, true
	}
	return 0, false
}

// GetLastFocusedClientInContainer is the container-scoped variant: the most
// recently focused client among cont's own members, skipping except.
func (s *State) GetLastFocusedClientInContainer(cont *Container, except *Client) (ClientID, bool) {
	ws := s.Workspaces[cont.Workspace]
	if ws == nil {
		return 0, false
	}
	members := cont.Clients
	for _, cid := range ws.FocusStack.Items() {
		if except != nil && cid == except.ID {
			continue
		}
		if members.Contains(cid) {
			return cid, true
		}
	}
	return 0, false
}

// SetFocus makes c the focused client: it moves c to the front of its
// workspace's global focus stack and, if c sits in a container, makes it
// the container's current member (§4.1, set_focus). warpPointer is advisory
// for the caller — the state layer has no X11 connection to act on it — and
// is returned unchanged so C9 can decide whether to move the pointer.
func (s *State) SetFocus(c *Client, warpPointer bool) bool {
	if c == nil || c.Dock {
		return false
	}
	ws := s.Workspaces[c.Workspace]
	if ws == nil {
		return false
	}
	ws.FocusStack.MoveToFront(c.ID)
	if c.Container.Valid() {
		if cont := s.Containers[c.Container]; cont != nil {
			cont.CurrentlyFocused = c.ID
			ws.CurrentCol, ws.CurrentRow = cont.Col, cont.Row
		}
	}
	if c.FloatingState.IsFloating() {
		ws.Floating.MoveToBack(c.ID) // top of the floating z-order
	}
	return warpPointer
}

// ClearFocus removes c from its workspace's focus stack without choosing a
// replacement; callers use GetLastFocusedClient afterward to pick the next
// focus target (§4.4.2, unmanage).
func (s *State) ClearFocus(c *Client) {
	ws := s.Workspaces[c.Workspace]
	if ws == nil {
		return
	}
	ws.FocusStack.Remove(c.ID)
}
