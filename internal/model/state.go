package model

import "fmt"

// State is the single arena holding every workspace, container, client and
// output. It replaces the original's global mutable pointers (§9): callers
// thread a *State through every handler instead of reaching for package
// globals.
type State struct {
	Clients    map[ClientID]*Client
	Containers map[ContainerID]*Container
	Workspaces map[WorkspaceID]*Workspace
	Outputs    map[OutputID]*Output

	// WorkspaceByNum lets workspace_get(n) (§4.1) find a workspace by its
	// 1-based number without a linear scan.
	WorkspaceByNum map[int]WorkspaceID

	FocusedOutput OutputID

	nextClient    ClientID
	nextContainer ContainerID
	nextWorkspace WorkspaceID
	nextOutput    OutputID
}

// NewState returns an empty arena.
func NewState() *State {
	return &State{
		Clients:        make(map[ClientID]*Client),
		Containers:     make(map[ContainerID]*Container),
		Workspaces:     make(map[WorkspaceID]*Workspace),
		Outputs:        make(map[OutputID]*Output),
		WorkspaceByNum: make(map[int]WorkspaceID),
	}
}

// NewClient allocates and registers a bare client; callers fill in fields.
func (s *State) NewClient() *Client {
	s.nextClient++
	c := &Client{ID: s.nextClient}
	s.Clients[c.ID] = c
	return c
}

// NewContainerAt allocates a container positioned at (col, row) on ws.
func (s *State) NewContainerAt(ws WorkspaceID, col, row int) *Container {
	s.nextContainer++
	c := NewContainer(s.nextContainer, ws, col, row)
	s.Containers[c.ID] = c
	return c
}

// DeleteContainer removes a container from the arena; callers must have
// already unlinked it from the workspace's table.
func (s *State) DeleteContainer(id ContainerID) {
	delete(s.Containers, id)
}

// DeleteClient removes a client from the arena; callers must have already
// unlinked it from its container/floating/dock list and focus stack.
func (s *State) DeleteClient(id ClientID) {
	delete(s.Clients, id)
}

// NewOutput allocates and registers an output.
func (s *State) NewOutput(name string) *Output {
	s.nextOutput++
	o := NewOutput(s.nextOutput, name)
	s.Outputs[o.ID] = o
	return o
}

// WorkspaceGet returns workspace n, creating workspaces 1..n as needed
// (§4.1, §3.6). Newly created intermediate workspaces are left unassigned
// to an output; the caller (typically the output manager or workspace_show)
// is responsible for attaching them.
func (s *State) WorkspaceGet(n int) *Workspace {
	if id, ok := s.WorkspaceByNum[n]; ok {
		return s.Workspaces[id]
	}
	for m := 1; m <= n; m++ {
		if _, ok := s.WorkspaceByNum[m]; ok {
			continue
		}
		s.nextWorkspace++
		first := s.NewContainerAt(s.nextWorkspace, 0, 0)
		ws := NewWorkspace(s.nextWorkspace, m, first.ID)
		ws.Name = fmt.Sprintf("%d", m)
		s.Workspaces[ws.ID] = ws
		s.WorkspaceByNum[m] = ws.ID
	}
	return s.Workspaces[s.WorkspaceByNum[n]]
}

// Container, Client, Workspace and Output are convenience accessors that
// return nil for an invalid or unknown id, sparing call sites a map
// existence check at every use.
func (s *State) Container(id ContainerID) *Container { return s.Containers[id] }
func (s *State) Client(id ClientID) *Client           { return s.Clients[id] }
func (s *State) Workspace(id WorkspaceID) *Workspace   { return s.Workspaces[id] }
func (s *State) Output(id OutputID) *Output            { return s.Outputs[id] }

// CheckInvariants validates the universal invariants from §8 and returns
// the first violation found, or nil. It is the basis of the package's
// property tests and is cheap enough to also run from debug builds after
// every command.
func (s *State) CheckInvariants() error {
	for _, ws := range s.Workspaces {
		for c := 0; c < ws.Cols; c++ {
			for r := 0; r < ws.Rows; r++ {
				if !ws.Table[c][r].Valid() {
					return fmt.Errorf("workspace %d: table[%d][%d] is nil", ws.Num, c, r)
				}
				if _, ok := s.Containers[ws.Table[c][r]]; !ok {
					return fmt.Errorf("workspace %d: table[%d][%d] dangles", ws.Num, c, r)
				}
			}
		}
		if ws.FullscreenClient.Valid() {
			fc := s.Clients[ws.FullscreenClient]
			if fc == nil {
				return fmt.Errorf("workspace %d: fullscreen client %d missing", ws.Num, ws.FullscreenClient)
			}
			if fc.Workspace != ws.ID {
				return fmt.Errorf("workspace %d: fullscreen client belongs to workspace %d", ws.Num, fc.Workspace)
			}
			if !ws.FocusStack.Contains(fc.ID) {
				return fmt.Errorf("workspace %d: fullscreen client not in focus stack", ws.Num)
			}
		}
		for _, cid := range ws.FocusStack.Items() {
			c := s.Clients[cid]
			if c == nil {
				return fmt.Errorf("workspace %d: focus stack references missing client %d", ws.Num, cid)
			}
			if c.Dock {
				return fmt.Errorf("workspace %d: dock client %d present in focus stack", ws.Num, cid)
			}
			if c.Workspace != ws.ID {
				return fmt.Errorf("workspace %d: focus stack client %d belongs to workspace %d", ws.Num, cid, c.Workspace)
			}
		}
	}

	for _, c := range s.Containers {
		if (c.CurrentlyFocused == 0) != c.IsEmpty() {
			return fmt.Errorf("container %d: currently_focused/empty mismatch", c.ID)
		}
	}

	for _, cl := range s.Clients {
		locations := 0
		if cl.Dock {
			if out := s.Outputs[cl.Output]; out == nil || !out.DockClients.Contains(cl.ID) {
				return fmt.Errorf("client %d: dock not present in its output's dock list", cl.ID)
			}
			locations++
		} else if cl.Container.Valid() {
			cont := s.Containers[cl.Container]
			if cont == nil || !cont.Clients.Contains(cl.ID) {
				return fmt.Errorf("client %d: container reference dangles", cl.ID)
			}
			locations++
		} else if ws := s.Workspaces[cl.Workspace]; ws != nil && ws.Floating.Contains(cl.ID) {
			locations++
		}
		if locations != 1 {
			return fmt.Errorf("client %d: must be in exactly one of container/floating/dock, found %d", cl.ID, locations)
		}
	}
	return nil
}
