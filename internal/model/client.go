package model

import "github.com/i3/i3-sub000/internal/geom"

// Client represents one managed external window (§3.3).
type Client struct {
	ID ClientID

	Child   uint32 // child X window id
	Frame   uint32 // frame X window id created by the manager
	TitleGC uint32 // title-bar graphics context

	Rect        geom.Rect // outer rect (frame)
	ChildRect   geom.Rect // client area within the frame
	FloatingRect geom.Rect // remembered tiled->floating position/size

	// NeverFloated mirrors the original's "x == -1" sentinel on
	// FloatingRect: true until the client has been floated at least once.
	NeverFloated bool

	Name          string
	NameUCS2      []uint16
	UsesNetWMName bool // _NET_WM_NAME is sticky once seen (§9)

	ClassInstance string
	ClassClass    string

	FloatingState    FloatingState
	Fullscreen       bool
	Dock             bool
	Borderless       bool
	TitlebarPosition TitlebarPosition
	Border           BorderStyle

	ProportionalWidth, ProportionalHeight int
	BaseWidth, BaseHeight                 int
	WidthIncrement, HeightIncrement       int
	BorderWidth                           int32

	DesiredHeight uint32 // dock clients only

	Urgent bool

	Leader uint32 // client-leader window id, 0 if none
	Mark   string // unique across all workspaces, "" if unmarked

	AwaitingUselessUnmap bool

	// ForceReconfigure is set by the output manager (§4.8) when an
	// output's mode changed and every hosted client must be
	// re-rendered even though its logical geometry didn't change.
	ForceReconfigure bool

	// Ownership edges. Exactly one of Container or (Workspace via the
	// floating list) or Output (via the dock list) actually owns this
	// client; Workspace is always set for non-dock clients so a client
	// can find its workspace without walking the container.
	Container ContainerID
	Workspace WorkspaceID
	Output    OutputID
}

// IsTiled reports whether the client is a member of a container's client
// list (as opposed to floating or docked).
func (c *Client) IsTiled() bool {
	return !c.Dock && !c.FloatingState.IsFloating() && c.Container.Valid()
}

// MinWidth and MinHeight are the floor sizes the layout engine and the
// border-drag/floating-resize callbacks must respect (§4.2 tie-break,
// §4.4.6). The original used per-client WM_NORMAL_HINTS min sizes that
// default to a small constant; callers needing the hint value use
// BaseWidth/BaseHeight together with these floors.
const (
	MinClientWidth  = 75
	MinClientHeight = 30
)
