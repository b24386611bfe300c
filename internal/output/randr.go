package output

import (
	"github.com/BurntSushi/xgb/randr"

	"github.com/i3/i3-sub000/internal/geom"
	"github.com/i3/i3-sub000/internal/model"
	"github.com/i3/i3-sub000/internal/x11"
)

// Discover queries RandR for every output and its CRTC once, returning a
// Snapshot per output. ids maps an output's RandR-assigned name to the
// model.OutputID it was given last time, so Classify can tell a rename
// from a brand-new output.
func Discover(conn *x11.Conn, ids map[string]model.OutputID) ([]Snapshot, error) {
	resources, err := randr.GetScreenResourcesCurrent(conn.XU.Conn(), conn.Root()).Reply()
	if err != nil {
		return nil, err
	}

	snaps := make([]Snapshot, 0, len(resources.Outputs))
	for _, outID := range resources.Outputs {
		info, err := randr.GetOutputInfo(conn.XU.Conn(), outID, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		name := string(info.Name)
		snap := Snapshot{Name: name, ID: ids[name]}

		if info.Crtc == 0 {
			snaps = append(snaps, snap)
			continue
		}
		crtc, err := randr.GetCrtcInfo(conn.XU.Conn(), info.Crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			snaps = append(snaps, snap)
			continue
		}
		snap.HasCRTC = true
		snap.Rect = geom.Rect{
			X: int32(crtc.X), Y: int32(crtc.Y),
			Width: uint32(crtc.Width), Height: uint32(crtc.Height),
		}
		snaps = append(snaps, snap)
	}
	return snaps, nil
}

// SelectScreenChangeInput subscribes to RandR screen-change notifications
// on the root window, the trigger for a rediscovery-and-reconcile pass.
func SelectScreenChangeInput(conn *x11.Conn) error {
	return randr.SelectInputChecked(conn.XU.Conn(), conn.Root(),
		randr.NotifyMaskScreenChange|randr.NotifyMaskOutputChange|randr.NotifyMaskCrtcChange).Check()
}
