package ipc

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/i3/i3-sub000/internal/command"
	"github.com/i3/i3-sub000/internal/model"
)

type stubRunner struct{}

func (stubRunner) Exec(string) error                       { return nil }
func (stubRunner) Reload() error                            { return nil }
func (stubRunner) Restart() error                           { return nil }
func (stubRunner) Exit()                                    {}
func (stubRunner) Kill(*model.Client) error                 { return nil }
func (stubRunner) SetFullscreen(*model.Client, bool) error  { return nil }
func (stubRunner) SetActiveWindow(*model.Client) error      { return nil }

// pump stands in for the single cooperative event loop's IPC-draining
// branch: it calls Dispatch/Respond for every request until the server is
// closed (which closes the listener but not the incoming channel, so the
// goroutine is left running harmlessly past test end — acceptable in a
// short-lived test process).
func pump(srv *Server) {
	for req := range srv.Incoming() {
		req.Respond(srv.Dispatch(req))
	}
}

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	s := model.NewState()
	ex := &command.Executor{State: s, Run: stubRunner{}}
	sockPath := filepath.Join(t.TempDir(), "ipc.sock")
	srv, err := Listen(sockPath, s, ex)
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	t.Cleanup(func() { srv.Close() })
	go srv.Serve()
	go pump(srv)
	return srv, sockPath
}

// buildFrame constructs a raw on-wire frame the way a client would.
func buildFrame(msgType uint32, payload []byte) []byte {
	var buf bytes.Buffer
	buf.WriteString(magic)
	binary.Write(&buf, binary.LittleEndian, uint32(len(payload)))
	binary.Write(&buf, binary.LittleEndian, msgType)
	buf.Write(payload)
	return buf.Bytes()
}

// TestCommandReloadRoundTrip pins the seed scenario 6 wire exchange: a
// client sends "i3-ipc" + u32(7) + u32(0) + "reload\0" and gets back
// "i3-ipc" + u32(len) + u32(0) + {"success":true}.
func TestCommandReloadRoundTrip(t *testing.T) {
	_, sockPath := newTestServer(t)

	conn, err := net.Dial("unix", sockPath)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	payload := append([]byte("reload"), 0)
	if len(payload) != 7 {
		t.Fatalf("payload length = %d, want 7", len(payload))
	}
	if _, err := conn.Write(buildFrame(TypeCommand, payload)); err != nil {
		t.Fatalf("write: %v", err)
	}

	gotType, gotPayload, err := readFrame(conn)
	if err != nil {
		t.Fatalf("readFrame: %v", err)
	}
	if gotType != TypeCommand {
		t.Fatalf("reply type = %d, want %d", gotType, TypeCommand)
	}
	var resp statusReply
	if err := json.Unmarshal(gotPayload, &resp); err != nil {
		t.Fatalf("unmarshal reply: %v", err)
	}
	if !resp.Success {
		t.Fatalf("reload command should succeed, got %+v", resp)
	}
}

func TestBadMagicClosesConnectionOnly(t *testing.T) {
	_, sockPath := newTestServer(t)

	bad, err := net.Dial("unix", sockPath)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	bad.Write([]byte("XXXXXX\x00\x00\x00\x00\x00\x00\x00\x00"))
	bad.Close()

	time.Sleep(20 * time.Millisecond)

	good, err := net.Dial("unix", sockPath)
	if err != nil {
		t.Fatalf("dial after bad magic: %v", err)
	}
	defer good.Close()
	if _, err := good.Write(buildFrame(TypeGetWorkspaces, nil)); err != nil {
		t.Fatalf("write: %v", err)
	}
	gotType, _, err := readFrame(good)
	if err != nil {
		t.Fatalf("readFrame: %v", err)
	}
	if gotType != TypeGetWorkspaces {
		t.Fatalf("server should still be serving new connections after a bad-magic client")
	}
}

func TestGetWorkspacesReportsVisibility(t *testing.T) {
	s := model.NewState()
	o := s.NewOutput("primary")
	o.Active = true
	ws := s.WorkspaceGet(1)
	ws.Output = o.ID
	o.Current = ws.ID
	s.FocusedOutput = o.ID

	ex := &command.Executor{State: s, Run: stubRunner{}}
	sockPath := filepath.Join(t.TempDir(), "ipc2.sock")
	srv, err := Listen(sockPath, s, ex)
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer srv.Close()
	go srv.Serve()
	go pump(srv)

	conn, err := net.Dial("unix", sockPath)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if _, err := conn.Write(buildFrame(TypeGetWorkspaces, nil)); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, payload, err := readFrame(conn)
	if err != nil {
		t.Fatalf("readFrame: %v", err)
	}
	var list []WorkspaceInfo
	if err := json.Unmarshal(payload, &list); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(list) != 1 || !list[0].Visible || !list[0].Focused {
		t.Fatalf("workspace 1 should be reported visible and focused, got %+v", list)
	}
}

// TestBroadcastReachesSubscribedClient exercises the async push path used
// after a "reload" command completes.
func TestBroadcastReachesSubscribedClient(t *testing.T) {
	srv, sockPath := newTestServer(t)

	conn, err := net.Dial("unix", sockPath)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// give Serve's Accept a moment to register the connection before
	// broadcasting, since registration happens on a separate goroutine.
	time.Sleep(20 * time.Millisecond)

	srv.BroadcastWorkspace("reload")

	gotType, payload, err := readFrame(conn)
	if err != nil {
		t.Fatalf("readFrame: %v", err)
	}
	if gotType != eventTypeWorkspace {
		t.Fatalf("event type = %#x, want %#x", gotType, eventTypeWorkspace)
	}
	var ev WorkspaceEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if ev.Change != "reload" {
		t.Fatalf("change = %q, want %q", ev.Change, "reload")
	}
}
