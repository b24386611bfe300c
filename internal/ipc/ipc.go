// Package ipc implements the UNIX-domain socket control protocol (C12):
// length-prefixed request/reply framing, the COMMAND/GET_WORKSPACES/
// GET_OUTPUTS request types, and the asynchronous workspace/output push
// events broadcast to subscribed clients.
package ipc

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"sync"

	"github.com/i3/i3-sub000/internal/command"
	"github.com/i3/i3-sub000/internal/geom"
	"github.com/i3/i3-sub000/internal/model"
)

// magic is the fixed 6-byte frame prefix every message carries (§4.7/§6.1).
const magic = "i3-ipc"

// Message type tags (§6.1's core subset).
const (
	TypeCommand       uint32 = 0
	TypeGetWorkspaces uint32 = 1
	TypeGetOutputs    uint32 = 3
)

// Request is one framed message waiting for the single cooperative event
// loop to dispatch it (§5: IPC reads are a suspension point, but the
// resulting model mutation happens only on the main loop's own
// goroutine). Respond must be called exactly once.
type Request struct {
	Type    uint32
	Payload []byte

	reply chan []byte
}

// Respond delivers resp back to the waiting connection.
func (r *Request) Respond(resp []byte) {
	r.reply <- resp
}

// Server owns the listening socket and the set of connections subscribed
// to push events. Grounded on the teacher's single-writer style
// (_teacher_ref/update.go), adapted here to a length-prefixed binary
// frame instead of HTTP.
type Server struct {
	State    *model.State
	Executor *command.Executor

	mu         sync.Mutex
	listener   net.Listener
	conns      map[net.Conn]bool
	socketPath string

	incoming chan *Request
}

// Listen opens the UNIX-domain socket at path, removing any stale socket
// file first (a crash-left-over socket from a previous run, matching the
// teacher's startup-cleanup instinct in _teacher_ref/main.go).
func Listen(path string, s *model.State, ex *command.Executor) (*Server, error) {
	_ = os.Remove(path)
	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("ipc: listen %s: %w", path, err)
	}
	return &Server{
		State:      s,
		Executor:   ex,
		listener:   ln,
		conns:      make(map[net.Conn]bool),
		socketPath: path,
		incoming:   make(chan *Request),
	}, nil
}

// Incoming is drained by the main event loop: for every request popped
// off it, the loop calls srv.Dispatch and then req.Respond with the
// result, on its own goroutine, so no model mutation from IPC ever
// happens concurrently with X event handling.
func (srv *Server) Incoming() <-chan *Request { return srv.incoming }

// Close shuts down the listener and every open connection.
func (srv *Server) Close() error {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	for c := range srv.conns {
		c.Close()
	}
	err := srv.listener.Close()
	_ = os.Remove(srv.socketPath)
	return err
}

// Serve accepts connections until the listener is closed. Each connection
// is handled on its own goroutine for I/O only: every request is posted
// to Incoming() and this goroutine blocks on its reply, so the actual
// dispatch (and any model mutation a COMMAND triggers) always runs on
// whatever goroutine is draining Incoming() — the single cooperative
// event loop, per §5.
func (srv *Server) Serve() error {
	for {
		conn, err := srv.listener.Accept()
		if err != nil {
			return err
		}
		srv.mu.Lock()
		srv.conns[conn] = true
		srv.mu.Unlock()
		go srv.handleConn(conn)
	}
}

func (srv *Server) handleConn(conn net.Conn) {
	defer func() {
		srv.mu.Lock()
		delete(srv.conns, conn)
		srv.mu.Unlock()
		conn.Close()
	}()
	for {
		msgType, payload, err := readFrame(conn)
		if err != nil {
			if err != io.EOF {
				log.Printf("ipc: framing error, closing connection: %v", err)
			}
			return
		}
		req := &Request{Type: msgType, Payload: payload, reply: make(chan []byte, 1)}
		srv.incoming <- req
		reply := <-req.reply
		if err := writeFrame(conn, msgType, reply); err != nil {
			return
		}
	}
}

// Dispatch runs one request against the model and returns the reply
// bytes. Call it only from the goroutine draining Incoming().
func (srv *Server) Dispatch(req *Request) []byte {
	return srv.dispatch(req.Type, req.Payload)
}

// readFrame validates the magic and reads exactly one message (§4.7:
// "any deviation closes the connection").
func readFrame(r io.Reader) (msgType uint32, payload []byte, err error) {
	var hdr [14]byte
	if _, err = io.ReadFull(r, hdr[:]); err != nil {
		return 0, nil, err
	}
	if string(hdr[:6]) != magic {
		return 0, nil, fmt.Errorf("ipc: bad magic %q", hdr[:6])
	}
	size := binary.LittleEndian.Uint32(hdr[6:10])
	msgType = binary.LittleEndian.Uint32(hdr[10:14])
	payload = make([]byte, size)
	if _, err = io.ReadFull(r, payload); err != nil {
		return 0, nil, err
	}
	return msgType, payload, nil
}

func writeFrame(w io.Writer, msgType uint32, payload []byte) error {
	var buf bytes.Buffer
	buf.WriteString(magic)
	binary.Write(&buf, binary.LittleEndian, uint32(len(payload)))
	binary.Write(&buf, binary.LittleEndian, msgType)
	buf.Write(payload)
	_, err := w.Write(buf.Bytes())
	return err
}

type statusReply struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func (srv *Server) dispatch(msgType uint32, payload []byte) []byte {
	switch msgType {
	case TypeCommand:
		err := srv.Executor.Execute(string(payload))
		resp := statusReply{Success: err == nil}
		if err != nil {
			resp.Error = err.Error()
		}
		out, _ := json.Marshal(resp)
		return out
	case TypeGetWorkspaces:
		out, _ := json.Marshal(srv.workspaceList())
		return out
	case TypeGetOutputs:
		out, _ := json.Marshal(srv.outputList())
		return out
	default:
		out, _ := json.Marshal(statusReply{Success: false, Error: "unknown message type"})
		return out
	}
}

// WorkspaceInfo is the GET_WORKSPACES reply shape (§4.7).
type WorkspaceInfo struct {
	Num      int       `json:"num"`
	Name     string    `json:"name"`
	Visible  bool      `json:"visible"`
	Focused  bool      `json:"focused"`
	Rect     RectInfo  `json:"rect"`
	Output   string    `json:"output"`
}

// RectInfo mirrors geom.Rect for JSON encoding (keeping internal/geom free
// of struct tags aimed only at this one external format).
type RectInfo struct {
	X, Y          int32
	Width, Height uint32
}

func rectInfo(r geom.Rect) RectInfo {
	return RectInfo{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

func (srv *Server) workspaceList() []WorkspaceInfo {
	var out []WorkspaceInfo
	for _, ws := range srv.State.Workspaces {
		var outputName string
		if o := srv.State.Output(ws.Output); o != nil {
			outputName = o.Name
		}
		out = append(out, WorkspaceInfo{
			Num:     ws.Num,
			Name:    ws.Name,
			Visible: srv.State.WorkspaceIsVisible(ws),
			Focused: srv.State.WorkspaceIsVisible(ws) && srv.State.FocusedOutput == ws.Output,
			Rect:    rectInfo(ws.Rect),
			Output:  outputName,
		})
	}
	return out
}

// OutputInfo is the GET_OUTPUTS reply shape.
type OutputInfo struct {
	Name   string   `json:"name"`
	Active bool     `json:"active"`
	Rect   RectInfo `json:"rect"`
}

func (srv *Server) outputList() []OutputInfo {
	var out []OutputInfo
	for _, o := range srv.State.Outputs {
		out = append(out, OutputInfo{Name: o.Name, Active: o.Active, Rect: rectInfo(o.Rect)})
	}
	return out
}

// WorkspaceEvent is the push-event payload for the "workspace" event
// family (§4.7): change is one of "init", "focus", "empty", "reload".
type WorkspaceEvent struct {
	Change string `json:"change"`
}

// OutputEvent is the push-event payload for the "output" event family;
// the only tag ever sent today is "unspecified" (§4.7).
type OutputEvent struct {
	Change string `json:"change"`
}

const (
	eventTypeWorkspace uint32 = 0x80000000
	eventTypeOutput    uint32 = 0x80000001
)

// BroadcastWorkspace pushes a "workspace" event with the given change tag
// to every connected client.
func (srv *Server) BroadcastWorkspace(change string) {
	srv.broadcast(eventTypeWorkspace, WorkspaceEvent{Change: change})
}

// BroadcastOutput pushes an "output" event (always "unspecified" today) to
// every connected client.
func (srv *Server) BroadcastOutput() {
	srv.broadcast(eventTypeOutput, OutputEvent{Change: "unspecified"})
}

func (srv *Server) broadcast(eventType uint32, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		return
	}
	srv.mu.Lock()
	defer srv.mu.Unlock()
	for c := range srv.conns {
		if err := writeFrame(c, eventType, body); err != nil {
			log.Printf("ipc: broadcast to client failed: %v", err)
		}
	}
}
