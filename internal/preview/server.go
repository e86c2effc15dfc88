// Package preview serves the live strip over HTTP: a frame stream, a
// diagnostics stream, a control socket that drives virtual inputs, and a
// health probe.
package preview

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	diag "github.com/coreman2200/lumistrip/internal/diagnostics"
	"github.com/coreman2200/lumistrip/internal/input"
	"github.com/coreman2200/lumistrip/internal/layout"
	"github.com/coreman2200/lumistrip/internal/render"
)

const writeWait = 200 * time.Millisecond

// Snapshotter is what the server reads frames from; *render.Engine is one.
type Snapshotter interface {
	Snapshot() render.Snapshot
}

// Topology is sent to every frame client when it connects.
type Topology struct {
	LEDs   int         `json:"leds"`
	Grid   layout.Grid `json:"grid"`
	Driver string      `json:"driver"`
	FPS    int         `json:"fps"`
}

// Server fans the engine's snapshots out to websocket clients. It never
// touches the engine state directly.
type Server struct {
	Source   Snapshotter
	Topology Topology
	// Virtual and Inputs enable /control; with either nil it refuses.
	Virtual *input.Virtual
	Inputs  *input.Set

	limiter *rate.Limiter
	diags   *diag.Ring
	start   time.Time
	up      websocket.Upgrader

	mu          sync.Mutex
	clients     map[*websocket.Conn]string
	diagClients map[*websocket.Conn]string
	ctlClients  map[*websocket.Conn]string
	lastFrame   uint64
	sent        uint64
}

// New streams at most fps frames per second to each client.
func New(src Snapshotter, top Topology, fps int) *Server {
	if fps <= 0 {
		fps = 30
	}
	return &Server{
		Source:      src,
		Topology:    top,
		limiter:     rate.NewLimiter(rate.Every(time.Second/time.Duration(fps)), 1),
		diags:       diag.NewRing(32),
		start:       time.Now(),
		up:          websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		clients:     map[*websocket.Conn]string{},
		diagClients: map[*websocket.Conn]string{},
		ctlClients:  map[*websocket.Conn]string{},
	}
}

// Handler routes the preview endpoints.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.HandleFramesWS)
	mux.HandleFunc("/diag", s.HandleDiagWS)
	mux.HandleFunc("/control", s.HandleControlWS)
	mux.HandleFunc("/health", s.HandleHealth)
	return withCORS(mux)
}

// Run pushes new frames until ctx is done, then disconnects everyone.
func (s *Server) Run(ctx context.Context) error {
	defer s.closeAll()
	for {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil
		}
		s.broadcastFrame()
	}
}

type frameMsg struct {
	T          int64  `json:"t"`
	FrameID    uint64 `json:"frame_id"`
	RGB        []byte `json:"rgb"`
	Pattern    string `json:"pattern"`
	Mode       string `json:"mode"`
	Transition bool   `json:"transition"`
	Brightness uint8  `json:"brightness"`
}

func (s *Server) broadcastFrame() {
	snap := s.Source.Snapshot()
	s.mu.Lock()
	defer s.mu.Unlock()
	if snap.Frame == s.lastFrame || len(s.clients) == 0 {
		return
	}
	s.lastFrame = snap.Frame
	b, _ := json.Marshal(frameMsg{
		T:          snap.At.Milliseconds(),
		FrameID:    snap.Frame,
		RGB:        snap.RGB,
		Pattern:    snap.Pattern,
		Mode:       snap.Selection.Mode.String(),
		Transition: snap.Transition,
		Brightness: snap.Selection.Brightness,
	})
	for c, id := range s.clients {
		_ = c.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.WriteMessage(websocket.TextMessage, b); err != nil {
			log.Debug().Err(err).Str("client", id).Msg("write frame")
		}
	}
	s.sent++
}

// Push records d and sends it to every diagnostics client.
func (s *Server) Push(d diag.Diagnostic) {
	d = s.diags.Add(d)
	b, _ := json.Marshal(d)
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.diagClients {
		_ = c.SetWriteDeadline(time.Now().Add(writeWait))
		_ = c.WriteMessage(websocket.TextMessage, b)
	}
}

func (s *Server) HandleFramesWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.up.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	id := uuid.NewString()
	b, _ := json.Marshal(s.Topology)
	_ = conn.WriteMessage(websocket.TextMessage, b)
	s.register(s.clients, conn, id)
	log.Debug().Str("client", id).Msg("frame client connected")
	go s.drain(s.clients, conn, id)
}

func (s *Server) HandleDiagWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.up.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	id := uuid.NewString()
	// replay under the lock so a concurrent Push cannot interleave
	s.mu.Lock()
	for _, d := range s.diags.List() {
		b, _ := json.Marshal(d)
		_ = conn.WriteMessage(websocket.TextMessage, b)
	}
	s.diagClients[conn] = id
	s.mu.Unlock()
	go s.drain(s.diagClients, conn, id)
}

func (s *Server) register(set map[*websocket.Conn]string, conn *websocket.Conn, id string) {
	s.mu.Lock()
	set[conn] = id
	s.mu.Unlock()
}

// drain reads until the client goes away; clients never send anything we
// act on.
func (s *Server) drain(set map[*websocket.Conn]string, conn *websocket.Conn, id string) {
	defer func() {
		s.mu.Lock()
		delete(set, conn)
		s.mu.Unlock()
		conn.Close()
		log.Debug().Str("client", id).Msg("client gone")
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		c.Close()
	}
	for c := range s.diagClients {
		c.Close()
	}
	for c := range s.ctlClients {
		c.Close()
	}
}

// ControlMsg moves one virtual input. Button takes a role name and Down;
// Dial sets the dial reading; Motion sets the sensor level. Pin with Level
// or Value addresses a pin directly.
type ControlMsg struct {
	Button string `json:"button,omitempty"`
	Down   bool   `json:"down,omitempty"`
	Dial   *int   `json:"dial,omitempty"`
	Motion *bool  `json:"motion,omitempty"`
	Pin    *int   `json:"pin,omitempty"`
	Level  *bool  `json:"level,omitempty"`
	Value  *int   `json:"value,omitempty"`
}

type controlReply struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

func (s *Server) HandleControlWS(w http.ResponseWriter, r *http.Request) {
	if s.Virtual == nil || s.Inputs == nil {
		http.Error(w, "inputs are wired to hardware", http.StatusConflict)
		return
	}
	conn, err := s.up.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	id := uuid.NewString()
	s.register(s.ctlClients, conn, id)
	defer func() {
		s.mu.Lock()
		delete(s.ctlClients, conn)
		s.mu.Unlock()
		conn.Close()
		log.Debug().Str("client", id).Msg("control client gone")
	}()
	for {
		var msg ControlMsg
		if err := conn.ReadJSON(&msg); err != nil {
			if badJSON(err) {
				_ = conn.WriteJSON(controlReply{Error: err.Error()})
				continue
			}
			return
		}
		reply := controlReply{OK: true}
		if err := s.apply(msg); err != nil {
			reply = controlReply{Error: err.Error()}
		}
		if err := conn.WriteJSON(reply); err != nil {
			return
		}
	}
}

func badJSON(err error) bool {
	var syn *json.SyntaxError
	var typ *json.UnmarshalTypeError
	return errors.As(err, &syn) || errors.As(err, &typ)
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	snap := s.Source.Snapshot()
	s.mu.Lock()
	clients := len(s.clients)
	sent := s.sent
	s.mu.Unlock()
	resp := map[string]any{
		"frame_id":    snap.Frame,
		"uptime_s":    time.Since(s.start).Seconds(),
		"leds":        s.Topology.LEDs,
		"fps":         s.Topology.FPS,
		"driver":      s.Topology.Driver,
		"mode":        snap.Selection.Mode.String(),
		"pattern":     snap.Pattern,
		"brightness":  snap.Selection.Brightness,
		"standby":     snap.Selection.Standby,
		"held":        snap.Held,
		"clients":     clients,
		"frames_sent": sent,
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(200)
			return
		}
		h.ServeHTTP(w, r)
	})
}
