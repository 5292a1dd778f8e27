// Package debug implements the read-only HTTP+WebSocket introspection
// surface SPEC_FULL.md §6 adds for GraphContext's debug-only active-node
// tracker and root-motion action recorder (spec.md §4.5 names them but,
// correctly, never specifies a transport — the editor/UI is out of
// scope). Grounded on niceyeti-tabular's tabular/server (gorilla/mux
// routing) and tabular/server/fastview (gorilla/websocket streaming)
// packages. This is observability, not authoring: it never mutates graph
// state and carries no node-creation/editing surface.
package debug

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/oxygraph/animgraph/graph"
	"github.com/oxygraph/animgraph/world"
)

// Snapshot is the JSON payload both the polling route and the websocket
// stream send: the instance's last-Evaluate active-node list and
// root-motion log, per graph.Instance.ActiveNodes/RootMotionLog (both
// empty unless the instance was built with graph.WithDebug(true)).
type Snapshot struct {
	InstanceID uint64 `json:"instance_id"`
	ActiveNodes []uint32 `json:"active_nodes"`
	RootMotionLog []snapshotTransform `json:"root_motion_log"`
}

type snapshotTransform struct {
	TranslationX float32 `json:"tx"`
	TranslationY float32 `json:"ty"`
	TranslationZ float32 `json:"tz"`
}

func snapshotOf(id uint64, inst *graph.Instance) Snapshot {
	log := inst.RootMotionLog()
	out := make([]snapshotTransform, len(log))
	for i, t := range log {
 out[i] = snapshotTransform{
 TranslationX: t.Translation.X(),
 TranslationY: t.Translation.Y(),
 TranslationZ: t.Translation.Z(),
 }
	}
	return Snapshot{
 InstanceID: id,
 ActiveNodes: inst.ActiveNodes(),
 RootMotionLog: out,
	}
}

// upgrader matches niceyeti-tabular's package-level websocket.Upgrader —
// zero-value buffer sizes, no origin check since this is a localhost
// developer tool, not an internet-facing service.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Server is the debug introspection HTTP+WebSocket server. It holds no
// mutable graph state of its own — every route reads straight through
// to the world.World it was constructed with.
type Server struct {
	world *world.World
	router *mux.Router

	pollInterval time.Duration

	mu sync.Mutex
	subscribers map[uint64]map[*websocket.Conn]struct{}
}

// New builds a Server serving introspection routes for w. pollInterval
// governs how often an open websocket stream pushes a fresh Snapshot;
// it has no effect on the polling HTTP route.
func New(w *world.World, pollInterval time.Duration) *Server {
	if pollInterval <= 0 {
 pollInterval = 100 * time.Millisecond
	}
	s := &Server{
 world: w,
 pollInterval: pollInterval,
 subscribers: make(map[uint64]map[*websocket.Conn]struct{}),
	}
	r := mux.NewRouter()
	r.HandleFunc("/debug/graph", s.serveList).Methods(http.MethodGet)
	r.HandleFunc("/debug/graph/{instance}", s.serveSnapshot).Methods(http.MethodGet)
	r.HandleFunc("/debug/graph/{instance}/ws", s.serveWebsocket)
	s.router = r
	return s
}

// Handler returns the server's http.Handler, for embedding into a larger
// mux or passing to http.ListenAndServe directly.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe starts the debug server on addr. Blocks until the
// listener fails (matching niceyeti-tabular's Server.Serve contract).
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s.router)
}

func (s *Server) serveList(w http.ResponseWriter, r *http.Request) {
	ids := s.world.IDs()
	writeJSON(w, ids)
}

func (s *Server) serveSnapshot(w http.ResponseWriter, r *http.Request) {
	id, ok := parseInstanceID(r)
	if !ok {
 http.Error(w, "invalid instance id", http.StatusBadRequest)
 return
	}
	inst, ok := s.world.Instance(id)
	if !ok {
 http.Error(w, "unknown instance", http.StatusNotFound)
 return
	}
	writeJSON(w, snapshotOf(id, inst))
}

// serveWebsocket upgrades the connection and pushes one Snapshot every
// pollInterval until the client disconnects — the stream analogue of
// serveSnapshot, following niceyeti-tabular's serveWebsocket pattern of
// a dedicated goroutine per connection pushing state on a timer rather
// than wiring the graph's own Evaluate call to fan out pushes directly.
func (s *Server) serveWebsocket(w http.ResponseWriter, r *http.Request) {
	id, ok := parseInstanceID(r)
	if !ok {
 http.Error(w, "invalid instance id", http.StatusBadRequest)
 return
	}
	if _, ok := s.world.Instance(id); !ok {
 http.Error(w, "unknown instance", http.StatusNotFound)
 return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
 log.Printf("debug: websocket upgrade: %v", err)
 return
	}
	defer conn.Close()

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for range ticker.C {
 inst, ok := s.world.Instance(id)
 if !ok {
 return
 }
 if err := conn.WriteJSON(snapshotOf(id, inst)); err != nil {
 return
 }
	}
}

func parseInstanceID(r *http.Request) (uint64, bool) {
	raw, ok := mux.Vars(r)["instance"]
	if !ok {
 return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
 return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
 log.Printf("debug: encoding response: %v", err)
	}
}
