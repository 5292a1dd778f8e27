package debug

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/oxygraph/animgraph/clip"
	"github.com/oxygraph/animgraph/common"
	"github.com/oxygraph/animgraph/dataset"
	"github.com/oxygraph/animgraph/graph"
	"github.com/oxygraph/animgraph/skeleton"
	"github.com/oxygraph/animgraph/synctrack"
	"github.com/oxygraph/animgraph/world"
)

func newTestWorld(t *testing.T) (*world.World, uint64) {
	t.Helper()
	skel, err := skeleton.New(
 []skeleton.Bone{{Index: 0, ParentIndex: skeleton.InvalidIndex, Name: "root"}},
 []common.Transform{common.IdentityTransform},
	)
	if err != nil {
 t.Fatalf("skeleton.New: %v", err)
	}

	idle := clip.New("idle", 1.0, 30, []clip.Track{{}})
	ds := dataset.New([]*clip.Clip{idle})
	def, err := graph.NewDefinition([]graph.NodeSettings{
 graph.ClipSettings{DataSlot: 0, Loop: true},
	}, ds, 0)
	if err != nil {
 t.Fatalf("NewDefinition: %v", err)
	}

	inst, err := graph.NewInstance(def, skel, graph.WithDebug(true))
	if err != nil {
 t.Fatalf("NewInstance: %v", err)
	}
	if err := inst.Initialize(synctrack.Time{}); err != nil {
 t.Fatalf("Initialize: %v", err)
	}
	if _, err := inst.Evaluate(1.0/30.0, common.IdentityTransform); err != nil {
 t.Fatalf("Evaluate: %v", err)
	}

	w := world.New(world.WithWorkers(1))
	id := w.Register(inst)
	return w, id
}

func TestServeListReturnsRegisteredIDs(t *testing.T) {
	w, id := newTestWorld(t)
	s := New(w, 0)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/debug/graph", nil)
	s.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
 t.Fatalf("status = %d, want 200", rr.Code)
	}
	var ids []uint64
	if err := json.NewDecoder(rr.Body).Decode(&ids); err != nil {
 t.Fatalf("decode: %v", err)
	}
	if len(ids) != 1 || ids[0] != id {
 t.Fatalf("ids = %v, want [%d]", ids, id)
	}
}

func TestServeSnapshotReturnsActiveNodes(t *testing.T) {
	w, id := newTestWorld(t)
	s := New(w, 0)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/debug/graph/"+itoa(id), nil)
	s.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
 t.Fatalf("status = %d, want 200", rr.Code)
	}
	var snap Snapshot
	if err := json.NewDecoder(rr.Body).Decode(&snap); err != nil {
 t.Fatalf("decode: %v", err)
	}
	if snap.InstanceID != id {
 t.Fatalf("InstanceID = %d, want %d", snap.InstanceID, id)
	}
	if len(snap.ActiveNodes) == 0 {
 t.Fatalf("expected at least one active node from the debug-enabled instance")
	}
}

func TestServeSnapshotUnknownInstanceIs404(t *testing.T) {
	w, _ := newTestWorld(t)
	s := New(w, 0)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/debug/graph/999999", nil)
	s.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
 t.Fatalf("status = %d, want 404", rr.Code)
	}
}

func itoa(id uint64) string {
	b, _ := json.Marshal(id)
	return string(b)
}
