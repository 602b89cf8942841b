package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gorilla/mux"

	"github.com/trainkit/trainkit/pkg/logging"
	"github.com/trainkit/trainkit/pkg/metrics"
	"github.com/trainkit/trainkit/pkg/status"
	"github.com/trainkit/trainkit/pkg/sysinfo"
)

func newTestRouter(t *testing.T, st *status.State, modelsRoot string) *mux.Router {
	t.Helper()

	log := logging.NewLogger(logging.INFO, false)
	log.SetOutput(io.Discard)

	h := NewHandler(st, sysinfo.NewMonitor(), metrics.NewCollector(), modelsRoot, log)
	router := mux.NewRouter()
	h.RegisterRoutes(router)
	return router
}

func TestStatusEndpoint(t *testing.T) {
	st := status.New()
	st.SetJob("training person-v1", 100)
	router := newTestRouter(t, st, t.TempDir())

	req := httptest.NewRequest("GET", "/api/status", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var snap status.Snapshot
	if err := json.Unmarshal(w.Body.Bytes(), &snap); err != nil {
		t.Fatal(err)
	}
	if snap.Job != "training person-v1" || snap.JobCount != 100 {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestInterruptEndpointRaisesFlag(t *testing.T) {
	st := status.New()
	router := newTestRouter(t, st, t.TempDir())

	req := httptest.NewRequest("POST", "/api/interrupt", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !st.ShouldStop() {
		t.Error("interrupt flag not raised")
	}
}

func TestInterruptRequiresPOST(t *testing.T) {
	router := newTestRouter(t, status.New(), t.TempDir())

	req := httptest.NewRequest("GET", "/api/interrupt", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", w.Code)
	}
}

func TestModelsEndpoint(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "dreambooth", "person-v1"), 0o755); err != nil {
		t.Fatal(err)
	}
	router := newTestRouter(t, status.New(), root)

	req := httptest.NewRequest("GET", "/api/models", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp map[string][]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp["models"]) != 1 || resp["models"][0] != "person-v1" {
		t.Errorf("models = %v", resp["models"])
	}
}

func TestImagesEndpointRequiresDir(t *testing.T) {
	router := newTestRouter(t, status.New(), t.TempDir())

	req := httptest.NewRequest("GET", "/api/images", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestImagesEndpoint(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.png"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	router := newTestRouter(t, status.New(), t.TempDir())

	req := httptest.NewRequest("GET", "/api/images?dir="+dir, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var resp struct {
		Count  int      `json:"count"`
		Images []string `json:"images"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Count != 1 {
		t.Errorf("count = %d, want 1", resp.Count)
	}
}

func TestMemoryEndpointPreservesRecords(t *testing.T) {
	monitor := sysinfo.NewMonitorWithQuery(func() (sysinfo.GPUMemory, error) {
		return sysinfo.GPUMemory{UsedGB: 3.2, TotalGB: 8.0}, nil
	})
	monitor.Note("after load")

	log := logging.NewLogger(logging.INFO, false)
	log.SetOutput(io.Discard)
	h := NewHandler(status.New(), monitor, metrics.NewCollector(), t.TempDir(), log)
	router := mux.NewRouter()
	h.RegisterRoutes(router)

	// Poll twice; the recorded sample must survive both reads.
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest("GET", "/api/memory", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
		}

		var resp struct {
			Report  string            `json:"report"`
			Records map[string]string `json:"records"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatal(err)
		}
		if resp.Records["after load"] != "3.2/8.0GB" {
			t.Errorf("poll %d: records = %v, want the labelled sample kept", i+1, resp.Records)
		}
		if resp.Report == "" {
			t.Errorf("poll %d: empty report", i+1)
		}
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t, status.New(), t.TempDir())

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d", w.Code)
	}
}
