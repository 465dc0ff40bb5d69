package cli

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/openzhmc/zhmc/internal/config"
	"github.com/openzhmc/zhmc/internal/output"
)

var testLogon = config.LogonData{
	Host:     "hmc.example.com",
	Userid:   "ensadmin",
	Password: "password",
}

var testLogonNoHost = config.LogonData{}

// testHMC serves logon, a fixed CPC with adapters, and a metrics
// context, enough to drive commands end to end. It counts the requests
// the tests care about.
type testHMC struct {
	srv *httptest.Server

	mu             sync.Mutex
	logoffs        int
	adapterCreates int
	adapterDeletes int

	// HTTP status for deleting the metrics context; 0 means success.
	contextDeleteStatus int
}

func newTestHMC(t *testing.T) *testHMC {
	t.Helper()
	h := &testHMC{}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/sessions", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"api-session": "test-session"})
	})
	mux.HandleFunc("DELETE /api/sessions/this-session", func(w http.ResponseWriter, r *http.Request) {
		h.mu.Lock()
		h.logoffs++
		h.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /api/cpcs", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-API-Session") != "test-session" {
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(map[string]any{
				"message": "not authenticated", "reason": 0,
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"cpcs": []map[string]any{
				{
					"name":       "CPC1",
					"status":     "operating",
					"object-uri": "/api/cpcs/1",
				},
			},
		})
	})
	mux.HandleFunc("GET /api/cpcs/1/adapters", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"adapters": []map[string]any{
				{
					"name":       "HS1",
					"type":       "hipersockets",
					"object-uri": "/api/adapters/1",
				},
			},
		})
	})
	mux.HandleFunc("POST /api/cpcs/1/adapters", func(w http.ResponseWriter, r *http.Request) {
		h.mu.Lock()
		h.adapterCreates++
		h.mu.Unlock()
		json.NewEncoder(w).Encode(map[string]any{"object-uri": "/api/adapters/2"})
	})
	mux.HandleFunc("DELETE /api/adapters/1", func(w http.ResponseWriter, r *http.Request) {
		h.mu.Lock()
		h.adapterDeletes++
		h.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("POST /api/services/metrics/context", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"metrics-context-uri": "/api/services/metrics/context/1",
		})
	})
	mux.HandleFunc("GET /api/services/metrics/context/1", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"metric-group-values": []map[string]any{
				{
					"name": "cpc-usage",
					"object-values": []map[string]any{
						{
							"resource-uri": "/api/cpcs/1",
							"metrics":      map[string]any{"processor-usage": 50},
						},
					},
				},
			},
		})
	})
	mux.HandleFunc("DELETE /api/services/metrics/context/1", func(w http.ResponseWriter, r *http.Request) {
		h.mu.Lock()
		status := h.contextDeleteStatus
		h.mu.Unlock()
		if status != 0 {
			w.WriteHeader(status)
			json.NewEncoder(w).Encode(map[string]any{
				"message": "metrics context is gone", "reason": 0,
			})
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	h.srv = httptest.NewTLSServer(mux)
	t.Cleanup(h.srv.Close)
	return h
}

// logonData returns connection data for the fake HMC, optionally with
// an adopted session id.
func (h *testHMC) logonData(sessionID string) *config.LogonData {
	return &config.LogonData{
		Host:      strings.TrimPrefix(h.srv.URL, "https://"),
		Userid:    "ensadmin",
		Password:  "password",
		SessionID: sessionID,
		NoVerify:  true,
	}
}

func (h *testHMC) logoffCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.logoffs
}

// newTestContext wires a command context to the fake HMC with output
// captured in a builder.
func newTestContext(h *testHMC, out *strings.Builder) *CmdContext {
	cctx := NewCmdContext()
	cctx.Out = out
	cctx.Err = out
	cctx.Logon = h.logonData("")
	return cctx
}

func runCommand(t *testing.T, cctx *CmdContext, args ...string) {
	t.Helper()
	root := NewRootCmd(cctx)
	root.SetArgs(args)
	root.SetOut(cctx.Out)
	root.SetErr(cctx.Err)
	if err := root.Execute(); err != nil {
		t.Fatalf("%s: %v", strings.Join(args, " "), err)
	}
}

func TestCpcListEndToEnd(t *testing.T) {
	h := newTestHMC(t)
	var out strings.Builder
	cctx := newTestContext(h, &out)

	runCommand(t, cctx, "cpc", "list", "-o", "json")

	records := mustJSON(t, out.String())
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0]["name"] != "CPC1" || records[0]["status"] != "operating" {
		t.Errorf("record = %v", records[0])
	}
	// Default columns are present even when the list response does not
	// carry them.
	if _, ok := records[0]["se-version"]; !ok {
		t.Error("record is missing the se-version column")
	}
}

func TestCpcListNamesOnly(t *testing.T) {
	h := newTestHMC(t)
	var out strings.Builder
	cctx := newTestContext(h, &out)

	runCommand(t, cctx, "cpc", "list", "--names-only", "-o", "json")

	records := mustJSON(t, out.String())
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if len(records[0]) != 1 || records[0]["name"] != "CPC1" {
		t.Errorf("record = %v, want only the name", records[0])
	}
}

func TestTimestatsOutput(t *testing.T) {
	h := newTestHMC(t)
	var out strings.Builder
	cctx := newTestContext(h, &out)

	runCommand(t, cctx, "cpc", "list", "-t", "-o", "json")

	// Logon plus the list request.
	if !strings.Contains(out.String(), "2 HMC requests in ") {
		t.Errorf("output = %q, missing time statistics", out.String())
	}
}

func TestCommandSessionIsReleased(t *testing.T) {
	h := newTestHMC(t)
	var out strings.Builder
	cctx := newTestContext(h, &out)

	runCommand(t, cctx, "cpc", "list", "-o", "json")
	cctx.ReleaseSession(context.Background())

	if got := h.logoffCount(); got != 1 {
		t.Errorf("logoffs = %d, want 1", got)
	}
	// Releasing again must not log off a second time.
	cctx.ReleaseSession(context.Background())
	if got := h.logoffCount(); got != 1 {
		t.Errorf("logoffs after second release = %d, want 1", got)
	}
}

func TestAdoptedSessionIsNotReleased(t *testing.T) {
	h := newTestHMC(t)
	var out strings.Builder
	cctx := newTestContext(h, &out)
	cctx.Logon = h.logonData("test-session")

	runCommand(t, cctx, "cpc", "list", "-o", "json")
	cctx.ReleaseSession(context.Background())

	if got := h.logoffCount(); got != 0 {
		t.Errorf("logoffs = %d, want 0 for an adopted session", got)
	}
}

func TestAdapterCreate(t *testing.T) {
	h := newTestHMC(t)
	var out strings.Builder
	cctx := newTestContext(h, &out)

	runCommand(t, cctx, "adapter", "create", "CPC1", "--prop", "name=HS2")

	if h.adapterCreates != 1 {
		t.Errorf("adapter creates = %d, want 1", h.adapterCreates)
	}
	if !strings.Contains(out.String(), "New adapter HS2 has been created.") {
		t.Errorf("output = %q", out.String())
	}
}

func TestAdapterDelete(t *testing.T) {
	h := newTestHMC(t)
	var out strings.Builder
	cctx := newTestContext(h, &out)

	runCommand(t, cctx, "adapter", "delete", "CPC1", "HS1", "--yes")

	if h.adapterDeletes != 1 {
		t.Errorf("adapter deletes = %d, want 1", h.adapterDeletes)
	}
	if !strings.Contains(out.String(), "Adapter HS1 has been deleted.") {
		t.Errorf("output = %q", out.String())
	}
}

func TestReplLineOptionsDoNotStick(t *testing.T) {
	h := newTestHMC(t)
	var out strings.Builder
	cctx := newTestContext(h, &out)
	cctx.InRepl = true

	dispatchLine(cctx, "cpc list -o json -x -e def -t")

	if cctx.OutputFormat != output.FormatTable {
		t.Errorf("output format after line = %q, want %q",
			cctx.OutputFormat, output.FormatTable)
	}
	if cctx.Transpose || cctx.Timestats {
		t.Error("transpose or timestats stuck after the line")
	}
	if cctx.ErrorFormat != ErrorFormatMsg {
		t.Errorf("error format after line = %q, want %q",
			cctx.ErrorFormat, ErrorFormatMsg)
	}
}

func TestMetricsGetSurvivesContextCleanupFailure(t *testing.T) {
	h := newTestHMC(t)
	h.contextDeleteStatus = http.StatusInternalServerError
	var out strings.Builder
	cctx := newTestContext(h, &out)

	runCommand(t, cctx, "metrics", "get", "cpc-usage", "-o", "json")

	records := mustJSON(t, out.String())
	if len(records) != 1 || records[0]["resource-uri"] != "/api/cpcs/1" {
		t.Errorf("records = %v", records)
	}
}
