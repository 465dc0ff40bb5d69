package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/openzhmc/zhmc/internal/client"
)

const (
	testUserid   = "ensadmin"
	testPassword = "password"
)

// fakeHMC is a minimal in-process HMC serving the session endpoints and
// a CPC list.
type fakeHMC struct {
	srv *httptest.Server

	mu       sync.Mutex
	sessions map[string]bool
	logons   int
	expired  map[string]bool
}

func newFakeHMC(t *testing.T) *fakeHMC {
	t.Helper()
	h := &fakeHMC{
		sessions: map[string]bool{},
		expired:  map[string]bool{},
	}
	h.srv = httptest.NewTLSServer(http.HandlerFunc(h.handle))
	t.Cleanup(h.srv.Close)
	return h
}

// host returns the host:port of the fake HMC.
func (h *fakeHMC) host() string {
	return strings.TrimPrefix(h.srv.URL, "https://")
}

// addSession registers a session-id as if created by another process.
func (h *fakeHMC) addSession(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sessions[id] = true
}

// expire marks a session-id so its next use fails with the
// session-invalid reason code.
func (h *fakeHMC) expire(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.sessions, id)
	h.expired[id] = true
}

func (h *fakeHMC) logonCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.logons
}

func (h *fakeHMC) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost && r.URL.Path == "/api/sessions" {
		h.handleLogon(w, r)
		return
	}

	h.mu.Lock()
	id := r.Header.Get("X-API-Session")
	valid := h.sessions[id]
	wasExpired := h.expired[id]
	h.mu.Unlock()

	if !valid {
		reason := 0
		if wasExpired {
			reason = 5
		}
		writeError(w, http.StatusForbidden, reason, "invalid session")
		return
	}

	switch {
	case r.Method == http.MethodDelete && r.URL.Path == "/api/sessions/this-session":
		h.mu.Lock()
		delete(h.sessions, id)
		h.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)

	case r.Method == http.MethodGet && r.URL.Path == "/api/cpcs":
		cpcs := []map[string]any{
			{"name": "CPC2", "status": "active", "object-uri": "/api/cpcs/2"},
			{"name": "CPC1", "status": "operating", "object-uri": "/api/cpcs/1"},
		}
		if name := r.URL.Query().Get("name"); name != "" {
			var match []map[string]any
			for _, cpc := range cpcs {
				if cpc["name"] == name {
					match = append(match, cpc)
				}
			}
			cpcs = match
		}
		writeJSON(w, map[string]any{"cpcs": cpcs})

	case r.Method == http.MethodGet && r.URL.Path == "/api/cpcs/1":
		writeJSON(w, map[string]any{
			"name":        "CPC1",
			"status":      "operating",
			"object-uri":  "/api/cpcs/1",
			"dpm-enabled": true,
		})

	default:
		writeError(w, http.StatusNotFound, 1, "no such resource: "+r.URL.Path)
	}
}

func (h *fakeHMC) handleLogon(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Userid   string `json:"userid"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeError(w, http.StatusBadRequest, 0, "malformed logon body")
		return
	}
	if creds.Userid != testUserid || creds.Password != testPassword {
		writeError(w, http.StatusForbidden, 0, "authentication failed")
		return
	}
	id := uuid.NewString()
	h.mu.Lock()
	h.sessions[id] = true
	h.logons++
	h.mu.Unlock()
	writeJSON(w, map[string]any{"api-session": id})
}

func writeJSON(w http.ResponseWriter, body map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status, reason int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"message":     message,
		"http-status": status,
		"reason":      reason,
	})
}

func newTestSession(t *testing.T, h *fakeHMC, userid, password, sessionID string) *client.Session {
	t.Helper()
	s, err := client.NewSession(h.host(), userid, password, sessionID,
		client.VerifyPolicy{NoVerify: true})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return s
}

func TestLogonOnFirstRequest(t *testing.T) {
	h := newFakeHMC(t)
	s := newTestSession(t, h, testUserid, testPassword, "")
	ctx := context.Background()

	objs, err := s.ListObjects(ctx, "/api/cpcs", "cpcs", nil)
	if err != nil {
		t.Fatalf("ListObjects: %v", err)
	}
	if len(objs) != 2 {
		t.Fatalf("got %d CPCs, want 2", len(objs))
	}
	if h.logonCount() != 1 {
		t.Errorf("logon count = %d, want 1", h.logonCount())
	}
	if s.SessionID() == "" {
		t.Error("no session-id after logon")
	}

	// Further requests reuse the session.
	if _, err := s.ListObjects(ctx, "/api/cpcs", "cpcs", nil); err != nil {
		t.Fatalf("second ListObjects: %v", err)
	}
	if h.logonCount() != 1 {
		t.Errorf("logon count after second request = %d, want 1", h.logonCount())
	}
}

func TestAdoptedSessionSkipsLogon(t *testing.T) {
	h := newFakeHMC(t)
	h.addSession("adopted-session-id")
	s := newTestSession(t, h, "", "", "adopted-session-id")

	if !s.Adopted() {
		t.Error("Adopted() = false for a supplied session-id")
	}
	if _, err := s.ListObjects(context.Background(), "/api/cpcs", "cpcs", nil); err != nil {
		t.Fatalf("ListObjects: %v", err)
	}
	if h.logonCount() != 0 {
		t.Errorf("logon count = %d, want 0", h.logonCount())
	}
}

func TestExpiredSessionIsRetried(t *testing.T) {
	h := newFakeHMC(t)
	s := newTestSession(t, h, testUserid, testPassword, "")
	ctx := context.Background()

	if _, err := s.ListObjects(ctx, "/api/cpcs", "cpcs", nil); err != nil {
		t.Fatalf("ListObjects: %v", err)
	}
	h.expire(s.SessionID())

	if _, err := s.ListObjects(ctx, "/api/cpcs", "cpcs", nil); err != nil {
		t.Fatalf("ListObjects after expiry: %v", err)
	}
	if h.logonCount() != 2 {
		t.Errorf("logon count = %d, want 2", h.logonCount())
	}
}

func TestExpiredAdoptedSessionIsNotRetried(t *testing.T) {
	h := newFakeHMC(t)
	h.addSession("short-lived")
	s := newTestSession(t, h, "", "", "short-lived")
	h.expire("short-lived")

	_, err := s.ListObjects(context.Background(), "/api/cpcs", "cpcs", nil)
	if err == nil {
		t.Fatal("expected error for expired adopted session")
	}
	var herr *client.HTTPError
	if !errors.As(err, &herr) {
		t.Fatalf("error type = %T, want *client.HTTPError", err)
	}
	if h.logonCount() != 0 {
		t.Errorf("logon count = %d, want 0", h.logonCount())
	}
}

func TestBadCredentials(t *testing.T) {
	h := newFakeHMC(t)
	s := newTestSession(t, h, testUserid, "wrong", "")

	_, err := s.Get(context.Background(), "/api/cpcs")
	if err == nil {
		t.Fatal("expected error for bad credentials")
	}
	var aerr *client.AuthError
	if !errors.As(err, &aerr) {
		t.Fatalf("error type = %T, want *client.AuthError", err)
	}
}

func TestMissingCredentials(t *testing.T) {
	h := newFakeHMC(t)
	s := newTestSession(t, h, "", "", "")

	_, err := s.Get(context.Background(), "/api/cpcs")
	var aerr *client.AuthError
	if !errors.As(err, &aerr) {
		t.Fatalf("error = %v, want *client.AuthError", err)
	}
}

func TestListObjectsFilterQuery(t *testing.T) {
	h := newFakeHMC(t)
	s := newTestSession(t, h, testUserid, testPassword, "")

	objs, err := s.ListObjects(context.Background(), "/api/cpcs", "cpcs",
		url.Values{"name": []string{"CPC1"}})
	if err != nil {
		t.Fatalf("ListObjects: %v", err)
	}
	if len(objs) != 1 || objs[0]["name"] != "CPC1" {
		t.Fatalf("filtered list = %v, want just CPC1", objs)
	}
}

func TestGetProperties(t *testing.T) {
	h := newFakeHMC(t)
	s := newTestSession(t, h, testUserid, testPassword, "")

	props, err := s.GetProperties(context.Background(), "/api/cpcs/1")
	if err != nil {
		t.Fatalf("GetProperties: %v", err)
	}
	if props["name"] != "CPC1" {
		t.Errorf("name = %v, want CPC1", props["name"])
	}
	if props["dpm-enabled"] != true {
		t.Errorf("dpm-enabled = %v, want true", props["dpm-enabled"])
	}
}

func TestHTTPErrorFormats(t *testing.T) {
	h := newFakeHMC(t)
	s := newTestSession(t, h, testUserid, testPassword, "")

	_, err := s.Get(context.Background(), "/api/cpcs/nope")
	var herr *client.HTTPError
	if !errors.As(err, &herr) {
		t.Fatalf("error type = %T, want *client.HTTPError", err)
	}
	if herr.Status != 404 || herr.Reason != 1 {
		t.Errorf("status,reason = %d,%d, want 404,1", herr.Status, herr.Reason)
	}
	msg := herr.Error()
	if !strings.Contains(msg, "404,1") {
		t.Errorf("Error() = %q, missing status,reason", msg)
	}
	def := herr.Def()
	for _, part := range []string{
		`classname="HTTPError"`,
		`request_method="GET"`,
		`request_uri="/api/cpcs/nope"`,
		"http_status=404",
		"reason=1",
	} {
		if !strings.Contains(def, part) {
			t.Errorf("Def() = %q, missing %q", def, part)
		}
	}
}

func TestLogoff(t *testing.T) {
	h := newFakeHMC(t)
	s := newTestSession(t, h, testUserid, testPassword, "")
	ctx := context.Background()

	if err := s.EnsureLoggedOn(ctx); err != nil {
		t.Fatalf("EnsureLoggedOn: %v", err)
	}
	if err := s.Logoff(ctx); err != nil {
		t.Fatalf("Logoff: %v", err)
	}
	if s.SessionID() != "" {
		t.Error("session-id not cleared after logoff")
	}
}

func TestConnError(t *testing.T) {
	s, err := client.NewSession("127.0.0.1:1", "u", "p", "sess",
		client.VerifyPolicy{NoVerify: true})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	_, err = s.Get(context.Background(), "/api/version")
	var cerr *client.ConnError
	if !errors.As(err, &cerr) {
		t.Fatalf("error = %v, want *client.ConnError", err)
	}
}

func TestRequestCount(t *testing.T) {
	h := newFakeHMC(t)
	s := newTestSession(t, h, testUserid, testPassword, "")
	ctx := context.Background()

	if _, err := s.Get(ctx, "/api/cpcs"); err != nil {
		t.Fatalf("Get: %v", err)
	}
	// Logon plus the list itself.
	if got := s.RequestCount(); got != 2 {
		t.Errorf("RequestCount() = %d, want 2", got)
	}
}
