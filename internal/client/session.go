package client

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/openzhmc/zhmc/internal/logging"
)

// DefaultPort is the port of the HMC Web Services API.
const DefaultPort = "6794"

const requestTimeout = 300 * time.Second

// VerifyPolicy selects how the HMC server certificate is verified.
// NoVerify disables verification; CACerts names a PEM bundle to trust
// instead of the system store. The zero value verifies against the
// system trust store.
type VerifyPolicy struct {
	NoVerify bool
	CACerts  string
}

// Session is an authenticated context for HMC Web Services calls. It is
// mutated exactly once, at logon, and is read-only afterwards; one
// session is shared by all commands of a process invocation.
type Session struct {
	host     string
	userid   string
	password string
	base     string

	hc     *http.Client
	apiLog zerolog.Logger
	hmcLog zerolog.Logger

	sessionID atomic.Value // string
	adopted   bool         // session-id supplied by the caller
	logonOnce sync.Once
	logonErr  error

	requests atomic.Int64
}

// NewSession builds a session from resolved logon data. A non-empty
// sessionID is adopted as-is and no logon will be attempted for it.
func NewSession(host, userid, password, sessionID string, verify VerifyPolicy) (*Session, error) {
	if host == "" {
		return nil, &AuthError{Message: "no HMC host provided"}
	}

	tlsCfg := &tls.Config{}
	switch {
	case verify.NoVerify:
		tlsCfg.InsecureSkipVerify = true
	case verify.CACerts != "":
		pem, err := os.ReadFile(verify.CACerts)
		if err != nil {
			return nil, fmt.Errorf("read CA certificates: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf(
				"no CA certificates found in %s", verify.CACerts)
		}
		tlsCfg.RootCAs = pool
	}

	hostPort := host
	if _, _, err := net.SplitHostPort(host); err != nil {
		hostPort = net.JoinHostPort(host, DefaultPort)
	}

	s := &Session{
		host:     host,
		userid:   userid,
		password: password,
		base:     "https://" + hostPort,
		hc: &http.Client{
			Timeout: requestTimeout,
			Transport: &http.Transport{
				TLSClientConfig: tlsCfg,
			},
		},
		apiLog:  logging.Component(logging.ComponentAPI),
		hmcLog:  logging.Component(logging.ComponentHMC),
		adopted: sessionID != "",
	}
	s.sessionID.Store(sessionID)
	return s, nil
}

// Host returns the HMC host.
func (s *Session) Host() string {
	return s.host
}

// Userid returns the HMC userid, possibly empty for an adopted session.
func (s *Session) Userid() string {
	return s.userid
}

// SessionID returns the current session-id, empty before logon.
func (s *Session) SessionID() string {
	id, _ := s.sessionID.Load().(string)
	return id
}

// Adopted reports whether the session-id was supplied by the caller
// (e.g. via ZHMC_SESSION_ID). Adopted sessions are not logged off by
// this process; they belong to the caller.
func (s *Session) Adopted() bool {
	return s.adopted
}

// RequestCount returns the number of HMC requests issued so far.
func (s *Session) RequestCount() int64 {
	return s.requests.Load()
}

// EnsureLoggedOn performs the HMC logon unless a session-id is already
// present. The logon is attempted at most once per process invocation,
// regardless of how many commands share the session.
func (s *Session) EnsureLoggedOn(ctx context.Context) error {
	if s.SessionID() != "" {
		return nil
	}
	s.logonOnce.Do(func() {
		s.logonErr = s.logon(ctx)
	})
	return s.logonErr
}

func (s *Session) logon(ctx context.Context) error {
	if s.userid == "" || s.password == "" {
		return &AuthError{
			Message: "no HMC userid and password provided for logon",
		}
	}
	s.apiLog.Debug().Str("host", s.host).Str("userid", s.userid).
		Msg("session logon")
	body := map[string]any{
		"userid":   s.userid,
		"password": s.password,
	}
	result, err := s.request(ctx, http.MethodPost, "/api/sessions", body, false)
	if err != nil {
		return err
	}
	id, _ := result["api-session"].(string)
	if id == "" {
		return &ParseError{
			Message: "logon response without api-session property",
		}
	}
	s.sessionID.Store(id)
	return nil
}

// Logoff invalidates the session on the HMC. It is a no-op for sessions
// that never logged on.
func (s *Session) Logoff(ctx context.Context) error {
	if s.SessionID() == "" {
		return nil
	}
	s.apiLog.Debug().Str("host", s.host).Msg("session logoff")
	_, err := s.request(
		ctx, http.MethodDelete, "/api/sessions/this-session", nil, true)
	if err != nil {
		return err
	}
	s.sessionID.Store("")
	return nil
}
