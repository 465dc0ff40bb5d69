package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/openzhmc/zhmc/internal/client"
	"github.com/openzhmc/zhmc/internal/config"
	"github.com/openzhmc/zhmc/internal/logging"
	"github.com/openzhmc/zhmc/internal/output"
)

// Error message formats for the --error-format general option.
const (
	ErrorFormatMsg = "msg"
	ErrorFormatDef = "def"
)

// CmdContext carries the resolved general options and the shared HMC
// session through all commands of one invocation. It is populated once
// by the root command and read-only afterwards, except for the lazily
// created session.
type CmdContext struct {
	Logon        *config.LogonData
	OutputFormat output.Format
	Transpose    bool
	ErrorFormat  string
	Timestats    bool
	InRepl       bool

	Out io.Writer
	Err io.Writer

	session *client.Session
}

// NewCmdContext returns a context writing to the standard streams.
func NewCmdContext() *CmdContext {
	return &CmdContext{
		OutputFormat: output.FormatTable,
		ErrorFormat:  ErrorFormatMsg,
		Out:          os.Stdout,
		Err:          os.Stderr,
	}
}

// Session returns the shared HMC session, creating it on first use. The
// actual logon happens lazily inside the session, and at most once per
// process.
func (c *CmdContext) Session() (*client.Session, error) {
	if c.session != nil {
		return c.session, nil
	}
	if c.Logon == nil || c.Logon.Host == "" {
		return nil, &client.AuthError{
			Message: "no HMC host provided (--host option or ZHMC_HOST variable)",
		}
	}
	s, err := client.NewSession(
		c.Logon.Host, c.Logon.Userid, c.Logon.Password, c.Logon.SessionID,
		client.VerifyPolicy{
			NoVerify: c.Logon.NoVerify,
			CACerts:  c.Logon.CACerts,
		})
	if err != nil {
		return nil, err
	}
	c.session = s
	return s, nil
}

// Execute runs an HMC command body with the shared session and, with -t,
// reports how many HMC requests it issued and how long it took.
func (c *CmdContext) Execute(fn func(ctx context.Context, s *client.Session) error) error {
	s, err := c.Session()
	if err != nil {
		return err
	}
	before := s.RequestCount()
	start := time.Now()

	err = fn(context.Background(), s)

	if c.Timestats {
		elapsed := time.Since(start)
		requests := s.RequestCount() - before
		fmt.Fprintf(c.Out, "%d HMC requests in %.3f s\n",
			requests, elapsed.Seconds())
	}
	return err
}

// ReleaseSession logs off the shared session when this invocation
// created it by logging on. Sessions adopted from ZHMC_SESSION_ID stay
// valid for later invocations, and a session that already logged off
// is left alone.
func (c *CmdContext) ReleaseSession(ctx context.Context) {
	if c.session == nil || c.session.Adopted() || c.session.SessionID() == "" {
		return
	}
	if err := c.session.Logoff(ctx); err != nil {
		lg := logging.Component(logging.ComponentAPI)
		lg.Warn().Err(err).Msg("logoff at command end failed")
	}
}

// FormatError renders an error in the selected error format: a short
// human-readable message, or the machine-parsable definition string.
func (c *CmdContext) FormatError(err error) string {
	if c.ErrorFormat == ErrorFormatDef {
		if derr, ok := err.(client.Error); ok {
			return derr.Def()
		}
		return fmt.Sprintf("classname=%q; message=%q",
			fmt.Sprintf("%T", err), err.Error())
	}
	return "Error: " + err.Error()
}

// render writes a record set in the selected output format.
func (c *CmdContext) render(rs *output.RecordSet) error {
	return output.Render(c.Out, rs, c.OutputFormat, c.Transpose)
}

// renderProperties writes a single resource's properties.
func (c *CmdContext) renderProperties(props output.Record) error {
	return output.RenderProperties(c.Out, props, c.OutputFormat, c.Transpose)
}
