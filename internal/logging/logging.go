// Package logging configures the diagnostic loggers of the zhmc command.
//
// Logging is specified as a comma-separated list of COMP=LEVEL pairs
// (--log api=debug,hmc=info) and a destination (--log-dest). Components
// that are not named stay disabled. Each component logger carries a
// "component" field so destinations shared by components stay readable.
package logging

import (
	"fmt"
	"io"
	"log/syslog"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Log components.
const (
	ComponentAPI     = "api"     // API calls made by this client
	ComponentHMC     = "hmc"     // HTTP interactions with the HMC
	ComponentConsole = "console" // interactive console sessions
	ComponentAll     = "all"
)

// Log destinations.
const (
	DestStderr = "stderr"
	DestSyslog = "syslog"
	DestNone   = "none"
)

var components = []string{ComponentAPI, ComponentHMC, ComponentConsole}

var levels = map[string]zerolog.Level{
	"error":   zerolog.ErrorLevel,
	"warning": zerolog.WarnLevel,
	"info":    zerolog.InfoLevel,
	"debug":   zerolog.DebugLevel,
}

var facilities = map[string]syslog.Priority{
	"user":   syslog.LOG_USER,
	"local0": syslog.LOG_LOCAL0,
	"local1": syslog.LOG_LOCAL1,
	"local2": syslog.LOG_LOCAL2,
	"local3": syslog.LOG_LOCAL3,
	"local4": syslog.LOG_LOCAL4,
	"local5": syslog.LOG_LOCAL5,
	"local6": syslog.LOG_LOCAL6,
	"local7": syslog.LOG_LOCAL7,
}

// loggers holds the configured component loggers. Components without an
// entry log at the disabled level. Written once during Setup, read-only
// afterwards.
var loggers = map[string]zerolog.Logger{}

// Setup parses a log specification and configures the component loggers.
// spec is "COMP=LEVEL,..." and may be empty (all logging off). When the
// syslog transport cannot be opened the destination discards instead of
// failing the command.
func Setup(spec, dest, facility string) error {
	levelsBySpec, err := parseSpec(spec)
	if err != nil {
		return err
	}

	var w io.Writer
	switch dest {
	case DestStderr, "":
		w = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	case DestNone:
		w = io.Discard
	case DestSyslog:
		prio, ok := facilities[facility]
		if !ok {
			return fmt.Errorf("invalid syslog facility: %s", facility)
		}
		sw, err := syslog.New(prio|syslog.LOG_INFO, "zhmc")
		if err != nil {
			w = io.Discard
		} else {
			w = zerolog.SyslogLevelWriter(sw)
		}
	default:
		return fmt.Errorf("invalid log destination: %s", dest)
	}

	loggers = map[string]zerolog.Logger{}
	for comp, level := range levelsBySpec {
		loggers[comp] = zerolog.New(w).Level(level).With().
			Timestamp().Str("component", comp).Logger()
	}
	return nil
}

// Component returns the logger for a component, or a disabled logger if
// the component was not configured.
func Component(name string) zerolog.Logger {
	if lg, ok := loggers[name]; ok {
		return lg
	}
	return zerolog.Nop()
}

func parseSpec(spec string) (map[string]zerolog.Level, error) {
	result := map[string]zerolog.Level{}
	if spec == "" {
		return result, nil
	}
	for _, pair := range strings.Split(spec, ",") {
		comp, levelName, found := strings.Cut(strings.TrimSpace(pair), "=")
		if !found {
			return nil, fmt.Errorf(
				"invalid log spec %q: expected COMP=LEVEL", pair)
		}
		comp = strings.ToLower(strings.TrimSpace(comp))
		level, ok := levels[strings.ToLower(strings.TrimSpace(levelName))]
		if !ok {
			return nil, fmt.Errorf(
				"invalid log level in %q: must be one of error, warning, info, debug",
				pair)
		}
		if comp == ComponentAll {
			for _, c := range components {
				result[c] = level
			}
			continue
		}
		valid := false
		for _, c := range components {
			if comp == c {
				valid = true
				break
			}
		}
		if !valid {
			return nil, fmt.Errorf(
				"invalid log component in %q: must be one of api, hmc, console, all",
				pair)
		}
		result[comp] = level
	}
	return result, nil
}
