package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/openzhmc/zhmc/internal/logging"
)

const replPrompt = "zhmc> "

const replHelp = `The interactive shell accepts:
  <command> [options]   zhmc command, as in command mode (try 'help')
  :help, :?             show this help
  :q, :quit, :exit      leave the interactive shell
  !<command>            run a command in the host shell
`

func newReplCmd(cctx *CmdContext) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Enter the interactive shell",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepl(cctx)
		},
	}
}

// runRepl reads lines until an exit built-in or end of input. Each line
// is either a shell built-in, a host shell escape, or a zhmc command
// re-dispatched against the shared session. Errors end only the current
// line. History is kept in memory for this invocation only.
func runRepl(cctx *CmdContext) error {
	if cctx.InRepl {
		return fmt.Errorf("already in interactive mode")
	}
	cctx.InRepl = true
	defer func() { cctx.InRepl = false }()

	conLog := logging.Component(logging.ComponentConsole)
	conLog.Info().Msg("entering interactive mode")

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		HistoryLimit:    1000,
		InterruptPrompt: "^C",
		EOFPrompt:       "",
	})
	if err != nil {
		return fmt.Errorf("initialize line reader: %w", err)
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
				conLog.Info().Msg("leaving interactive mode")
				return nil
			}
			return fmt.Errorf("read input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, ":"):
			if replBuiltin(cctx, line) {
				conLog.Info().Msg("leaving interactive mode")
				return nil
			}
		case strings.HasPrefix(line, "!"):
			hostCommand(cctx, strings.TrimSpace(line[1:]))
		default:
			dispatchLine(cctx, line)
		}
	}
}

// replBuiltin executes a ':' built-in; it returns true when the shell
// should exit.
func replBuiltin(cctx *CmdContext, line string) bool {
	switch line {
	case ":q", ":quit", ":exit":
		return true
	case ":help", ":?":
		fmt.Fprint(cctx.Out, replHelp)
	default:
		fmt.Fprintf(cctx.Err, "Unknown shell command: %s (try :help)\n", line)
	}
	return false
}

// hostCommand passes a '!' line to the host shell. It is never tokenized
// as a zhmc command.
func hostCommand(cctx *CmdContext, command string) {
	if command == "" {
		return
	}
	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "/bin/sh"
	}
	cmd := exec.Command(shell, "-c", command)
	cmd.Stdin = os.Stdin
	cmd.Stdout = cctx.Out
	cmd.Stderr = cctx.Err
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintln(cctx.Err, cctx.FormatError(err))
		}
	}
}

// dispatchLine tokenizes a line and runs it as a fresh command-mode
// invocation sharing the already-resolved session. General options
// given on the line apply to that line only.
func dispatchLine(cctx *CmdContext, line string) {
	args, err := splitLine(line)
	if err != nil {
		fmt.Fprintln(cctx.Err, cctx.FormatError(err))
		return
	}
	outputFormat := cctx.OutputFormat
	transpose := cctx.Transpose
	errorFormat := cctx.ErrorFormat
	timestats := cctx.Timestats
	defer func() {
		cctx.OutputFormat = outputFormat
		cctx.Transpose = transpose
		cctx.ErrorFormat = errorFormat
		cctx.Timestats = timestats
	}()
	root := NewRootCmd(cctx)
	root.SetArgs(args)
	root.SetOut(cctx.Out)
	root.SetErr(cctx.Err)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(cctx.Err, cctx.FormatError(err))
	}
}

// splitLine splits a command line into tokens, honoring single and
// double quotes and backslash escapes outside single quotes.
func splitLine(line string) ([]string, error) {
	var (
		args    []string
		cur     strings.Builder
		inToken bool
		quote   byte
	)
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case quote == '\'':
			if c == '\'' {
				quote = 0
			} else {
				cur.WriteByte(c)
			}
		case c == '\\' && quote != '\'':
			i++
			if i >= len(line) {
				return nil, fmt.Errorf("trailing backslash in input line")
			}
			inToken = true
			cur.WriteByte(line[i])
		case quote == '"':
			if c == '"' {
				quote = 0
			} else {
				cur.WriteByte(c)
			}
		case c == '\'' || c == '"':
			quote = c
			inToken = true
		case c == ' ' || c == '\t':
			if inToken {
				args = append(args, cur.String())
				cur.Reset()
				inToken = false
			}
		default:
			inToken = true
			cur.WriteByte(c)
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unclosed quote in input line")
	}
	if inToken {
		args = append(args, cur.String())
	}
	return args, nil
}
