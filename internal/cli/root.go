package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/openzhmc/zhmc/internal/config"
	"github.com/openzhmc/zhmc/internal/logging"
	"github.com/openzhmc/zhmc/internal/output"
)

// Version of the zhmc command, overridable at build time.
var Version = "0.1.0"

// NewRootCmd builds the root cobra.Command for the zhmc CLI, bound to a
// shared CmdContext. The REPL creates a fresh root per input line bound
// to the same context, so flag defaults come from the context's current
// values.
func NewRootCmd(cctx *CmdContext) *cobra.Command {
	var (
		flags          config.Flags
		outputFormat   = string(cctx.OutputFormat)
		transpose      = cctx.Transpose
		errorFormat    = cctx.ErrorFormat
		timestats      = cctx.Timestats
		logSpec        string
		logDest        = logging.DestStderr
		syslogFacility = "user"
	)

	root := &cobra.Command{
		Use:     "zhmc",
		Short:   "Command line interface for the IBM Z HMC",
		Version: Version,
		Long: "zhmc is a command line client for the Web Services API of the " +
			"IBM Z Hardware Management Console (HMC). Without a sub-command, " +
			"it enters an interactive shell that shares one HMC session " +
			"across all commands.",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			format, err := output.ParseFormat(outputFormat)
			if err != nil {
				return err
			}
			cctx.OutputFormat = format
			if errorFormat != ErrorFormatMsg && errorFormat != ErrorFormatDef {
				return fmt.Errorf(
					"invalid error format %q: must be msg or def", errorFormat)
			}
			cctx.ErrorFormat = errorFormat
			cctx.Transpose = transpose
			cctx.Timestats = timestats

			if !cctx.InRepl {
				if err := logging.Setup(logSpec, logDest, syslogFacility); err != nil {
					return err
				}
			}

			// The REPL keeps the session that was resolved when the
			// process started; connection flags only matter on the
			// first resolution.
			if cctx.Logon == nil {
				flags.NoVerifySet = cmd.Flags().Changed("no-verify")
				logon, err := config.Resolve(flags)
				if err != nil {
					return err
				}
				cctx.Logon = logon
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return runRepl(cctx)
			}
			return fmt.Errorf("unknown command: %s", args[0])
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.Host, "host", "h", "",
		"Hostname or IP address of the HMC (default: ZHMC_HOST variable)")
	pf.StringVarP(&flags.Userid, "userid", "u", "",
		"Userid on the HMC (default: ZHMC_USERID variable)")
	pf.StringVarP(&flags.Password, "password", "p", "",
		"Password of the HMC userid (default: ZHMC_PASSWORD variable)")
	pf.BoolVarP(&flags.NoVerify, "no-verify", "n", false,
		"Do not verify the HMC certificate (default: ZHMC_NO_VERIFY variable)")
	pf.StringVarP(&flags.CACerts, "ca-certs", "c", "",
		"Path of a CA certificate bundle (default: ZHMC_CA_CERTS, "+
			"REQUESTS_CA_BUNDLE or CURL_CA_BUNDLE variables)")
	pf.StringVarP(&outputFormat, "output-format", "o", outputFormat,
		"Output format: table|plain|simple|psql|rst|mediawiki|html|latex|json|csv")
	pf.BoolVarP(&transpose, "transpose", "x", transpose,
		"Transpose the output table")
	pf.StringVarP(&errorFormat, "error-format", "e", errorFormat,
		"Error message format: msg|def")
	pf.BoolVarP(&timestats, "timestats", "t", timestats,
		"Show time statistics of HMC operations")
	pf.StringVar(&logSpec, "log", "",
		"Enable logging (COMP=LEVEL,...; components: api, hmc, console, all; "+
			"levels: error, warning, info, debug)")
	pf.StringVar(&logDest, "log-dest", logDest,
		"Log destination: stderr|syslog|none")
	pf.StringVar(&syslogFacility, "syslog-facility", syslogFacility,
		"Syslog facility: user|local0..local7")

	// --host owns the -h shorthand, so help has no shorthand.
	pf.Bool("help", false, "Show help")

	root.AddCommand(
		newInfoCmd(cctx),
		newSessionCmd(cctx),
		newReplCmd(cctx),
		newCpcCmd(cctx),
		newPartitionCmd(cctx),
		newLparCmd(cctx),
		newAdapterCmd(cctx),
		newPortCmd(cctx),
		newNicCmd(cctx),
		newHbaCmd(cctx),
		newVswitchCmd(cctx),
		newVfunctionCmd(cctx),
		newStorageGroupCmd(cctx),
		newStorageVolumeCmd(cctx),
		newVstorageResourceCmd(cctx),
		newCapacityGroupCmd(cctx),
		newUserCmd(cctx),
		newUserRoleCmd(cctx),
		newPasswordRuleCmd(cctx),
		newConsoleCmd(cctx),
		newMetricsCmd(cctx),
	)

	return root
}

// Execute runs the root command and exits non-zero on error, with the
// message on stderr in the selected error format. A session that the
// invocation logged on itself is logged off before the process ends.
func Execute() {
	cctx := NewCmdContext()
	root := NewRootCmd(cctx)
	err := root.Execute()
	cctx.ReleaseSession(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, cctx.FormatError(err))
		os.Exit(1)
	}
}
