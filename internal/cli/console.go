package cli

import (
	"context"
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/openzhmc/zhmc/internal/client"
	"github.com/openzhmc/zhmc/internal/output"
)

const consoleURI = "/api/console"

var logItemColumns = []string{
	"event-time",
	"event-name",
	"event-id",
	"userid",
	"event-message",
}

func newConsoleCmd(cctx *CmdContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "console",
		Short: "Commands for the HMC itself",
	}
	cmd.AddCommand(newConsoleShowCmd(cctx))
	cmd.AddCommand(newConsoleRestartCmd(cctx))
	cmd.AddCommand(newConsoleLogCmd(cctx, "get-audit-log",
		"Show the audit log of the HMC"))
	cmd.AddCommand(newConsoleLogCmd(cctx, "get-security-log",
		"Show the security log of the HMC"))
	return cmd
}

func newConsoleShowCmd(cctx *CmdContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the properties of the HMC",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.Execute(func(ctx context.Context, s *client.Session) error {
				return cctx.showResource(ctx, s, consoleURI)
			})
		},
	}
}

func newConsoleRestartCmd(cctx *CmdContext) *cobra.Command {
	var force, yes bool
	cmd := &cobra.Command{
		Use:   "restart",
		Short: "Restart the HMC",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.Execute(func(ctx context.Context, s *client.Session) error {
				if !cctx.confirm(yes, "Are you sure you want to restart the HMC?") {
					fmt.Fprintln(cctx.Out, "Aborted.")
					return nil
				}
				body := map[string]any{"force": force}
				if err := cctx.action(ctx, s, consoleURI, "restart", body); err != nil {
					return err
				}
				fmt.Fprintln(cctx.Out, "The HMC is restarting.")
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&force, "force", false,
		"Restart even when users are logged on")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

// newConsoleLogCmd builds the audit log and security log commands,
// which differ only in the operation name.
func newConsoleLogCmd(cctx *CmdContext, op, short string) *cobra.Command {
	var begin, end string
	cmd := &cobra.Command{
		Use:   op,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.Execute(func(ctx context.Context, s *client.Session) error {
				query := url.Values{}
				if begin != "" {
					query.Set("begin-time", begin)
				}
				if end != "" {
					query.Set("end-time", end)
				}
				uri := consoleURI + "/operations/" + op
				if len(query) > 0 {
					uri += "?" + query.Encode()
				}
				resp, err := s.Get(ctx, uri)
				if err != nil {
					return err
				}
				items, _ := resp["log-items"].([]any)
				rs := output.NewRecordSet(logItemColumns...)
				for _, item := range items {
					props, ok := item.(map[string]any)
					if !ok {
						continue
					}
					rec := output.Record{}
					for _, col := range logItemColumns {
						rec[col] = props[col]
					}
					rs.Append(rec)
				}
				return cctx.render(rs)
			})
		},
	}
	cmd.Flags().StringVar(&begin, "begin-time", "",
		"Begin of the time range, as an HMC timestamp")
	cmd.Flags().StringVar(&end, "end-time", "",
		"End of the time range, as an HMC timestamp")
	return cmd
}
