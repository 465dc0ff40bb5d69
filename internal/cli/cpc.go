package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/openzhmc/zhmc/internal/client"
)

const cpcsURI = "/api/cpcs"

var cpcListColumns = []string{
	"name",
	"status",
	"dpm-enabled",
	"se-version",
	"machine-type",
	"machine-model",
	"machine-serial-number",
	"description",
}

// findCpcURI locates a CPC by name and returns its object URI.
func findCpcURI(ctx context.Context, s *client.Session, name string) (string, error) {
	return findURIByName(ctx, s, cpcsURI, "cpcs", "CPC", name)
}

func newCpcCmd(cctx *CmdContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cpc",
		Short: "Commands for CPCs",
	}
	cmd.AddCommand(newCpcListCmd(cctx))
	cmd.AddCommand(newCpcShowCmd(cctx))
	cmd.AddCommand(newCpcUpdateCmd(cctx))
	return cmd
}

func newCpcListCmd(cctx *CmdContext) *cobra.Command {
	var opts listOptions
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the CPCs managed by the HMC",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.Execute(func(ctx context.Context, s *client.Session) error {
				return cctx.listResources(ctx, s, cpcsURI, "cpcs", cpcListColumns, opts)
			})
		},
	}
	addListFlags(cmd, &opts)
	return cmd
}

func newCpcShowCmd(cctx *CmdContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show CPC",
		Short: "Show the properties of a CPC",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.Execute(func(ctx context.Context, s *client.Session) error {
				uri, err := findCpcURI(ctx, s, args[0])
				if err != nil {
					return err
				}
				return cctx.showResource(ctx, s, uri)
			})
		},
	}
}

func newCpcUpdateCmd(cctx *CmdContext) *cobra.Command {
	var opts propOptions
	cmd := &cobra.Command{
		Use:   "update CPC",
		Short: "Update the properties of a CPC",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			props, err := opts.parse()
			if err != nil {
				return err
			}
			return cctx.Execute(func(ctx context.Context, s *client.Session) error {
				uri, err := findCpcURI(ctx, s, args[0])
				if err != nil {
					return err
				}
				return cctx.updateResource(ctx, s, uri, "CPC", args[0], props)
			})
		},
	}
	addPropFlags(cmd, &opts)
	return cmd
}
