package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/openzhmc/zhmc/internal/client"
)

var vswitchListColumns = []string{
	"name",
	"type",
	"description",
}

func findVswitchURI(ctx context.Context, s *client.Session, cpc, name string) (string, error) {
	cpcURI, err := findCpcURI(ctx, s, cpc)
	if err != nil {
		return "", err
	}
	return findURIByName(ctx, s, cpcURI+"/virtual-switches",
		"virtual-switches", "virtual switch", name)
}

func newVswitchCmd(cctx *CmdContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vswitch",
		Short: "Commands for virtual switches of CPCs in DPM mode",
	}
	cmd.AddCommand(newVswitchListCmd(cctx))
	cmd.AddCommand(newVswitchShowCmd(cctx))
	cmd.AddCommand(newVswitchUpdateCmd(cctx))
	return cmd
}

func newVswitchListCmd(cctx *CmdContext) *cobra.Command {
	var opts listOptions
	cmd := &cobra.Command{
		Use:   "list CPC",
		Short: "List the virtual switches of a CPC",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.Execute(func(ctx context.Context, s *client.Session) error {
				cpcURI, err := findCpcURI(ctx, s, args[0])
				if err != nil {
					return err
				}
				return cctx.listResources(ctx, s, cpcURI+"/virtual-switches",
					"virtual-switches", vswitchListColumns, opts)
			})
		},
	}
	addListFlags(cmd, &opts)
	return cmd
}

func newVswitchShowCmd(cctx *CmdContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show CPC VSWITCH",
		Short: "Show the properties of a virtual switch",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.Execute(func(ctx context.Context, s *client.Session) error {
				uri, err := findVswitchURI(ctx, s, args[0], args[1])
				if err != nil {
					return err
				}
				return cctx.showResource(ctx, s, uri)
			})
		},
	}
}

func newVswitchUpdateCmd(cctx *CmdContext) *cobra.Command {
	var opts propOptions
	cmd := &cobra.Command{
		Use:   "update CPC VSWITCH",
		Short: "Update the properties of a virtual switch",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			props, err := opts.parse()
			if err != nil {
				return err
			}
			return cctx.Execute(func(ctx context.Context, s *client.Session) error {
				uri, err := findVswitchURI(ctx, s, args[0], args[1])
				if err != nil {
					return err
				}
				return cctx.updateResource(ctx, s, uri, "virtual switch", args[1], props)
			})
		},
	}
	addPropFlags(cmd, &opts)
	return cmd
}
