package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/openzhmc/zhmc/internal/client"
)

var lparListColumns = []string{
	"name",
	"status",
	"activation-mode",
	"os-type",
	"os-name",
	"description",
}

// findLparURI locates a logical partition by name within a CPC in
// classic mode.
func findLparURI(ctx context.Context, s *client.Session, cpc, name string) (string, error) {
	cpcURI, err := findCpcURI(ctx, s, cpc)
	if err != nil {
		return "", err
	}
	return findURIByName(ctx, s, cpcURI+"/logical-partitions",
		"logical-partitions", "LPAR", name)
}

func newLparCmd(cctx *CmdContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lpar",
		Short: "Commands for LPARs of CPCs in classic mode",
	}
	cmd.AddCommand(newLparListCmd(cctx))
	cmd.AddCommand(newLparShowCmd(cctx))
	cmd.AddCommand(newLparUpdateCmd(cctx))
	cmd.AddCommand(newLparActivateCmd(cctx))
	cmd.AddCommand(newLparDeactivateCmd(cctx))
	cmd.AddCommand(newLparLoadCmd(cctx))
	return cmd
}

func newLparListCmd(cctx *CmdContext) *cobra.Command {
	var opts listOptions
	cmd := &cobra.Command{
		Use:   "list CPC",
		Short: "List the LPARs of a CPC",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.Execute(func(ctx context.Context, s *client.Session) error {
				cpcURI, err := findCpcURI(ctx, s, args[0])
				if err != nil {
					return err
				}
				return cctx.listResources(ctx, s, cpcURI+"/logical-partitions",
					"logical-partitions", lparListColumns, opts)
			})
		},
	}
	addListFlags(cmd, &opts)
	return cmd
}

func newLparShowCmd(cctx *CmdContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show CPC LPAR",
		Short: "Show the properties of an LPAR",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.Execute(func(ctx context.Context, s *client.Session) error {
				uri, err := findLparURI(ctx, s, args[0], args[1])
				if err != nil {
					return err
				}
				return cctx.showResource(ctx, s, uri)
			})
		},
	}
}

func newLparUpdateCmd(cctx *CmdContext) *cobra.Command {
	var opts propOptions
	cmd := &cobra.Command{
		Use:   "update CPC LPAR",
		Short: "Update the properties of an LPAR",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			props, err := opts.parse()
			if err != nil {
				return err
			}
			return cctx.Execute(func(ctx context.Context, s *client.Session) error {
				uri, err := findLparURI(ctx, s, args[0], args[1])
				if err != nil {
					return err
				}
				return cctx.updateResource(ctx, s, uri, "LPAR", args[1], props)
			})
		},
	}
	addPropFlags(cmd, &opts)
	return cmd
}

func newLparActivateCmd(cctx *CmdContext) *cobra.Command {
	var profile string
	cmd := &cobra.Command{
		Use:   "activate CPC LPAR",
		Short: "Activate an LPAR",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.Execute(func(ctx context.Context, s *client.Session) error {
				uri, err := findLparURI(ctx, s, args[0], args[1])
				if err != nil {
					return err
				}
				var body map[string]any
				if profile != "" {
					body = map[string]any{"activation-profile-name": profile}
				}
				if err := cctx.action(ctx, s, uri, "activate", body); err != nil {
					return err
				}
				return cctx.reportAction("LPAR", args[1], "activated")
			})
		},
	}
	cmd.Flags().StringVar(&profile, "activation-profile", "",
		"Name of the image activation profile to use")
	return cmd
}

func newLparDeactivateCmd(cctx *CmdContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deactivate CPC LPAR",
		Short: "Deactivate an LPAR",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.Execute(func(ctx context.Context, s *client.Session) error {
				uri, err := findLparURI(ctx, s, args[0], args[1])
				if err != nil {
					return err
				}
				body := map[string]any{"force": true}
				if err := cctx.action(ctx, s, uri, "deactivate", body); err != nil {
					return err
				}
				return cctx.reportAction("LPAR", args[1], "deactivated")
			})
		},
	}
}

func newLparLoadCmd(cctx *CmdContext) *cobra.Command {
	return &cobra.Command{
		Use:   "load CPC LPAR [LOAD-ADDRESS]",
		Short: "Load (boot) an LPAR from a load address",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.Execute(func(ctx context.Context, s *client.Session) error {
				uri, err := findLparURI(ctx, s, args[0], args[1])
				if err != nil {
					return err
				}
				var body map[string]any
				if len(args) == 3 {
					body = map[string]any{"load-address": args[2]}
				}
				if err := cctx.action(ctx, s, uri, "load", body); err != nil {
					return err
				}
				return cctx.reportAction("LPAR", args[1], "loaded")
			})
		},
	}
}
