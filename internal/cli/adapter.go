package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/openzhmc/zhmc/internal/client"
)

var adapterListColumns = []string{
	"name",
	"adapter-id",
	"status",
	"state",
	"type",
	"detected-card-type",
	"card-location",
	"description",
}

// findAdapterURI locates an adapter by name within a CPC.
func findAdapterURI(ctx context.Context, s *client.Session, cpc, name string) (string, error) {
	cpcURI, err := findCpcURI(ctx, s, cpc)
	if err != nil {
		return "", err
	}
	return findURIByName(ctx, s, cpcURI+"/adapters", "adapters", "adapter", name)
}

func newAdapterCmd(cctx *CmdContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "adapter",
		Short: "Commands for adapters of CPCs in DPM mode",
	}
	cmd.AddCommand(newAdapterListCmd(cctx))
	cmd.AddCommand(newAdapterShowCmd(cctx))
	cmd.AddCommand(newAdapterCreateCmd(cctx))
	cmd.AddCommand(newAdapterUpdateCmd(cctx))
	cmd.AddCommand(newAdapterDeleteCmd(cctx))
	return cmd
}

func newAdapterListCmd(cctx *CmdContext) *cobra.Command {
	var opts listOptions
	cmd := &cobra.Command{
		Use:   "list CPC",
		Short: "List the adapters of a CPC",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.Execute(func(ctx context.Context, s *client.Session) error {
				cpcURI, err := findCpcURI(ctx, s, args[0])
				if err != nil {
					return err
				}
				return cctx.listResources(ctx, s, cpcURI+"/adapters",
					"adapters", adapterListColumns, opts)
			})
		},
	}
	addListFlags(cmd, &opts)
	return cmd
}

func newAdapterShowCmd(cctx *CmdContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show CPC ADAPTER",
		Short: "Show the properties of an adapter",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.Execute(func(ctx context.Context, s *client.Session) error {
				uri, err := findAdapterURI(ctx, s, args[0], args[1])
				if err != nil {
					return err
				}
				return cctx.showResource(ctx, s, uri)
			})
		},
	}
}

// Only HiperSockets adapters can be created and deleted; physical
// adapters exist as long as their card is installed.
func newAdapterCreateCmd(cctx *CmdContext) *cobra.Command {
	var opts propOptions
	cmd := &cobra.Command{
		Use:   "create CPC",
		Short: "Create a HiperSockets adapter in a CPC",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			props, err := opts.parse()
			if err != nil {
				return err
			}
			return cctx.Execute(func(ctx context.Context, s *client.Session) error {
				cpcURI, err := findCpcURI(ctx, s, args[0])
				if err != nil {
					return err
				}
				name, _ := props["name"].(string)
				return cctx.createResource(ctx, s, cpcURI+"/adapters",
					"adapter", name, props)
			})
		},
	}
	addPropFlags(cmd, &opts)
	return cmd
}

func newAdapterDeleteCmd(cctx *CmdContext) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete CPC ADAPTER",
		Short: "Delete a HiperSockets adapter",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.Execute(func(ctx context.Context, s *client.Session) error {
				uri, err := findAdapterURI(ctx, s, args[0], args[1])
				if err != nil {
					return err
				}
				return cctx.deleteResource(ctx, s, uri, "adapter", args[1], yes)
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func newAdapterUpdateCmd(cctx *CmdContext) *cobra.Command {
	var opts propOptions
	cmd := &cobra.Command{
		Use:   "update CPC ADAPTER",
		Short: "Update the properties of an adapter",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			props, err := opts.parse()
			if err != nil {
				return err
			}
			return cctx.Execute(func(ctx context.Context, s *client.Session) error {
				uri, err := findAdapterURI(ctx, s, args[0], args[1])
				if err != nil {
					return err
				}
				return cctx.updateResource(ctx, s, uri, "adapter", args[1], props)
			})
		},
	}
	addPropFlags(cmd, &opts)
	return cmd
}
