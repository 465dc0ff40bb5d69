package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/openzhmc/zhmc/internal/client"
)

var nicListColumns = []string{
	"name",
	"type",
	"device-number",
	"description",
}

func findNicURI(ctx context.Context, s *client.Session, cpc, partition, name string) (string, error) {
	_, uris, err := partitionElementURIs(ctx, s, cpc, partition, "nic-uris")
	if err != nil {
		return "", err
	}
	return findElementURI(ctx, s, uris, "NIC", name)
}

func newNicCmd(cctx *CmdContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nic",
		Short: "Commands for NICs of partitions",
	}
	cmd.AddCommand(newNicListCmd(cctx))
	cmd.AddCommand(newNicShowCmd(cctx))
	cmd.AddCommand(newNicCreateCmd(cctx))
	cmd.AddCommand(newNicUpdateCmd(cctx))
	cmd.AddCommand(newNicDeleteCmd(cctx))
	return cmd
}

func newNicListCmd(cctx *CmdContext) *cobra.Command {
	var opts listOptions
	cmd := &cobra.Command{
		Use:   "list CPC PARTITION",
		Short: "List the NICs of a partition",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.Execute(func(ctx context.Context, s *client.Session) error {
				_, uris, err := partitionElementURIs(ctx, s, args[0], args[1], "nic-uris")
				if err != nil {
					return err
				}
				return cctx.listElements(ctx, s, uris, nicListColumns, opts)
			})
		},
	}
	addListFlags(cmd, &opts)
	return cmd
}

func newNicShowCmd(cctx *CmdContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show CPC PARTITION NIC",
		Short: "Show the properties of a NIC",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.Execute(func(ctx context.Context, s *client.Session) error {
				uri, err := findNicURI(ctx, s, args[0], args[1], args[2])
				if err != nil {
					return err
				}
				return cctx.showResource(ctx, s, uri)
			})
		},
	}
}

func newNicCreateCmd(cctx *CmdContext) *cobra.Command {
	var opts propOptions
	cmd := &cobra.Command{
		Use:   "create CPC PARTITION",
		Short: "Create a NIC in a partition",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			props, err := opts.parse()
			if err != nil {
				return err
			}
			return cctx.Execute(func(ctx context.Context, s *client.Session) error {
				partURI, err := findPartitionURI(ctx, s, args[0], args[1])
				if err != nil {
					return err
				}
				name, _ := props["name"].(string)
				return cctx.createResource(ctx, s, partURI+"/nics", "NIC", name, props)
			})
		},
	}
	addPropFlags(cmd, &opts)
	return cmd
}

func newNicUpdateCmd(cctx *CmdContext) *cobra.Command {
	var opts propOptions
	cmd := &cobra.Command{
		Use:   "update CPC PARTITION NIC",
		Short: "Update the properties of a NIC",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			props, err := opts.parse()
			if err != nil {
				return err
			}
			return cctx.Execute(func(ctx context.Context, s *client.Session) error {
				uri, err := findNicURI(ctx, s, args[0], args[1], args[2])
				if err != nil {
					return err
				}
				return cctx.updateResource(ctx, s, uri, "NIC", args[2], props)
			})
		},
	}
	addPropFlags(cmd, &opts)
	return cmd
}

func newNicDeleteCmd(cctx *CmdContext) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete CPC PARTITION NIC",
		Short: "Delete a NIC",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.Execute(func(ctx context.Context, s *client.Session) error {
				uri, err := findNicURI(ctx, s, args[0], args[1], args[2])
				if err != nil {
					return err
				}
				return cctx.deleteResource(ctx, s, uri, "NIC", args[2], yes)
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}
