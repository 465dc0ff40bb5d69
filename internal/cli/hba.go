package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/openzhmc/zhmc/internal/client"
)

var hbaListColumns = []string{
	"name",
	"device-number",
	"wwpn",
	"description",
}

func findHbaURI(ctx context.Context, s *client.Session, cpc, partition, name string) (string, error) {
	_, uris, err := partitionElementURIs(ctx, s, cpc, partition, "hba-uris")
	if err != nil {
		return "", err
	}
	return findElementURI(ctx, s, uris, "HBA", name)
}

func newHbaCmd(cctx *CmdContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hba",
		Short: "Commands for HBAs of partitions",
	}
	cmd.AddCommand(newHbaListCmd(cctx))
	cmd.AddCommand(newHbaShowCmd(cctx))
	cmd.AddCommand(newHbaCreateCmd(cctx))
	cmd.AddCommand(newHbaUpdateCmd(cctx))
	cmd.AddCommand(newHbaDeleteCmd(cctx))
	return cmd
}

func newHbaListCmd(cctx *CmdContext) *cobra.Command {
	var opts listOptions
	cmd := &cobra.Command{
		Use:   "list CPC PARTITION",
		Short: "List the HBAs of a partition",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.Execute(func(ctx context.Context, s *client.Session) error {
				_, uris, err := partitionElementURIs(ctx, s, args[0], args[1], "hba-uris")
				if err != nil {
					return err
				}
				return cctx.listElements(ctx, s, uris, hbaListColumns, opts)
			})
		},
	}
	addListFlags(cmd, &opts)
	return cmd
}

func newHbaShowCmd(cctx *CmdContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show CPC PARTITION HBA",
		Short: "Show the properties of an HBA",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.Execute(func(ctx context.Context, s *client.Session) error {
				uri, err := findHbaURI(ctx, s, args[0], args[1], args[2])
				if err != nil {
					return err
				}
				return cctx.showResource(ctx, s, uri)
			})
		},
	}
}

func newHbaCreateCmd(cctx *CmdContext) *cobra.Command {
	var opts propOptions
	cmd := &cobra.Command{
		Use:   "create CPC PARTITION",
		Short: "Create an HBA in a partition",
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
				return cctx.createResource(ctx, s, partURI+"/hbas", "HBA", name, props)
			})
		},
	}
	addPropFlags(cmd, &opts)
	return cmd
}

func newHbaUpdateCmd(cctx *CmdContext) *cobra.Command {
	var opts propOptions
	cmd := &cobra.Command{
		Use:   "update CPC PARTITION HBA",
		Short: "Update the properties of an HBA",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			props, err := opts.parse()
			if err != nil {
				return err
			}
			return cctx.Execute(func(ctx context.Context, s *client.Session) error {
				uri, err := findHbaURI(ctx, s, args[0], args[1], args[2])
				if err != nil {
					return err
				}
				return cctx.updateResource(ctx, s, uri, "HBA", args[2], props)
			})
		},
	}
	addPropFlags(cmd, &opts)
	return cmd
}

func newHbaDeleteCmd(cctx *CmdContext) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete CPC PARTITION HBA",
		Short: "Delete an HBA",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.Execute(func(ctx context.Context, s *client.Session) error {
				uri, err := findHbaURI(ctx, s, args[0], args[1], args[2])
				if err != nil {
					return err
				}
				return cctx.deleteResource(ctx, s, uri, "HBA", args[2], yes)
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}
