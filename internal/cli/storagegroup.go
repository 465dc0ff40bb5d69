package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openzhmc/zhmc/internal/client"
)

const storageGroupsURI = "/api/storage-groups"

var storageGroupListColumns = []string{
	"name",
	"type",
	"fulfillment-state",
	"shared",
	"description",
}

// findStorageGroupURI locates a storage group by name.
func findStorageGroupURI(ctx context.Context, s *client.Session, name string) (string, error) {
	return findURIByName(ctx, s, storageGroupsURI, "storage-groups",
		"storage group", name)
}

func newStorageGroupCmd(cctx *CmdContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "storagegroup",
		Short: "Commands for storage groups",
	}
	cmd.AddCommand(newStorageGroupListCmd(cctx))
	cmd.AddCommand(newStorageGroupShowCmd(cctx))
	cmd.AddCommand(newStorageGroupCreateCmd(cctx))
	cmd.AddCommand(newStorageGroupUpdateCmd(cctx))
	cmd.AddCommand(newStorageGroupDeleteCmd(cctx))
	return cmd
}

func newStorageGroupListCmd(cctx *CmdContext) *cobra.Command {
	var opts listOptions
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the storage groups defined on the HMC",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.Execute(func(ctx context.Context, s *client.Session) error {
				return cctx.listResources(ctx, s, storageGroupsURI,
					"storage-groups", storageGroupListColumns, opts)
			})
		},
	}
	addListFlags(cmd, &opts)
	return cmd
}

func newStorageGroupShowCmd(cctx *CmdContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show STORAGEGROUP",
		Short: "Show the properties of a storage group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.Execute(func(ctx context.Context, s *client.Session) error {
				uri, err := findStorageGroupURI(ctx, s, args[0])
				if err != nil {
					return err
				}
				return cctx.showResource(ctx, s, uri)
			})
		},
	}
}

func newStorageGroupCreateCmd(cctx *CmdContext) *cobra.Command {
	var opts propOptions
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a storage group",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			props, err := opts.parse()
			if err != nil {
				return err
			}
			return cctx.Execute(func(ctx context.Context, s *client.Session) error {
				name, _ := props["name"].(string)
				return cctx.createResource(ctx, s, storageGroupsURI,
					"storage group", name, props)
			})
		},
	}
	addPropFlags(cmd, &opts)
	return cmd
}

func newStorageGroupUpdateCmd(cctx *CmdContext) *cobra.Command {
	var opts propOptions
	cmd := &cobra.Command{
		Use:   "update STORAGEGROUP",
		Short: "Update the properties of a storage group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			props, err := opts.parse()
			if err != nil {
				return err
			}
			return cctx.Execute(func(ctx context.Context, s *client.Session) error {
				uri, err := findStorageGroupURI(ctx, s, args[0])
				if err != nil {
					return err
				}
				if err := cctx.action(ctx, s, uri, "modify", props); err != nil {
					return err
				}
				return cctx.reportAction("Storage group", args[0], "updated")
			})
		},
	}
	addPropFlags(cmd, &opts)
	return cmd
}

func newStorageGroupDeleteCmd(cctx *CmdContext) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete STORAGEGROUP",
		Short: "Delete a storage group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.Execute(func(ctx context.Context, s *client.Session) error {
				uri, err := findStorageGroupURI(ctx, s, args[0])
				if err != nil {
					return err
				}
				if !cctx.confirm(yes, "Are you sure you want to delete storage group "+args[0]+"?") {
					fmt.Fprintln(cctx.Out, "Aborted.")
					return nil
				}
				if err := cctx.action(ctx, s, uri, "delete", nil); err != nil {
					return err
				}
				return cctx.reportAction("Storage group", args[0], "deleted")
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}
