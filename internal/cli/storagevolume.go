package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openzhmc/zhmc/internal/client"
)

var storageVolumeListColumns = []string{
	"name",
	"fulfillment-state",
	"size",
	"usage",
	"description",
}

func findStorageVolumeURI(ctx context.Context, s *client.Session, group, name string) (string, error) {
	sgURI, err := findStorageGroupURI(ctx, s, group)
	if err != nil {
		return "", err
	}
	return findURIByName(ctx, s, sgURI+"/storage-volumes",
		"storage-volumes", "storage volume", name)
}

// volumeRequest wraps a single storage volume change into the body of
// the storage group modify operation.
func volumeRequest(op, uri string, props map[string]any) map[string]any {
	req := map[string]any{"operation": op}
	if uri != "" {
		req["element-uri"] = uri
	}
	for name, value := range props {
		req[name] = value
	}
	return map[string]any{"storage-volumes": []any{req}}
}

func newStorageVolumeCmd(cctx *CmdContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "storagevolume",
		Short: "Commands for storage volumes of storage groups",
	}
	cmd.AddCommand(newStorageVolumeListCmd(cctx))
	cmd.AddCommand(newStorageVolumeShowCmd(cctx))
	cmd.AddCommand(newStorageVolumeCreateCmd(cctx))
	cmd.AddCommand(newStorageVolumeUpdateCmd(cctx))
	cmd.AddCommand(newStorageVolumeDeleteCmd(cctx))
	return cmd
}

func newStorageVolumeListCmd(cctx *CmdContext) *cobra.Command {
	var opts listOptions
	cmd := &cobra.Command{
		Use:   "list STORAGEGROUP",
		Short: "List the storage volumes of a storage group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.Execute(func(ctx context.Context, s *client.Session) error {
				sgURI, err := findStorageGroupURI(ctx, s, args[0])
				if err != nil {
					return err
				}
				return cctx.listResources(ctx, s, sgURI+"/storage-volumes",
					"storage-volumes", storageVolumeListColumns, opts)
			})
		},
	}
	addListFlags(cmd, &opts)
	return cmd
}

func newStorageVolumeShowCmd(cctx *CmdContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show STORAGEGROUP VOLUME",
		Short: "Show the properties of a storage volume",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.Execute(func(ctx context.Context, s *client.Session) error {
				uri, err := findStorageVolumeURI(ctx, s, args[0], args[1])
				if err != nil {
					return err
				}
				return cctx.showResource(ctx, s, uri)
			})
		},
	}
}

func newStorageVolumeCreateCmd(cctx *CmdContext) *cobra.Command {
	var opts propOptions
	cmd := &cobra.Command{
		Use:   "create STORAGEGROUP",
		Short: "Create a storage volume in a storage group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			props, err := opts.parse()
			if err != nil {
				return err
			}
			return cctx.Execute(func(ctx context.Context, s *client.Session) error {
				sgURI, err := findStorageGroupURI(ctx, s, args[0])
				if err != nil {
					return err
				}
				body := volumeRequest("create", "", props)
				if err := cctx.action(ctx, s, sgURI, "modify", body); err != nil {
					return err
				}
				name, _ := props["name"].(string)
				return cctx.reportAction("Storage volume", name, "created")
			})
		},
	}
	addPropFlags(cmd, &opts)
	return cmd
}

func newStorageVolumeUpdateCmd(cctx *CmdContext) *cobra.Command {
	var opts propOptions
	cmd := &cobra.Command{
		Use:   "update STORAGEGROUP VOLUME",
		Short: "Update the properties of a storage volume",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			props, err := opts.parse()
			if err != nil {
				return err
			}
			return cctx.Execute(func(ctx context.Context, s *client.Session) error {
				sgURI, err := findStorageGroupURI(ctx, s, args[0])
				if err != nil {
					return err
				}
				volURI, err := findURIByName(ctx, s, sgURI+"/storage-volumes",
					"storage-volumes", "storage volume", args[1])
				if err != nil {
					return err
				}
				body := volumeRequest("modify", volURI, props)
				if err := cctx.action(ctx, s, sgURI, "modify", body); err != nil {
					return err
				}
				return cctx.reportAction("Storage volume", args[1], "updated")
			})
		},
	}
	addPropFlags(cmd, &opts)
	return cmd
}

func newStorageVolumeDeleteCmd(cctx *CmdContext) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete STORAGEGROUP VOLUME",
		Short: "Delete a storage volume",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.Execute(func(ctx context.Context, s *client.Session) error {
				sgURI, err := findStorageGroupURI(ctx, s, args[0])
				if err != nil {
					return err
				}
				volURI, err := findURIByName(ctx, s, sgURI+"/storage-volumes",
					"storage-volumes", "storage volume", args[1])
				if err != nil {
					return err
				}
				if !cctx.confirm(yes, "Are you sure you want to delete storage volume "+args[1]+"?") {
					fmt.Fprintln(cctx.Out, "Aborted.")
					return nil
				}
				body := volumeRequest("delete", volURI, nil)
				if err := cctx.action(ctx, s, sgURI, "modify", body); err != nil {
					return err
				}
				return cctx.reportAction("Storage volume", args[1], "deleted")
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}
