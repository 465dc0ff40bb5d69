package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/openzhmc/zhmc/internal/client"
)

var vstorageResourceListColumns = []string{
	"name",
	"device-number",
	"description",
}

func findVstorageResourceURI(ctx context.Context, s *client.Session, group, name string) (string, error) {
	sgURI, err := findStorageGroupURI(ctx, s, group)
	if err != nil {
		return "", err
	}
	return findURIByName(ctx, s, sgURI+"/virtual-storage-resources",
		"virtual-storage-resources", "virtual storage resource", name)
}

func newVstorageResourceCmd(cctx *CmdContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vstorageresource",
		Short: "Commands for virtual storage resources of storage groups",
	}
	cmd.AddCommand(newVstorageResourceListCmd(cctx))
	cmd.AddCommand(newVstorageResourceShowCmd(cctx))
	cmd.AddCommand(newVstorageResourceUpdateCmd(cctx))
	return cmd
}

func newVstorageResourceListCmd(cctx *CmdContext) *cobra.Command {
	var opts listOptions
	cmd := &cobra.Command{
		Use:   "list STORAGEGROUP",
		Short: "List the virtual storage resources of a storage group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.Execute(func(ctx context.Context, s *client.Session) error {
				sgURI, err := findStorageGroupURI(ctx, s, args[0])
				if err != nil {
					return err
				}
				return cctx.listResources(ctx, s, sgURI+"/virtual-storage-resources",
					"virtual-storage-resources", vstorageResourceListColumns, opts)
			})
		},
	}
	addListFlags(cmd, &opts)
	return cmd
}

func newVstorageResourceShowCmd(cctx *CmdContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show STORAGEGROUP RESOURCE",
		Short: "Show the properties of a virtual storage resource",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.Execute(func(ctx context.Context, s *client.Session) error {
				uri, err := findVstorageResourceURI(ctx, s, args[0], args[1])
				if err != nil {
					return err
				}
				return cctx.showResource(ctx, s, uri)
			})
		},
	}
}

func newVstorageResourceUpdateCmd(cctx *CmdContext) *cobra.Command {
	var opts propOptions
	cmd := &cobra.Command{
		Use:   "update STORAGEGROUP RESOURCE",
		Short: "Update the properties of a virtual storage resource",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			props, err := opts.parse()
			if err != nil {
				return err
			}
			return cctx.Execute(func(ctx context.Context, s *client.Session) error {
				uri, err := findVstorageResourceURI(ctx, s, args[0], args[1])
				if err != nil {
					return err
				}
				return cctx.updateResource(ctx, s, uri,
					"virtual storage resource", args[1], props)
			})
		},
	}
	addPropFlags(cmd, &opts)
	return cmd
}
