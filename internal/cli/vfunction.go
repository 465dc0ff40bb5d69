package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/openzhmc/zhmc/internal/client"
)

var vfunctionListColumns = []string{
	"name",
	"device-number",
	"adapter-uri",
	"description",
}

func findVfunctionURI(ctx context.Context, s *client.Session, cpc, partition, name string) (string, error) {
	_, uris, err := partitionElementURIs(ctx, s, cpc, partition, "virtual-function-uris")
	if err != nil {
		return "", err
	}
	return findElementURI(ctx, s, uris, "virtual function", name)
}

func newVfunctionCmd(cctx *CmdContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vfunction",
		Short: "Commands for virtual functions of partitions",
	}
	cmd.AddCommand(newVfunctionListCmd(cctx))
	cmd.AddCommand(newVfunctionShowCmd(cctx))
	cmd.AddCommand(newVfunctionCreateCmd(cctx))
	cmd.AddCommand(newVfunctionUpdateCmd(cctx))
	cmd.AddCommand(newVfunctionDeleteCmd(cctx))
	return cmd
}

func newVfunctionListCmd(cctx *CmdContext) *cobra.Command {
	var opts listOptions
	cmd := &cobra.Command{
		Use:   "list CPC PARTITION",
		Short: "List the virtual functions of a partition",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.Execute(func(ctx context.Context, s *client.Session) error {
				_, uris, err := partitionElementURIs(ctx, s, args[0], args[1], "virtual-function-uris")
				if err != nil {
					return err
				}
				return cctx.listElements(ctx, s, uris, vfunctionListColumns, opts)
			})
		},
	}
	addListFlags(cmd, &opts)
	return cmd
}

func newVfunctionShowCmd(cctx *CmdContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show CPC PARTITION VFUNCTION",
		Short: "Show the properties of a virtual function",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.Execute(func(ctx context.Context, s *client.Session) error {
				uri, err := findVfunctionURI(ctx, s, args[0], args[1], args[2])
				if err != nil {
					return err
				}
				return cctx.showResource(ctx, s, uri)
			})
		},
	}
}

func newVfunctionCreateCmd(cctx *CmdContext) *cobra.Command {
	var opts propOptions
	cmd := &cobra.Command{
		Use:   "create CPC PARTITION",
		Short: "Create a virtual function in a partition",
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
				return cctx.createResource(ctx, s, partURI+"/virtual-functions",
					"virtual function", name, props)
			})
		},
	}
	addPropFlags(cmd, &opts)
	return cmd
}

func newVfunctionUpdateCmd(cctx *CmdContext) *cobra.Command {
	var opts propOptions
	cmd := &cobra.Command{
		Use:   "update CPC PARTITION VFUNCTION",
		Short: "Update the properties of a virtual function",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			props, err := opts.parse()
			if err != nil {
				return err
			}
			return cctx.Execute(func(ctx context.Context, s *client.Session) error {
				uri, err := findVfunctionURI(ctx, s, args[0], args[1], args[2])
				if err != nil {
					return err
				}
				return cctx.updateResource(ctx, s, uri, "virtual function", args[2], props)
			})
		},
	}
	addPropFlags(cmd, &opts)
	return cmd
}

func newVfunctionDeleteCmd(cctx *CmdContext) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete CPC PARTITION VFUNCTION",
		Short: "Delete a virtual function",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.Execute(func(ctx context.Context, s *client.Session) error {
				uri, err := findVfunctionURI(ctx, s, args[0], args[1], args[2])
				if err != nil {
					return err
				}
				return cctx.deleteResource(ctx, s, uri, "virtual function", args[2], yes)
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}
