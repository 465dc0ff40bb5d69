package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openzhmc/zhmc/internal/client"
)

var capacityGroupListColumns = []string{
	"name",
	"capping-enabled",
	"description",
}

func findCapacityGroupURI(ctx context.Context, s *client.Session, cpc, name string) (string, error) {
	cpcURI, err := findCpcURI(ctx, s, cpc)
	if err != nil {
		return "", err
	}
	return findURIByName(ctx, s, cpcURI+"/capacity-groups",
		"capacity-groups", "capacity group", name)
}

func newCapacityGroupCmd(cctx *CmdContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "capacitygroup",
		Short: "Commands for capacity groups of CPCs in DPM mode",
	}
	cmd.AddCommand(newCapacityGroupListCmd(cctx))
	cmd.AddCommand(newCapacityGroupShowCmd(cctx))
	cmd.AddCommand(newCapacityGroupCreateCmd(cctx))
	cmd.AddCommand(newCapacityGroupUpdateCmd(cctx))
	cmd.AddCommand(newCapacityGroupDeleteCmd(cctx))
	cmd.AddCommand(newCapacityGroupAddPartitionCmd(cctx))
	cmd.AddCommand(newCapacityGroupRemovePartitionCmd(cctx))
	return cmd
}

func newCapacityGroupListCmd(cctx *CmdContext) *cobra.Command {
	var opts listOptions
	cmd := &cobra.Command{
		Use:   "list CPC",
		Short: "List the capacity groups of a CPC",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.Execute(func(ctx context.Context, s *client.Session) error {
				cpcURI, err := findCpcURI(ctx, s, args[0])
				if err != nil {
					return err
				}
				return cctx.listResources(ctx, s, cpcURI+"/capacity-groups",
					"capacity-groups", capacityGroupListColumns, opts)
			})
		},
	}
	addListFlags(cmd, &opts)
	return cmd
}

func newCapacityGroupShowCmd(cctx *CmdContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show CPC CAPACITYGROUP",
		Short: "Show the properties of a capacity group",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.Execute(func(ctx context.Context, s *client.Session) error {
				uri, err := findCapacityGroupURI(ctx, s, args[0], args[1])
				if err != nil {
					return err
				}
				return cctx.showResource(ctx, s, uri)
			})
		},
	}
}

func newCapacityGroupCreateCmd(cctx *CmdContext) *cobra.Command {
	var opts propOptions
	cmd := &cobra.Command{
		Use:   "create CPC",
		Short: "Create a capacity group in a CPC",
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
				return cctx.createResource(ctx, s, cpcURI+"/capacity-groups",
					"capacity group", name, props)
			})
		},
	}
	addPropFlags(cmd, &opts)
	return cmd
}

func newCapacityGroupUpdateCmd(cctx *CmdContext) *cobra.Command {
	var opts propOptions
	cmd := &cobra.Command{
		Use:   "update CPC CAPACITYGROUP",
		Short: "Update the properties of a capacity group",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			props, err := opts.parse()
			if err != nil {
				return err
			}
			return cctx.Execute(func(ctx context.Context, s *client.Session) error {
				uri, err := findCapacityGroupURI(ctx, s, args[0], args[1])
				if err != nil {
					return err
				}
				return cctx.updateResource(ctx, s, uri, "capacity group", args[1], props)
			})
		},
	}
	addPropFlags(cmd, &opts)
	return cmd
}

func newCapacityGroupDeleteCmd(cctx *CmdContext) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete CPC CAPACITYGROUP",
		Short: "Delete a capacity group",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.Execute(func(ctx context.Context, s *client.Session) error {
				uri, err := findCapacityGroupURI(ctx, s, args[0], args[1])
				if err != nil {
					return err
				}
				return cctx.deleteResource(ctx, s, uri, "capacity group", args[1], yes)
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func newCapacityGroupAddPartitionCmd(cctx *CmdContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add-partition CPC CAPACITYGROUP PARTITION",
		Short: "Add a partition to a capacity group",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.Execute(func(ctx context.Context, s *client.Session) error {
				return capacityGroupMembership(ctx, cctx, s,
					args[0], args[1], args[2], "add-partition", "added to")
			})
		},
	}
}

func newCapacityGroupRemovePartitionCmd(cctx *CmdContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove-partition CPC CAPACITYGROUP PARTITION",
		Short: "Remove a partition from a capacity group",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.Execute(func(ctx context.Context, s *client.Session) error {
				return capacityGroupMembership(ctx, cctx, s,
					args[0], args[1], args[2], "remove-partition", "removed from")
			})
		},
	}
}

func capacityGroupMembership(ctx context.Context, cctx *CmdContext, s *client.Session,
	cpc, group, partition, op, verb string) error {

	groupURI, err := findCapacityGroupURI(ctx, s, cpc, group)
	if err != nil {
		return err
	}
	partURI, err := findPartitionURI(ctx, s, cpc, partition)
	if err != nil {
		return err
	}
	body := map[string]any{"partition-uri": partURI}
	if err := cctx.action(ctx, s, groupURI, op, body); err != nil {
		return err
	}
	fmt.Fprintf(cctx.Out, "Partition %s has been %s capacity group %s.\n",
		partition, verb, group)
	return nil
}
