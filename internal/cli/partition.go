package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/openzhmc/zhmc/internal/client"
)

var partitionListColumns = []string{
	"name",
	"status",
	"type",
	"ifl-processors",
	"initial-memory",
	"description",
}

// findPartitionURI locates a partition by name within a CPC in DPM mode.
func findPartitionURI(ctx context.Context, s *client.Session, cpc, name string) (string, error) {
	cpcURI, err := findCpcURI(ctx, s, cpc)
	if err != nil {
		return "", err
	}
	return findURIByName(ctx, s, cpcURI+"/partitions", "partitions", "partition", name)
}

// partitionElementURIs returns a partition's URI together with one of
// its element URI lists (nic-uris, hba-uris, virtual-function-uris).
func partitionElementURIs(ctx context.Context, s *client.Session,
	cpc, partition, prop string) (string, []string, error) {

	uri, err := findPartitionURI(ctx, s, cpc, partition)
	if err != nil {
		return "", nil, err
	}
	props, err := s.GetProperties(ctx, uri)
	if err != nil {
		return "", nil, err
	}
	return uri, uriListProperty(props, prop), nil
}

func newPartitionCmd(cctx *CmdContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "partition",
		Short: "Commands for partitions of CPCs in DPM mode",
	}
	cmd.AddCommand(newPartitionListCmd(cctx))
	cmd.AddCommand(newPartitionShowCmd(cctx))
	cmd.AddCommand(newPartitionCreateCmd(cctx))
	cmd.AddCommand(newPartitionUpdateCmd(cctx))
	cmd.AddCommand(newPartitionDeleteCmd(cctx))
	cmd.AddCommand(newPartitionStartCmd(cctx))
	cmd.AddCommand(newPartitionStopCmd(cctx))
	return cmd
}

func newPartitionListCmd(cctx *CmdContext) *cobra.Command {
	var opts listOptions
	cmd := &cobra.Command{
		Use:   "list CPC",
		Short: "List the partitions of a CPC",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.Execute(func(ctx context.Context, s *client.Session) error {
				cpcURI, err := findCpcURI(ctx, s, args[0])
				if err != nil {
					return err
				}
				return cctx.listResources(ctx, s, cpcURI+"/partitions",
					"partitions", partitionListColumns, opts)
			})
		},
	}
	addListFlags(cmd, &opts)
	return cmd
}

func newPartitionShowCmd(cctx *CmdContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show CPC PARTITION",
		Short: "Show the properties of a partition",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.Execute(func(ctx context.Context, s *client.Session) error {
				uri, err := findPartitionURI(ctx, s, args[0], args[1])
				if err != nil {
					return err
				}
				return cctx.showResource(ctx, s, uri)
			})
		},
	}
}

func newPartitionCreateCmd(cctx *CmdContext) *cobra.Command {
	var opts propOptions
	cmd := &cobra.Command{
		Use:   "create CPC",
		Short: "Create a partition in a CPC",
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
				return cctx.createResource(ctx, s, cpcURI+"/partitions",
					"partition", name, props)
			})
		},
	}
	addPropFlags(cmd, &opts)
	return cmd
}

func newPartitionUpdateCmd(cctx *CmdContext) *cobra.Command {
	var opts propOptions
	cmd := &cobra.Command{
		Use:   "update CPC PARTITION",
		Short: "Update the properties of a partition",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			props, err := opts.parse()
			if err != nil {
				return err
			}
			return cctx.Execute(func(ctx context.Context, s *client.Session) error {
				uri, err := findPartitionURI(ctx, s, args[0], args[1])
				if err != nil {
					return err
				}
				return cctx.updateResource(ctx, s, uri, "partition", args[1], props)
			})
		},
	}
	addPropFlags(cmd, &opts)
	return cmd
}

func newPartitionDeleteCmd(cctx *CmdContext) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete CPC PARTITION",
		Short: "Delete a partition",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.Execute(func(ctx context.Context, s *client.Session) error {
				uri, err := findPartitionURI(ctx, s, args[0], args[1])
				if err != nil {
					return err
				}
				return cctx.deleteResource(ctx, s, uri, "partition", args[1], yes)
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func newPartitionStartCmd(cctx *CmdContext) *cobra.Command {
	return &cobra.Command{
		Use:   "start CPC PARTITION",
		Short: "Start a partition",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.Execute(func(ctx context.Context, s *client.Session) error {
				uri, err := findPartitionURI(ctx, s, args[0], args[1])
				if err != nil {
					return err
				}
				if err := cctx.action(ctx, s, uri, "start", nil); err != nil {
					return err
				}
				return cctx.reportAction("Partition", args[1], "started")
			})
		},
	}
}

func newPartitionStopCmd(cctx *CmdContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stop CPC PARTITION",
		Short: "Stop a partition",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.Execute(func(ctx context.Context, s *client.Session) error {
				uri, err := findPartitionURI(ctx, s, args[0], args[1])
				if err != nil {
					return err
				}
				if err := cctx.action(ctx, s, uri, "stop", nil); err != nil {
					return err
				}
				return cctx.reportAction("Partition", args[1], "stopped")
			})
		},
	}
}
