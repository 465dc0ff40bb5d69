package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openzhmc/zhmc/internal/client"
)

var portListColumns = []string{
	"name",
	"index",
	"description",
}

// adapterPortURIs returns the port URIs of an adapter. Network adapters
// carry network-port-uris, storage adapters storage-port-uris.
func adapterPortURIs(ctx context.Context, s *client.Session, cpc, adapter string) ([]string, error) {
	adapterURI, err := findAdapterURI(ctx, s, cpc, adapter)
	if err != nil {
		return nil, err
	}
	props, err := s.GetProperties(ctx, adapterURI)
	if err != nil {
		return nil, err
	}
	uris := uriListProperty(props, "network-port-uris", "storage-port-uris")
	if uris == nil {
		return nil, &client.ParseError{
			Message: fmt.Sprintf("adapter %q has no ports", adapter),
		}
	}
	return uris, nil
}

func findPortURI(ctx context.Context, s *client.Session, cpc, adapter, name string) (string, error) {
	uris, err := adapterPortURIs(ctx, s, cpc, adapter)
	if err != nil {
		return "", err
	}
	return findElementURI(ctx, s, uris, "port", name)
}

func newPortCmd(cctx *CmdContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "port",
		Short: "Commands for adapter ports",
	}
	cmd.AddCommand(newPortListCmd(cctx))
	cmd.AddCommand(newPortShowCmd(cctx))
	cmd.AddCommand(newPortUpdateCmd(cctx))
	return cmd
}

func newPortListCmd(cctx *CmdContext) *cobra.Command {
	var opts listOptions
	cmd := &cobra.Command{
		Use:   "list CPC ADAPTER",
		Short: "List the ports of an adapter",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.Execute(func(ctx context.Context, s *client.Session) error {
				uris, err := adapterPortURIs(ctx, s, args[0], args[1])
				if err != nil {
					return err
				}
				return cctx.listElements(ctx, s, uris, portListColumns, opts)
			})
		},
	}
	addListFlags(cmd, &opts)
	return cmd
}

func newPortShowCmd(cctx *CmdContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show CPC ADAPTER PORT",
		Short: "Show the properties of an adapter port",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.Execute(func(ctx context.Context, s *client.Session) error {
				uri, err := findPortURI(ctx, s, args[0], args[1], args[2])
				if err != nil {
					return err
				}
				return cctx.showResource(ctx, s, uri)
			})
		},
	}
}

func newPortUpdateCmd(cctx *CmdContext) *cobra.Command {
	var opts propOptions
	cmd := &cobra.Command{
		Use:   "update CPC ADAPTER PORT",
		Short: "Update the properties of an adapter port",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			props, err := opts.parse()
			if err != nil {
				return err
			}
			return cctx.Execute(func(ctx context.Context, s *client.Session) error {
				uri, err := findPortURI(ctx, s, args[0], args[1], args[2])
				if err != nil {
					return err
				}
				return cctx.updateResource(ctx, s, uri, "port", args[2], props)
			})
		},
	}
	addPropFlags(cmd, &opts)
	return cmd
}
