package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/openzhmc/zhmc/internal/client"
)

func newInfoCmd(cctx *CmdContext) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show information about the HMC API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.Execute(func(ctx context.Context, s *client.Session) error {
				props, err := s.Get(ctx, "/api/version")
				if err != nil {
					return err
				}
				return cctx.renderProperties(props)
			})
		},
	}
}
