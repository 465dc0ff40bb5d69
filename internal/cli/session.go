package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openzhmc/zhmc/internal/client"
	"github.com/openzhmc/zhmc/internal/config"
)

func newSessionCmd(cctx *CmdContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Commands for managing the HMC session of the shell environment",
	}
	cmd.AddCommand(newSessionLogonCmd(cctx))
	cmd.AddCommand(newSessionLogoffCmd(cctx))
	return cmd
}

// newSessionLogonCmd logs on and prints the export statements that
// make the new session-id available to later invocations. The output is
// meant for eval in the calling shell.
func newSessionLogonCmd(cctx *CmdContext) *cobra.Command {
	return &cobra.Command{
		Use:     "logon",
		Aliases: []string{"create"},
		Short:   "Log on and print the session as shell export statements",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logon := cctx.Logon
			if logon == nil || logon.Host == "" {
				return &client.AuthError{
					Message: "no HMC host provided (--host option or ZHMC_HOST variable)",
				}
			}
			// A fresh logon is wanted even when ZHMC_SESSION_ID is set.
			s, err := client.NewSession(
				logon.Host, logon.Userid, logon.Password, "",
				client.VerifyPolicy{
					NoVerify: logon.NoVerify,
					CACerts:  logon.CACerts,
				})
			if err != nil {
				return err
			}
			if err := s.EnsureLoggedOn(context.Background()); err != nil {
				return err
			}
			out := cctx.Out
			fmt.Fprintf(out, "export %s=%s\n", config.EnvHost, logon.Host)
			fmt.Fprintf(out, "export %s=%s\n", config.EnvUserid, logon.Userid)
			fmt.Fprintf(out, "export %s=%s\n", config.EnvSessionID, s.SessionID())
			fmt.Fprintf(out, "unset %s\n", config.EnvPassword)
			if logon.NoVerify {
				fmt.Fprintf(out, "export %s=TRUE\n", config.EnvNoVerify)
			} else {
				fmt.Fprintf(out, "unset %s\n", config.EnvNoVerify)
			}
			if logon.CACerts != "" {
				fmt.Fprintf(out, "export %s=%s\n", config.EnvCACerts, logon.CACerts)
			} else {
				fmt.Fprintf(out, "unset %s\n", config.EnvCACerts)
			}
			return nil
		},
	}
}

// newSessionLogoffCmd logs off and prints the matching unset
// statements.
func newSessionLogoffCmd(cctx *CmdContext) *cobra.Command {
	return &cobra.Command{
		Use:     "logoff",
		Aliases: []string{"delete"},
		Short:   "Log off and print the session removal as shell statements",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := cctx.Session()
			if err != nil {
				return err
			}
			ctx := context.Background()
			if err := s.EnsureLoggedOn(ctx); err != nil {
				return err
			}
			if err := s.Logoff(ctx); err != nil {
				return err
			}
			out := cctx.Out
			fmt.Fprintf(out, "unset %s\n", config.EnvSessionID)
			fmt.Fprintf(out, "unset %s\n", config.EnvPassword)
			return nil
		},
	}
}
