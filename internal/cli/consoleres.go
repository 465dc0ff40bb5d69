package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/openzhmc/zhmc/internal/client"
)

// consoleResource describes one of the resource groups owned by the
// console itself (users, user roles, password rules). They all share
// the same command shape, differing only in URI and columns.
type consoleResource struct {
	use     string
	kind    string
	arg     string
	listURI string
	key     string
	columns []string
}

func (r consoleResource) findURI(ctx context.Context, s *client.Session, name string) (string, error) {
	return findURIByName(ctx, s, r.listURI, r.key, r.kind, name)
}

func (r consoleResource) newCmd(cctx *CmdContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   r.use,
		Short: "Commands for HMC " + r.kind + "s",
	}
	cmd.AddCommand(r.newListCmd(cctx))
	cmd.AddCommand(r.newShowCmd(cctx))
	cmd.AddCommand(r.newCreateCmd(cctx))
	cmd.AddCommand(r.newUpdateCmd(cctx))
	cmd.AddCommand(r.newDeleteCmd(cctx))
	return cmd
}

func (r consoleResource) newListCmd(cctx *CmdContext) *cobra.Command {
	var opts listOptions
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the HMC " + r.kind + "s",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.Execute(func(ctx context.Context, s *client.Session) error {
				return cctx.listResources(ctx, s, r.listURI, r.key, r.columns, opts)
			})
		},
	}
	addListFlags(cmd, &opts)
	return cmd
}

func (r consoleResource) newShowCmd(cctx *CmdContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show " + r.arg,
		Short: "Show the properties of a " + r.kind,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.Execute(func(ctx context.Context, s *client.Session) error {
				uri, err := r.findURI(ctx, s, args[0])
				if err != nil {
					return err
				}
				return cctx.showResource(ctx, s, uri)
			})
		},
	}
}

func (r consoleResource) newCreateCmd(cctx *CmdContext) *cobra.Command {
	var opts propOptions
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a " + r.kind,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			props, err := opts.parse()
			if err != nil {
				return err
			}
			return cctx.Execute(func(ctx context.Context, s *client.Session) error {
				name, _ := props["name"].(string)
				return cctx.createResource(ctx, s, r.listURI, r.kind, name, props)
			})
		},
	}
	addPropFlags(cmd, &opts)
	return cmd
}

func (r consoleResource) newUpdateCmd(cctx *CmdContext) *cobra.Command {
	var opts propOptions
	cmd := &cobra.Command{
		Use:   "update " + r.arg,
		Short: "Update the properties of a " + r.kind,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			props, err := opts.parse()
			if err != nil {
				return err
			}
			return cctx.Execute(func(ctx context.Context, s *client.Session) error {
				uri, err := r.findURI(ctx, s, args[0])
				if err != nil {
					return err
				}
				return cctx.updateResource(ctx, s, uri, r.kind, args[0], props)
			})
		},
	}
	addPropFlags(cmd, &opts)
	return cmd
}

func (r consoleResource) newDeleteCmd(cctx *CmdContext) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete " + r.arg,
		Short: "Delete a " + r.kind,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.Execute(func(ctx context.Context, s *client.Session) error {
				uri, err := r.findURI(ctx, s, args[0])
				if err != nil {
					return err
				}
				return cctx.deleteResource(ctx, s, uri, r.kind, args[0], yes)
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func newUserCmd(cctx *CmdContext) *cobra.Command {
	return consoleResource{
		use:     "user",
		kind:    "user",
		arg:     "USER",
		listURI: "/api/console/users",
		key:     "users",
		columns: []string{"name", "type", "authentication-type", "description"},
	}.newCmd(cctx)
}

func newUserRoleCmd(cctx *CmdContext) *cobra.Command {
	return consoleResource{
		use:     "userrole",
		kind:    "user role",
		arg:     "USERROLE",
		listURI: "/api/console/user-roles",
		key:     "user-roles",
		columns: []string{"name", "type", "description"},
	}.newCmd(cctx)
}

func newPasswordRuleCmd(cctx *CmdContext) *cobra.Command {
	return consoleResource{
		use:     "passwordrule",
		kind:    "password rule",
		arg:     "PASSWORDRULE",
		listURI: "/api/console/password-rules",
		key:     "password-rules",
		columns: []string{"name", "type", "min-length", "max-length", "description"},
	}.newCmd(cctx)
}
