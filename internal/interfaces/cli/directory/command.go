package directory

import (
	"context"

	"github.com/spf13/cobra"

	permissionDto "github.com/orris-inc/ticketflow/internal/application/permission/dto"
	permissionUsecases "github.com/orris-inc/ticketflow/internal/application/permission/usecases"
	userDto "github.com/orris-inc/ticketflow/internal/application/user/dto"
	"github.com/orris-inc/ticketflow/internal/interfaces/cli/bootstrap"
)

var (
	flags bootstrap.Flags

	userEmail string
	userName  string

	roleName        string
	roleDescription string
	roleSID         string
	memberSID       string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "directory",
		Short: "Manage directory users and roles",
		Long:  `Seed and maintain the users and roles that flow steps are assigned to.`,
	}

	flags.Register(cmd)

	userCmd := &cobra.Command{Use: "user", Short: "Directory users"}
	userCmd.AddCommand(newUserAddCommand())

	roleCmd := &cobra.Command{Use: "role", Short: "Directory roles"}
	roleCmd.AddCommand(
		newRoleAddCommand(),
		newMembershipCommand("grant", "Add a user to a role", true),
		newMembershipCommand("revoke", "Remove a user from a role", false),
	)

	cmd.AddCommand(userCmd, roleCmd)

	return cmd
}

func newUserAddCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := bootstrap.Open(&flags)
			if err != nil {
				return err
			}
			defer rt.Close()

			created, err := rt.Container.UseCases().CreateUser.Execute(context.Background(), userDto.CreateUserRequest{
				Email: userEmail,
				Name:  userName,
			})
			if err != nil {
				return err
			}
			return bootstrap.PrintJSON(cmd.OutOrStdout(), created)
		},
	}

	cmd.Flags().StringVar(&userEmail, "email", "", "Email address (required)")
	cmd.Flags().StringVar(&userName, "name", "", "Display name (required)")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("name")

	return cmd
}

func newRoleAddCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a role",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := bootstrap.Open(&flags)
			if err != nil {
				return err
			}
			defer rt.Close()

			created, err := rt.Container.UseCases().CreateRole.Execute(context.Background(), permissionDto.CreateRoleRequest{
				Name:        roleName,
				Description: roleDescription,
			})
			if err != nil {
				return err
			}
			return bootstrap.PrintJSON(cmd.OutOrStdout(), created)
		},
	}

	cmd.Flags().StringVar(&roleName, "name", "", "Role name (required)")
	cmd.Flags().StringVar(&roleDescription, "description", "", "Role description")
	cmd.MarkFlagRequired("name")

	return cmd
}

func newMembershipCommand(use, short string, grant bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := bootstrap.Open(&flags)
			if err != nil {
				return err
			}
			defer rt.Close()

			if err := rt.Container.UseCases().UpdateRoleMembership.Execute(context.Background(), permissionUsecases.UpdateRoleMembershipCommand{
				RoleSID: roleSID,
				UserSID: memberSID,
				Grant:   grant,
			}); err != nil {
				return err
			}

			rt.Log.Infow("role membership updated", "role_sid", roleSID, "user_sid", memberSID, "grant", grant)
			return nil
		},
	}

	cmd.Flags().StringVar(&roleSID, "role", "", "Role SID (required)")
	cmd.Flags().StringVar(&memberSID, "user", "", "User SID (required)")
	cmd.MarkFlagRequired("role")
	cmd.MarkFlagRequired("user")

	return cmd
}
