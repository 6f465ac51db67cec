package token

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/orris-inc/ticketflow/internal/interfaces/cli/bootstrap"
	"github.com/orris-inc/ticketflow/internal/shared/errors"
	"github.com/orris-inc/ticketflow/internal/shared/id"
)

var (
	flags  bootstrap.Flags
	userID string
	ttl    time.Duration
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Access token tools",
	}

	flags.Register(cmd)

	issue := &cobra.Command{
		Use:   "issue",
		Short: "Issue an access token for a directory user",
		Long:  `Sign a bearer token for an existing active user. Identity is managed outside ticketflow; this is for operators and tests.`,
		RunE:  runIssue,
	}
	issue.Flags().StringVarP(&userID, "user", "u", "", "User SID (required)")
	issue.Flags().DurationVar(&ttl, "ttl", 0, "Token lifetime (default: auth.jwt.access_exp_minutes)")
	issue.MarkFlagRequired("user")

	cmd.AddCommand(issue)

	return cmd
}

func runIssue(cmd *cobra.Command, args []string) error {
	if err := id.ValidatePrefix(userID, id.PrefixUser); err != nil {
		return errors.NewValidationError("invalid user id", err.Error())
	}

	rt, err := bootstrap.Open(&flags)
	if err != nil {
		return err
	}
	defer rt.Close()

	u, err := rt.Container.Users().GetBySID(context.Background(), userID)
	if err != nil {
		return err
	}
	if u == nil || !u.IsActive() {
		return errors.NewNotFoundError("active user", userID)
	}

	issued, err := rt.Container.JWTService().Generate(u.SID(), ttl)
	if err != nil {
		return fmt.Errorf("failed to sign token: %w", err)
	}

	return bootstrap.PrintJSON(cmd.OutOrStdout(), map[string]any{
		"token":      issued.Token,
		"token_type": "Bearer",
		"expires_at": issued.ExpiresAt,
	})
}
