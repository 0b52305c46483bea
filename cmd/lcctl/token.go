package main

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/heartmarshall/langcorrect-backend/internal/auth"
)

func newTokenCommand() *cobra.Command {
	var (
		userID string
		issuer string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an access token for local testing",
		Long:  "Signs a token with AUTH_JWT_SECRET. Generates a random user ID when --user is omitted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			secret := os.Getenv("AUTH_JWT_SECRET")
			if len(secret) < 32 {
				return fmt.Errorf("AUTH_JWT_SECRET must be set and at least 32 characters")
			}

			id := uuid.New()
			if userID != "" {
				parsed, err := uuid.Parse(userID)
				if err != nil {
					return fmt.Errorf("parse --user: %w", err)
				}
				id = parsed
			}

			token, err := auth.NewJWTManager(secret, issuer, ttl).GenerateAccessToken(id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "user %s\n", id)
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "User ID to put in the subject")
	cmd.Flags().StringVar(&issuer, "issuer", "langcorrect", "Token issuer")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	return cmd
}
