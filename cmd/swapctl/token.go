package main

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/heartmarshall/swapmatch-backend/internal/auth"
	"github.com/heartmarshall/swapmatch-backend/internal/domain"
)

type tokenOutput struct {
	Token     string    `json:"token" yaml:"token"`
	UserID    string    `json:"user_id" yaml:"user_id"`
	Role      string    `json:"role" yaml:"role"`
	ExpiresAt time.Time `json:"expires_at" yaml:"expires_at"`
}

func newTokenCommand(root *rootOptions) *cobra.Command {
	var (
		userID string
		role   string
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an access token for local testing",
		Long: `Mint an access token signed with auth.jwt_secret.

Example:
  swapctl token --user 0b9c2d4e-2f0a-4c55-9d8a-6a4f3a1b2c3d --role admin`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(userID)
			if err != nil {
				return commandError("invalid --user", err)
			}
			r := domain.UserRole(role)
			if !r.IsValid() {
				return commandError(fmt.Sprintf("invalid --role %q", role), nil)
			}
			cfg, err := root.loadConfig()
			if err != nil {
				return commandError("load config", err)
			}

			issuedAt := root.env.now()
			tokens := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)
			token, err := tokens.GenerateAccessToken(id, r)
			if err != nil {
				return commandError("sign token", err)
			}

			out := tokenOutput{
				Token:     token,
				UserID:    id.String(),
				Role:      r.String(),
				ExpiresAt: issuedAt.Add(cfg.Auth.AccessTokenTTL).UTC().Truncate(time.Second),
			}
			if err := root.printer().print(out, func(w io.Writer) { fmt.Fprintln(w, out.Token) }); err != nil {
				return commandError("write output", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user id (uuid)")
	cmd.Flags().StringVar(&role, "role", string(domain.UserRoleUser), "role (user|admin)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
