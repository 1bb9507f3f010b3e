package main

import (
	"context"
	"time"

	"github.com/Conversia-AI/craftable-serialx/auth"
	"github.com/Conversia-AI/craftable-serialx/errx"
	"github.com/spf13/cobra"
)

func newTokenCmd(a *app) *cobra.Command {
	var secret, subject string
	var ttl time.Duration
	var scopes []string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for a server started with --jwt-secret",
		Example: `  SERIALX_JWT_SECRET=s3cret serialx token --subject ci --ttl 24h
  serialx token --jwt-secret s3cret --subject dashboard --scope schemas:read`,
		Args: cobra.NoArgs,
	}
	cmd.Flags().StringVar(&secret, "jwt-secret", "", "HS256 secret shared with the server")
	cmd.Flags().StringVar(&subject, "subject", "", "Token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime, 0 for no expiry")
	cmd.Flags().StringSliceVar(&scopes, "scope", nil, "Granted scopes ("+auth.ScopeRead+", "+auth.ScopeValidate+"); all when empty")
	_ = cmd.MarkFlagRequired("subject")

	cmd.RunE = a.run(func(ctx context.Context, cmd *cobra.Command, args []string) error {
		for _, s := range scopes {
			if s != auth.ScopeRead && s != auth.ScopeValidate {
				return errx.New("Unknown scope", errx.TypeBadRequest).WithDetail("scope", s)
			}
		}

		tokens, err := auth.NewTokenService([]byte(secret), ttl)
		if err != nil {
			return err
		}
		token, err := tokens.GenerateToken(subject, scopes...)
		if err != nil {
			return err
		}
		return a.print(map[string]any{
			"access_token": token,
			"token_type":   "Bearer",
			"expires_in":   int(ttl.Seconds()),
		})
	})
	return cmd
}
