// Command tokengen issues a signed access token for a user ID. It reads the
// signing secret from the same configuration sources as the server and is
// meant for local development and manual API testing.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/bilingo/internal/config"
	"github.com/phrazzld/bilingo/internal/service/auth"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "tokengen: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	fs := pflag.NewFlagSet("tokengen", pflag.ContinueOnError)
	userIDFlag := fs.String("user-id", "", "user ID to issue the token for (random when empty)")
	lifetime := fs.Duration("lifetime", 0, "token lifetime, e.g. 24h (default from auth.token_lifetime_minutes)")
	configFile := fs.String(config.ConfigFlag, "", "path to a YAML config file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	userID := uuid.New()
	if *userIDFlag != "" {
		parsed, err := uuid.Parse(*userIDFlag)
		if err != nil {
			return fmt.Errorf("invalid user id %q: %w", *userIDFlag, err)
		}
		userID = parsed
	}

	authCfg, err := config.LoadAuth(*configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	jwtService, err := auth.NewJWTService(authCfg)
	if err != nil {
		return err
	}

	ttl := authCfg.TokenLifetime()
	if *lifetime != 0 {
		ttl = *lifetime
	}
	if ttl <= 0 {
		return fmt.Errorf("lifetime must be positive, got %s", ttl)
	}

	token, err := jwtService.GenerateTokenWithLifetime(ctx, userID, ttl)
	if err != nil {
		return fmt.Errorf("failed to generate token: %w", err)
	}

	_, err = fmt.Fprintf(out, "user_id: %s\nexpires: %s\ntoken: %s\n",
		userID, time.Now().Add(ttl).UTC().Format(time.RFC3339), token)
	return err
}
