// Command token mints a bearer token for local development, signed with the
// same JWT secret the server is configured with.
//
//	token -u <user id> [-e email] [-ttl 1h]
//
// The secret comes from JWT_SECRET, or -s / a -c JSON file exactly as for the
// server.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/RamaSai2519/secure-vault/internal/flagx"
	"github.com/RamaSai2519/secure-vault/internal/server/auth"
	"github.com/RamaSai2519/secure-vault/internal/server/config"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	userID := fs.String("u", "", "user id placed in the userId claim")
	email := fs.String("e", "", "optional email claim")
	ttl := fs.Duration("ttl", 0, "token lifetime (defaults to the configured token validity)")
	if err := fs.Parse(flagx.FilterArgs(args, []string{"-u", "-e", "-ttl"})); err != nil {
		return err
	}
	if *userID == "" {
		return errors.New("-u is required")
	}

	cfg, err := config.Load(args)
	if err != nil {
		return err
	}
	if cfg.SecretKey == "" {
		return errors.New("JWT secret is required (JWT_SECRET or -s)")
	}

	validity := cfg.TokenValidityDuration
	if *ttl > 0 {
		validity = *ttl
	}

	token, err := auth.GenerateToken(*userID, *email, []byte(cfg.SecretKey), validity)
	if err != nil {
		return err
	}

	fmt.Println(token)
	return nil
}
