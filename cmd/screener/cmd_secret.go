package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ndewijer/graham-screener/internal/secrets"
)

func newEncryptSecretCmd() *cobra.Command {
	var generate bool

	cmd := &cobra.Command{
		Use:   "encrypt-secret <value>",
		Short: "Encrypt a configuration secret with SECRET_KEY",
		Long: `Encrypt a value such as the FMP API key so it can be stored in .env:

  SECRET_KEY=$(screener encrypt-secret --generate-key)
  FMP_API_KEY=$(screener encrypt-secret my-api-key)`,
		// SECRET_KEY may live in .env; the rest of the configuration is not needed.
		PersistentPreRunE: func(*cobra.Command, []string) error {
			_ = godotenv.Load()
			return nil
		},
		Args: func(cmd *cobra.Command, args []string) error {
			if generate {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if generate {
				key, err := secrets.GenerateKey()
				if err != nil {
					return err
				}
				cmd.Println(key)
				return nil
			}

			key := os.Getenv("SECRET_KEY")
			if key == "" {
				return errors.New("SECRET_KEY is not set, create one with --generate-key")
			}
			token, err := secrets.Encrypt(key, args[0])
			if err != nil {
				return fmt.Errorf("failed to encrypt: %w", err)
			}
			cmd.Println(token)
			return nil
		},
	}

	cmd.Flags().BoolVar(&generate, "generate-key", false, "print a new SECRET_KEY instead")
	return cmd
}
