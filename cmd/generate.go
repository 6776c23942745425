package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/illarion/kookie/internal/generate"
)

func newGenerateCmd(a *app) *cobra.Command {
	c := &cobra.Command{
		Use:     "generate",
		Aliases: []string{"gen"},
		Short:   "Generate random secrets without storing them",
	}

	var (
		length    int
		noSymbols bool
		size      int
	)

	password := &cobra.Command{
		Use:   "password",
		Short: "Generate a random password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printGenerated(a, func() (string, error) {
				return generate.Password(length, !noSymbols)
			})
		},
	}
	password.Flags().IntVarP(&length, "length", "l", generate.DefaultPasswordLength, "password length")
	password.Flags().BoolVar(&noSymbols, "no-symbols", false, "letters and digits only")

	key := &cobra.Command{
		Use:   "key",
		Short: "Generate a random URL-safe key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printGenerated(a, func() (string, error) {
				return generate.RandomKey(size)
			})
		},
	}
	key.Flags().IntVarP(&size, "bytes", "b", 32, "number of random bytes")

	apiKey := &cobra.Command{
		Use:   "api-key",
		Short: "Generate an API key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printGenerated(a, generate.APIKey)
		},
	}

	jwtSecret := &cobra.Command{
		Use:   "jwt-secret",
		Short: "Generate a 256-bit JWT signing secret",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printGenerated(a, generate.JWTSecret)
		},
	}

	c.AddCommand(password, key, apiKey, jwtSecret)
	return c
}

func printGenerated(a *app, gen func() (string, error)) error {
	s, err := gen()
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, s)
	return nil
}
