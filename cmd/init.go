package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/illarion/kookie/internal/core"
)

func newInitCmd(a *app) *cobra.Command {
	var force, yes bool

	c := &cobra.Command{
		Use:   "init",
		Short: "Create a new vault",
		Long: `Creates an empty vault protected by a new master password.

The password is not stored anywhere unless you run 'kookie keyring save'.
With --force an existing vault is replaced; its secrets stay recoverable
only through 'kookie history'.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.open()
			if err != nil {
				return err
			}
			defer s.Close()

			if s.vault.Exists() {
				if !force {
					return core.ErrAlreadyExists
				}
				ok, err := a.confirm("This will replace the existing vault. Continue?", yes)
				if err != nil || !ok {
					return err
				}
			}

			password := os.Getenv(PasswordEnv)
			if password == "" {
				if password, err = a.prompt.NewPassword("New master password:"); err != nil {
					return err
				}
			}

			if force {
				err = s.vault.InitForce(password)
			} else {
				err = s.vault.Init(password)
			}
			if err != nil {
				return err
			}

			Success(a.out, "Initialized vault at %s", s.vault.Path())
			a.warnGitExposure()
			return nil
		},
	}

	c.Flags().BoolVarP(&force, "force", "f", false, "replace an existing vault")
	c.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return c
}
