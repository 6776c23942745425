package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/illarion/kookie/internal/core"
	"github.com/illarion/kookie/internal/keyring"
)

func newKeyringCmd(a *app) *cobra.Command {
	c := &cobra.Command{
		Use:   "keyring",
		Short: "Manage the master password cached in the OS keyring",
	}

	save := &cobra.Command{
		Use:   "save",
		Short: "Verify the master password and store it in the keyring",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v := core.New(a.cfg.VaultPath, core.WithLogger(a.log))
			defer v.Lock()
			if !v.Exists() {
				return core.ErrNotInitialized
			}

			// Always ask, so a stale keyring entry cannot vouch for itself
			password, err := a.prompt.Password("Master password:")
			if err != nil {
				return err
			}
			if err := v.Unlock(password); err != nil {
				return err
			}

			if err := keyring.SavePassword(v.Path(), password); err != nil {
				return fmt.Errorf("failed to save to keyring: %w", err)
			}
			Success(a.out, "Password saved to keyring")
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete",
		Short: "Remove the master password from the keyring",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := keyring.DeletePassword(a.cfg.VaultPath); err != nil {
				if keyring.IsNotFound(err) {
					fmt.Fprintln(a.out, "No password stored in keyring")
					return nil
				}
				return err
			}
			Success(a.out, "Password removed from keyring")
			return nil
		},
	}

	status := &cobra.Command{
		Use:   "status",
		Short: "Report whether a password is stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if keyring.HasPassword(a.cfg.VaultPath) {
				fmt.Fprintln(a.out, "Password: stored in keyring")
			} else {
				fmt.Fprintln(a.out, "Password: not stored")
			}
			return nil
		},
	}

	c.AddCommand(save, del, status)
	return c
}
