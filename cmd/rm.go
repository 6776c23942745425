package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/illarion/kookie/internal/core"
	"github.com/illarion/kookie/internal/secrets"
)

func newRmCmd(a *app) *cobra.Command {
	var yes bool

	c := &cobra.Command{
		Use:     "rm <kind> <id-or-name>",
		Aliases: []string{"delete"},
		Short:   "Delete a secret",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := secrets.ParseKind(args[0])
			if err != nil {
				return err
			}

			s, err := a.unlocked()
			if err != nil {
				return err
			}
			defer s.Close()

			e, ok := s.vault.Get(kind, args[1])
			if !ok {
				return fmt.Errorf("%w: %s '%s'", core.ErrSecretNotFound, kind, args[1])
			}

			ok, err = a.confirm(fmt.Sprintf("Delete %s '%s'?", kind, e.EntryName()), yes)
			if err != nil || !ok {
				return err
			}

			if _, err := s.vault.Delete(kind, e.EntryID()); err != nil {
				return err
			}
			Success(a.out, "Deleted %s '%s'", kind, e.EntryName())
			return nil
		},
	}

	c.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return c
}
