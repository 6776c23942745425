package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/illarion/kookie/internal/core"
	"github.com/illarion/kookie/internal/keyring"
)

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show vault file details without unlocking",
		Long:  `Shows where the vault lives, its format version and timestamps. Does not require a password.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v := core.New(a.cfg.VaultPath, core.WithLogger(a.log))

			info, err := v.Status()
			if errors.Is(err, core.ErrNotInitialized) {
				fmt.Fprintf(a.out, "No vault at %s\n", a.cfg.VaultPath)
				fmt.Fprintln(a.out, "Run 'kookie init' to create one")
				return nil
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(a.out, "%s %s\n", Bold("Vault:"), info.Path)
			fmt.Fprintf(a.out, "  %-12s %d\n", "Version:", info.Version)
			fmt.Fprintf(a.out, "  %-12s %s\n", "Size:", formatSize(info.Size))
			fmt.Fprintf(a.out, "  %-12s %s\n", "Created:", info.CreatedAt.Format(time.RFC3339))
			fmt.Fprintf(a.out, "  %-12s %s\n", "Modified:", info.ModifiedAt.Format(time.RFC3339))
			fmt.Fprintf(a.out, "  %-12s %s\n", "Keyring:", keyringState(info.Path))
			fmt.Fprintf(a.out, "  %-12s %s\n", "History:", a.historyState())
			a.warnGitExposure()
			return nil
		},
	}
}

func keyringState(vaultPath string) string {
	if keyring.HasPassword(vaultPath) {
		return "password stored"
	}
	return "not stored"
}

func (a *app) historyState() string {
	if !a.cfg.HistoryEnabled {
		return "disabled"
	}
	if !exists(a.cfg.HistoryPath) {
		return "no snapshots"
	}
	h, err := a.openHistory()
	if err != nil {
		return fmt.Sprintf("unavailable (%s)", err)
	}
	defer h.Close()

	snaps, err := h.List()
	if err != nil {
		return fmt.Sprintf("unavailable (%s)", err)
	}
	state := fmt.Sprintf("%d snapshot(s), keeping %d", len(snaps), a.cfg.HistoryLimit)
	if created, err := h.Created(); err == nil {
		state += ", since " + created.Local().Format(time.RFC3339)
	}
	return state
}
