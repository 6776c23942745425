package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/illarion/kookie/internal/storage"
)

func newHistoryCmd(a *app) *cobra.Command {
	c := &cobra.Command{
		Use:   "history",
		Short: "Inspect and restore earlier versions of the vault",
		Long: `Every save keeps the encrypted vault file it replaces. Snapshots stay
encrypted with the master password that was current when they were taken.`,
	}
	c.AddCommand(
		newHistoryListCmd(a),
		newHistoryDiffCmd(a),
		newHistoryRestoreCmd(a),
		newHistoryRmCmd(a),
		newHistoryPruneCmd(a),
		newHistoryCompactCmd(a),
	)
	return c
}

func parseSnapshotID(s string) (uint64, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid snapshot id %q", s)
	}
	return id, nil
}

func newHistoryListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List snapshots, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			h, err := a.openHistory()
			if err != nil {
				return err
			}
			defer h.Close()

			snaps, err := h.List()
			if err != nil {
				return err
			}
			if len(snaps) == 0 {
				Info(a.out, "No snapshots")
				return nil
			}

			fmt.Fprintf(a.out, "%-20s  %-25s  %s\n", Bold("ID"), Bold("TAKEN"), Bold("SIZE"))
			for _, s := range snaps {
				fmt.Fprintf(a.out, "%-20d  %-25s  %s\n", s.ID, s.Taken.Local().Format(time.RFC3339), formatSize(int64(s.Size)))
			}
			return nil
		},
	}
}

func newHistoryDiffCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "diff [id]",
		Short: "Show entries added or removed since a snapshot",
		Long: `Compares the entry names of a snapshot with the current vault. Lines
starting with "-" exist only in the snapshot, "+" only in the vault.
Without an id the newest snapshot is used. Secret values are never shown.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := a.openHistory()
			if err != nil {
				return err
			}
			envelope, err := snapshotEnvelope(h, args)
			h.Close()
			if err != nil {
				return err
			}

			s, err := a.unlocked()
			if err != nil {
				return err
			}
			defer s.Close()

			diff, err := s.vault.DiffSnapshot(envelope, s.password)
			if err != nil {
				return err
			}
			printDiff(a, diff)
			return nil
		},
	}
}

// snapshotEnvelope returns the snapshot named by args, or the newest one.
func snapshotEnvelope(h *storage.Storage, args []string) ([]byte, error) {
	if len(args) == 0 {
		_, envelope, err := h.Latest()
		return envelope, err
	}
	id, err := parseSnapshotID(args[0])
	if err != nil {
		return nil, err
	}
	return h.Get(id)
}

func printDiff(a *app, diff string) {
	changed := false
	sc := bufio.NewScanner(strings.NewReader(diff))
	for sc.Scan() {
		line := sc.Text()
		switch {
		case strings.HasPrefix(line, "+"):
			successColor.Fprintln(a.out, line)
			changed = true
		case strings.HasPrefix(line, "-"):
			errorColor.Fprintln(a.out, line)
			changed = true
		}
	}
	if !changed {
		fmt.Fprintln(a.out, "No changes")
	}
}

func newHistoryRestoreCmd(a *app) *cobra.Command {
	var yes bool

	c := &cobra.Command{
		Use:   "restore <id>",
		Short: "Replace the vault with a snapshot",
		Long: `Replaces the vault file with a snapshot. The file being replaced is
itself kept as a new snapshot, so a restore can be undone.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseSnapshotID(args[0])
			if err != nil {
				return err
			}

			s, err := a.open()
			if err != nil {
				return err
			}
			defer s.Close()
			if s.history == nil {
				return errHistoryDisabled
			}

			envelope, err := s.history.Get(id)
			if err != nil {
				return err
			}

			ok, err := a.confirm(fmt.Sprintf("Restore snapshot %d over the current vault?", id), yes)
			if err != nil || !ok {
				return err
			}

			pw, _, err := a.masterPassword(s.vault.Path())
			if err != nil {
				return err
			}
			if err := s.vault.Restore(envelope, pw); err != nil {
				return err
			}
			Success(a.out, "Restored snapshot %d (%d entries)", id, s.vault.Secrets().Len())
			return nil
		},
	}

	c.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return c
}

func newHistoryRmCmd(a *app) *cobra.Command {
	var yes bool

	c := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete one snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseSnapshotID(args[0])
			if err != nil {
				return err
			}

			h, err := a.openHistory()
			if err != nil {
				return err
			}
			defer h.Close()

			if _, err := h.Get(id); err != nil {
				return err
			}
			ok, err := a.confirm(fmt.Sprintf("Delete snapshot %d? It cannot be recovered.", id), yes)
			if err != nil || !ok {
				return err
			}

			if err := h.Delete(id); err != nil {
				return err
			}
			Success(a.out, "Deleted snapshot %d", id)
			return nil
		},
	}

	c.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return c
}

func newHistoryPruneCmd(a *app) *cobra.Command {
	var keep int

	c := &cobra.Command{
		Use:   "prune",
		Short: "Delete all but the newest snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("keep") {
				keep = a.cfg.HistoryLimit
			}
			if keep < 0 {
				return fmt.Errorf("--keep must not be negative")
			}

			h, err := a.openHistory()
			if err != nil {
				return err
			}
			defer h.Close()

			removed, err := h.Prune(keep)
			if err != nil {
				return err
			}
			Success(a.out, "Removed %d snapshot(s)", removed)
			return nil
		},
	}

	c.Flags().IntVar(&keep, "keep", storage.DefaultLimit, "number of snapshots to keep (default history_limit)")
	return c
}

func newHistoryCompactCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "compact",
		Short: "Reclaim space in the history file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			h, err := a.openHistory()
			if err != nil {
				return err
			}
			defer h.Close()

			before, err := os.Stat(h.Path())
			if err != nil {
				return err
			}
			if err := h.Compact(); err != nil {
				return err
			}
			after, err := os.Stat(h.Path())
			if err != nil {
				return err
			}

			fmt.Fprintf(a.out, "Compacted: %s -> %s\n", formatSize(before.Size()), formatSize(after.Size()))
			return nil
		},
	}
}
