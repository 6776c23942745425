package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/illarion/kookie/internal/secrets"
)

func newLsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "ls [kind]",
		Aliases: []string{"list"},
		Short:   "List secrets without their values",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds := secrets.Kinds
			if len(args) == 1 {
				k, err := secrets.ParseKind(args[0])
				if err != nil {
					return err
				}
				kinds = []secrets.Kind{k}
			}

			s, err := a.unlocked()
			if err != nil {
				return err
			}
			defer s.Close()

			data := s.vault.Secrets()
			if data.Len() == 0 {
				fmt.Fprintln(a.out, "Vault is empty")
				fmt.Fprintln(a.out, "Use 'kookie add' to store a secret")
				return nil
			}
			if len(kinds) == 1 && data.Count(kinds[0]) == 0 {
				fmt.Fprintf(a.out, "No %s entries\n", kinds[0])
				return nil
			}
			printListing(a.out, data, kinds, time.Now())
			return nil
		},
	}
}

// printListing writes a name/id table for each kind that has entries.
func printListing(w io.Writer, data secrets.Collection, kinds []secrets.Kind, now time.Time) {
	first := true
	for _, k := range kinds {
		entries := data.Entries(k)
		if len(entries) == 0 {
			continue
		}
		if !first {
			fmt.Fprintln(w)
		}
		first = false

		fmt.Fprintf(w, "%s (%d)\n", Bold("%s", k), len(entries))
		for _, e := range entries {
			fmt.Fprintf(w, "  %-24s %s%s\n", e.EntryName(), Dim("%s", e.EntryID()), listingNote(e, now))
		}
	}
}

func listingNote(e secrets.Entry, now time.Time) string {
	switch e := e.(type) {
	case secrets.Password:
		if e.Username != nil {
			return "  " + *e.Username
		}
	case secrets.APIKey:
		if e.Service != nil {
			return "  " + *e.Service
		}
	case secrets.DBCredential:
		return fmt.Sprintf("  %s/%s", e.Host, e.Database)
	case secrets.Token:
		if e.IsExpiredAt(now) {
			return "  " + errorColor.Sprint("expired")
		}
	}
	return ""
}
