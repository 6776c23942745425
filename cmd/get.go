package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/illarion/kookie/internal/core"
	"github.com/illarion/kookie/internal/secrets"
)

const masked = "********"

func newGetCmd(a *app) *cobra.Command {
	var show, conn bool

	c := &cobra.Command{
		Use:   "get <kind> <id-or-name>",
		Short: "Show a secret",
		Long: `Shows one secret, looked up by id first and then by name.
Secret values are masked unless --show is given. For database credentials
--conn prints only the connection string.

Kinds: password, api-key, note, db, token`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := secrets.ParseKind(args[0])
			if err != nil {
				return err
			}
			if conn && kind != secrets.KindDBCredential {
				return fmt.Errorf("--conn only applies to database credentials")
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

			if conn {
				fmt.Fprintln(a.out, e.(secrets.DBCredential).ConnectionString())
				return nil
			}
			printEntry(a.out, e, show, time.Now())
			return nil
		},
	}

	c.Flags().BoolVarP(&show, "show", "s", false, "reveal secret values")
	c.Flags().BoolVar(&conn, "conn", false, "print the connection string (db only)")
	return c
}

func reveal(value string, show bool) string {
	if show {
		return value
	}
	return masked
}

// printEntry writes the fields of e, masking secret values unless show is set.
func printEntry(w io.Writer, e secrets.Entry, show bool, now time.Time) {
	switch e := e.(type) {
	case secrets.Password:
		fmt.Fprintln(w, Bold("%s", e.Name))
		printField(w, "Username", e.Username)
		fmt.Fprintf(w, "  %-12s %s\n", "Password:", reveal(e.Password, show))
		printField(w, "URL", e.URL)
		printField(w, "Description", e.Description)
		printMeta(w, e.Meta)
	case secrets.APIKey:
		fmt.Fprintln(w, Bold("%s", e.Name))
		fmt.Fprintf(w, "  %-12s %s\n", "Key:", reveal(e.Key, show))
		printField(w, "Service", e.Service)
		printField(w, "Description", e.Description)
		printMeta(w, e.Meta)
	case secrets.Note:
		fmt.Fprintln(w, Bold("%s", e.Name))
		if show {
			fmt.Fprintln(w, e.Content)
		} else {
			fmt.Fprintf(w, "  %-12s %s\n", "Content:", masked)
		}
		printMeta(w, e.Meta)
	case secrets.DBCredential:
		fmt.Fprintln(w, Bold("%s", e.Name))
		printField(w, "Type", e.DBType)
		fmt.Fprintf(w, "  %-12s %s\n", "Host:", e.Host)
		if e.Port != nil {
			fmt.Fprintf(w, "  %-12s %d\n", "Port:", *e.Port)
		}
		fmt.Fprintf(w, "  %-12s %s\n", "Database:", e.Database)
		fmt.Fprintf(w, "  %-12s %s\n", "Username:", e.Username)
		fmt.Fprintf(w, "  %-12s %s\n", "Password:", reveal(e.Password, show))
		printField(w, "Description", e.Description)
		printMeta(w, e.Meta)
	case secrets.Token:
		fmt.Fprintln(w, Bold("%s", e.Name))
		fmt.Fprintf(w, "  %-12s %s\n", "Token:", reveal(e.Token, show))
		printField(w, "Type", e.TokenType)
		if e.ExpiresAt != nil {
			exp := e.ExpiresAt.Format(time.RFC3339)
			if e.IsExpiredAt(now) {
				exp = errorColor.Sprintf("%s (expired)", exp)
			}
			fmt.Fprintf(w, "  %-12s %s\n", "Expires:", exp)
		}
		printField(w, "Description", e.Description)
		printMeta(w, e.Meta)
	}
}

func printMeta(w io.Writer, m secrets.Meta) {
	fmt.Fprintf(w, "  %-12s %s\n", "ID:", Dim("%s", m.ID))
	fmt.Fprintf(w, "  %-12s %s\n", "Created:", Dim("%s", m.CreatedAt.Format(time.RFC3339)))
}
