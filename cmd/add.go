package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/illarion/kookie/internal/core"
	"github.com/illarion/kookie/internal/generate"
	"github.com/illarion/kookie/internal/prompt"
	"github.com/illarion/kookie/internal/secrets"
)

func newAddCmd(a *app) *cobra.Command {
	c := &cobra.Command{
		Use:   "add",
		Short: "Add a secret to the vault",
		Long: `Adds a secret. Fields not given as flags are asked for interactively;
secret values are always read without echo or generated.`,
	}
	c.AddCommand(
		newAddPasswordCmd(a),
		newAddAPIKeyCmd(a),
		newAddNoteCmd(a),
		newAddDBCmd(a),
		newAddTokenCmd(a),
	)
	return c
}

// withVault unlocks the vault, runs fn and reports the added entry.
func (a *app) withVault(kind secrets.Kind, name string, fn func(v *core.Vault) error) error {
	s, err := a.unlocked()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := fn(s.vault); err != nil {
		return err
	}
	Success(a.out, "Added %s '%s'", kind, name)
	return nil
}

// optFlag returns the flag value, or asks for it when the flag was not set.
func optFlag(cmd *cobra.Command, p *prompt.Prompter, flag, question string) (*string, error) {
	if cmd.Flags().Changed(flag) {
		v, _ := cmd.Flags().GetString(flag)
		return secrets.Opt(v), nil
	}
	return p.Optional(question)
}

// reqFlag returns the flag value, or asks for it until it is non-empty.
func reqFlag(cmd *cobra.Command, p *prompt.Prompter, flag, question string) (string, error) {
	if v, _ := cmd.Flags().GetString(flag); v != "" {
		return v, nil
	}
	for {
		v, err := p.Text(question)
		if err != nil || v != "" {
			return v, err
		}
	}
}

// secretValue reads a hidden value and refuses empty ones.
func secretValue(p *prompt.Prompter, question string) (string, error) {
	for {
		v, err := p.Password(question)
		if err != nil || v != "" {
			return v, err
		}
	}
}

func newAddPasswordCmd(a *app) *cobra.Command {
	var (
		gen       bool
		length    int
		noSymbols bool
	)

	c := &cobra.Command{
		Use:     "password <name>",
		Aliases: []string{"pw", "login"},
		Short:   "Add a website or service login",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			return a.withVault(secrets.KindPassword, name, func(v *core.Vault) error {
				var (
					value string
					err   error
				)
				if gen {
					value, err = generate.Password(length, !noSymbols)
				} else {
					value, err = secretValue(a.prompt, "Password:")
				}
				if err != nil {
					return err
				}

				p := secrets.NewPassword(name, value)
				if p.Username, err = optFlag(cmd, a.prompt, "username", "Username (optional):"); err != nil {
					return err
				}
				if p.URL, err = optFlag(cmd, a.prompt, "url", "URL (optional):"); err != nil {
					return err
				}
				if p.Description, err = optFlag(cmd, a.prompt, "description", "Description (optional):"); err != nil {
					return err
				}
				if err := v.AddPassword(p); err != nil {
					return err
				}
				if gen {
					fmt.Fprintf(a.out, "Generated password: %s\n", value)
				}
				return nil
			})
		},
	}

	c.Flags().String("username", "", "login name")
	c.Flags().String("url", "", "site URL")
	c.Flags().String("description", "", "free-form description")
	c.Flags().BoolVarP(&gen, "generate", "g", false, "generate a random password")
	c.Flags().IntVar(&length, "length", generate.DefaultPasswordLength, "generated password length")
	c.Flags().BoolVar(&noSymbols, "no-symbols", false, "generate letters and digits only")
	return c
}

func newAddAPIKeyCmd(a *app) *cobra.Command {
	var gen bool

	c := &cobra.Command{
		Use:     "api-key <name>",
		Aliases: []string{"apikey", "key"},
		Short:   "Add an API key",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			return a.withVault(secrets.KindAPIKey, name, func(v *core.Vault) error {
				var (
					value string
					err   error
				)
				if gen {
					value, err = generate.APIKey()
				} else {
					value, err = secretValue(a.prompt, "API key:")
				}
				if err != nil {
					return err
				}

				k := secrets.NewAPIKey(name, value)
				if k.Service, err = optFlag(cmd, a.prompt, "service", "Service (optional):"); err != nil {
					return err
				}
				if k.Description, err = optFlag(cmd, a.prompt, "description", "Description (optional):"); err != nil {
					return err
				}
				if err := v.AddAPIKey(k); err != nil {
					return err
				}
				if gen {
					fmt.Fprintf(a.out, "Generated API key: %s\n", value)
				}
				return nil
			})
		},
	}

	c.Flags().String("service", "", "service the key belongs to")
	c.Flags().String("description", "", "free-form description")
	c.Flags().BoolVarP(&gen, "generate", "g", false, "generate a random API key")
	return c
}

func newAddNoteCmd(a *app) *cobra.Command {
	c := &cobra.Command{
		Use:   "note <name>",
		Short: "Add a secure note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			return a.withVault(secrets.KindNote, name, func(v *core.Vault) error {
				content, err := reqFlag(cmd, a.prompt, "content", "Content:")
				if err != nil {
					return err
				}
				return v.AddNote(secrets.NewNote(name, content))
			})
		},
	}

	c.Flags().String("content", "", "note content")
	return c
}

func newAddDBCmd(a *app) *cobra.Command {
	c := &cobra.Command{
		Use:     "db <name>",
		Aliases: []string{"db-credential", "database"},
		Short:   "Add database credentials",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			return a.withVault(secrets.KindDBCredential, name, func(v *core.Vault) error {
				dbType, _ := cmd.Flags().GetString("type")

				host, err := reqFlag(cmd, a.prompt, "host", "Host:")
				if err != nil {
					return err
				}
				port, err := cmd.Flags().GetUint16("port")
				if err != nil {
					return err
				}
				if !cmd.Flags().Changed("port") {
					def := uint32(secrets.DefaultPort(dbType))
					n, err := a.prompt.Number("Port", &def)
					if err != nil {
						return err
					}
					if n > 65535 {
						return fmt.Errorf("port %d out of range", n)
					}
					port = uint16(n)
				}
				database, err := reqFlag(cmd, a.prompt, "database", "Database:")
				if err != nil {
					return err
				}
				username, err := reqFlag(cmd, a.prompt, "username", "Username:")
				if err != nil {
					return err
				}
				password, err := secretValue(a.prompt, "Password:")
				if err != nil {
					return err
				}

				cred := secrets.NewDBCredential(name, host, database, username, password)
				cred.Port = &port
				cred.DBType = secrets.Opt(dbType)
				if cred.Description, err = optFlag(cmd, a.prompt, "description", "Description (optional):"); err != nil {
					return err
				}
				return v.AddDBCredential(cred)
			})
		},
	}

	c.Flags().String("host", "", "database host")
	c.Flags().Uint16("port", 0, "database port (default depends on --type)")
	c.Flags().String("database", "", "database name")
	c.Flags().String("username", "", "database user")
	c.Flags().String("type", secrets.DefaultDBType, "database type: postgres, mysql, mongodb")
	c.Flags().String("description", "", "free-form description")
	return c
}

func newAddTokenCmd(a *app) *cobra.Command {
	c := &cobra.Command{
		Use:   "token <name>",
		Short: "Add an access token",
		Long: `Adds a bearer, OAuth or JWT token. Without --expires the expiry is read
from the exp claim when the token is a JWT.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			expires, _ := cmd.Flags().GetString("expires")
			expiresAt, err := parseExpiry(expires, time.Now())
			if err != nil {
				return err
			}

			return a.withVault(secrets.KindToken, name, func(v *core.Vault) error {
				value, err := secretValue(a.prompt, "Token:")
				if err != nil {
					return err
				}

				t := secrets.NewToken(name, value)
				t.ExpiresAt = expiresAt
				if t.ExpiresAt == nil {
					if exp, ok := secrets.JWTExpiry(value); ok {
						t.ExpiresAt = exp
						a.log.Debug("token expiry taken from JWT", "name", name)
					}
				}
				if t.TokenType, err = optFlag(cmd, a.prompt, "type", "Token type (optional):"); err != nil {
					return err
				}
				if t.Description, err = optFlag(cmd, a.prompt, "description", "Description (optional):"); err != nil {
					return err
				}
				return v.AddToken(t)
			})
		},
	}

	c.Flags().String("type", "", "token type, e.g. bearer or oauth")
	c.Flags().String("expires", "", "expiry as RFC 3339 time or duration from now (e.g. 720h)")
	c.Flags().String("description", "", "free-form description")
	return c
}

// parseExpiry accepts an RFC 3339 timestamp or a duration relative to now.
func parseExpiry(s string, now time.Time) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		t = t.UTC()
		return &t, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return nil, fmt.Errorf("invalid expiry %q: want RFC 3339 time or duration", s)
	}
	t := now.Add(d).UTC()
	return &t, nil
}
