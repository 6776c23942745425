// Package cmd implements the kookie command line.
package cmd

import (
	"context"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/illarion/kookie/internal/config"
	"github.com/illarion/kookie/internal/logging"
	"github.com/illarion/kookie/internal/prompt"
)

// app carries per-invocation state shared by all commands.
type app struct {
	v       *viper.Viper
	cfgFile string

	cfg    *config.Config
	log    *slog.Logger
	prompt *prompt.Prompter
	out    io.Writer
	errOut io.Writer
}

// NewRootCmd builds the kookie command tree.
func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "kookie",
		Short: "Local, password-protected secret vault",
		Long: `kookie keeps passwords, API keys, notes, database credentials and tokens
in a single encrypted file, unlocked with a master password.

The master password is taken from KOOKIE_PASSWORD, then the OS keyring,
then an interactive prompt.

Examples:
  kookie init
  kookie add password github --username octocat --generate
  kookie get password github --show
  kookie ls
  kookie history list`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default ~/.kookie/config.yaml)")
	flags.String(config.KeyVault, "", "vault file (default ~/.kookie/vault.json)")
	flags.String(config.KeyHistory, "", "snapshot history file (default <vault>.history)")
	flags.Bool("no-history", false, "do not record snapshots")
	flags.String("log-level", "", "log level: debug, info, warn, error")

	_ = a.v.BindPFlag(config.KeyVault, flags.Lookup(config.KeyVault))
	_ = a.v.BindPFlag(config.KeyHistory, flags.Lookup(config.KeyHistory))
	_ = a.v.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))

	root.AddCommand(
		newInitCmd(a),
		newAddCmd(a),
		newGetCmd(a),
		newRmCmd(a),
		newLsCmd(a),
		newStatusCmd(a),
		newGenerateCmd(a),
		newKeyringCmd(a),
		newHistoryCmd(a),
	)
	return root
}

// setup resolves configuration and builds the logger and prompter.
func (a *app) setup(cmd *cobra.Command) error {
	config.SetDefaults(a.v)
	if err := config.ReadFile(a.v, a.cfgFile); err != nil {
		return err
	}

	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	if noHistory, _ := cmd.Flags().GetBool("no-history"); noHistory {
		cfg.HistoryEnabled = false
	}

	a.out = cmd.OutOrStdout()
	a.errOut = cmd.ErrOrStderr()
	a.log, err = logging.New(a.errOut, cfg.LogLevel)
	if err != nil {
		return err
	}
	a.prompt = prompt.New(cmd.InOrStdin(), a.errOut)
	a.cfg = cfg

	a.log.Debug("configuration loaded", "vault", cfg.VaultPath, "history", cfg.HistoryPath, "history_enabled", cfg.HistoryEnabled)
	return nil
}

// Execute runs the command line and exits non-zero on failure.
func Execute(ctx context.Context) {
	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		HandleError(err)
	}
}
