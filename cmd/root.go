package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"
	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/shivamhw/reddit-purge/config"
	"github.com/shivamhw/reddit-purge/pkg/log"
	"github.com/shivamhw/reddit-purge/pkg/purge"
	"github.com/shivamhw/reddit-purge/sources"
)

const (
	exitOK     = 0
	exitFailed = 1
	exitConfig = 2
)

// App holds everything the commands reach outside the process, so tests
// can swap in fakes.
type App struct {
	Stdout      io.Writer
	Stderr      io.Writer
	Login       func(context.Context, *config.Config) (sources.AccountSource, error)
	Interactive func() bool
	Confirm     func(msg string) (bool, error)
	Opts        purge.Options
}

type rootCfg struct {
	configPath string
	logLevel   string
	yes        bool
}

func NewApp() *App {
	return &App{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Login: func(ctx context.Context, cfg *config.Config) (sources.AccountSource, error) {
			return sources.NewRedditSource(ctx, cfg, nil)
		},
		Interactive: func() bool {
			return isTerminal(os.Stdin)
		},
		Confirm: func(msg string) (bool, error) {
			ok := false
			err := survey.AskOne(&survey.Confirm{Message: msg}, &ok)
			return ok, err
		},
	}
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewApp().Run(ctx, os.Args[1:])
}

func (a *App) Run(ctx context.Context, args []string) int {
	if args == nil {
		args = []string{}
	}
	cmd := a.rootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(a.Stdout)
	cmd.SetErr(a.Stderr)
	err := cmd.ExecuteContext(ctx)
	log.Sync()
	if err == nil {
		return exitOK
	}
	fmt.Fprintf(a.Stderr, "%s %s\n", errorLabel(a.Stderr), err)
	if errors.Is(err, config.ErrConfigNotFound) || errors.Is(err, config.ErrConfigMalformed) {
		return exitConfig
	}
	return exitFailed
}

// errorLabel colours the ERROR prefix only when w itself is a terminal.
func errorLabel(w io.Writer) string {
	c := color.New(color.FgRed)
	if isTerminal(w) {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c.Sprint("ERROR:")
}

func isTerminal(w any) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func (a *App) rootCmd() *cobra.Command {
	var rCfg rootCfg
	opts := &a.Opts
	cmd := &cobra.Command{
		Use:   config.AppName,
		Short: "Delete your own Reddit submissions and comments",
		Long: `Delete your own Reddit submissions and comments.

Requires a secrets.json in the working directory with:
{ "client_id": "...", "client_secret": "...", "user_agent": "...", "username": "...", "password": "..." }

REDDIT_CLIENT_ID, REDDIT_CLIENT_SECRET, REDDIT_USER_AGENT, REDDIT_USERNAME and
REDDIT_PASSWORD (also read from a .env file) override the values in the file.`,
		Example: `  reddit-purge --older-than 30 --dry-run
  reddit-purge --older-than 365 --skip-submissions
  reddit-purge --filter 'subreddit == "golang" && score < 5' --yes
  reddit-purge --older-than 90 --archive ./archive`,
		Version:       config.Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			log.SetOutput(a.Stderr)
			log.SetId(uuid.NewString())
			return log.SetLevel(rCfg.logLevel)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().NFlag() == 0 {
				return cmd.Help()
			}
			return a.runPurge(cmd.Context(), &rCfg, opts)
		},
	}
	cmd.CompletionOptions.DisableDefaultCmd = true

	cmd.PersistentFlags().StringVar(&rCfg.configPath, "config", config.DefaultPath, "path to the credentials file")
	cmd.PersistentFlags().StringVar(&rCfg.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	cmd.Flags().IntVar(&opts.OlderThanDays, "older-than", 0, "only delete items older than N days (0 = no age filter)")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "show what would be deleted without actually deleting")
	cmd.Flags().BoolVar(&opts.SkipSubmissions, "skip-submissions", false, "skip deleting submissions (posts)")
	cmd.Flags().BoolVar(&opts.SkipComments, "skip-comments", false, "skip deleting comments")
	cmd.Flags().BoolVar(&opts.ContinueOnError, "continue-on-error", false, "keep going when a single item fails to delete and count the failures")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "only delete items matching this expression (fields: kind, id, subreddit, score, title, body, age_days)")
	cmd.Flags().StringVar(&opts.ArchiveDir, "archive", "", "write a JSON copy of every item to this directory before deleting it")
	cmd.Flags().BoolVarP(&rCfg.yes, "yes", "y", false, "do not ask for confirmation before deleting")

	cmd.AddCommand(a.whoamiCmd(&rCfg))
	return cmd
}

func (a *App) runPurge(ctx context.Context, rCfg *rootCfg, opts *purge.Options) error {
	cfg, err := config.Load(config.Opts{Path: rCfg.configPath})
	if err != nil {
		return err
	}
	runner, err := purge.NewRunner(opts, a.Stdout)
	if err != nil {
		return err
	}
	if !opts.DryRun && !rCfg.yes && a.Interactive() {
		ok, err := a.Confirm(fmt.Sprintf("Permanently delete matching content of /u/%s?", cfg.Username))
		if err != nil {
			return errors.Wrap(err, "confirm")
		}
		if !ok {
			fmt.Fprintln(a.Stdout, "Aborted, nothing was deleted.")
			return nil
		}
	}

	src, err := a.Login(ctx, cfg)
	if err != nil {
		return err
	}
	log.Infof("purging", "user", src.Me().Name, "older_than", opts.OlderThanDays, "dry_run", opts.DryRun)
	_, err = runner.Run(ctx, src)
	return err
}
