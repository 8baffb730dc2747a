// Package cli provides the dock command-line interface.
// It exports Run() and RunWithHooks() to allow extension by wrapper projects.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/zot/dock/internal/config"
	"github.com/zot/dock/internal/logging"
	"github.com/zot/dock/internal/script"
	"github.com/zot/dock/internal/serializer"
	"github.com/zot/dock/internal/storage"
)

// Version is the dock version.
const Version = "0.3.0"

// Hooks allows extending the CLI with additional commands.
type Hooks struct {
	// BeforeDispatch is called before command dispatch.
	// Return (handled=true, exitCode) to skip normal dispatch.
	BeforeDispatch func(command string, args []string) (handled bool, exitCode int)

	// Commands are added to the root command.
	Commands []*cobra.Command

	// CustomHelp returns additional help text to append.
	CustomHelp func() string

	// CustomVersion returns version info to append (optional).
	CustomVersion func() string
}

// Run executes the CLI with the given arguments.
// Returns exit code (0 = success, non-zero = error).
func Run(args []string) int {
	return RunWithHooks(args, nil)
}

// RunWithHooks executes CLI with extension hooks.
func RunWithHooks(args []string, hooks *Hooks) int {
	if hooks != nil && hooks.BeforeDispatch != nil && len(args) > 0 {
		if handled, code := hooks.BeforeDispatch(args[0], args[1:]); handled {
			return code
		}
	}
	return execute(args, os.Stdout, os.Stderr, hooks)
}

func execute(args []string, stdout, stderr io.Writer, hooks *Hooks) int {
	a := &app{stdout: stdout, stderr: stderr}
	root := a.rootCommand(hooks)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	err := root.Execute()
	a.close()
	if err != nil {
		if a.log != nil {
			a.log.Debug("command failed", zap.Error(err))
		}
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	return 0
}

// app holds the state shared by the commands of one invocation.
type app struct {
	stdout, stderr io.Writer

	configFile string
	overrides  config.Overrides
	cfg        *config.Config
	log        *zap.Logger
	store      storage.Backend
	resolver   *script.Resolver
}

func (a *app) rootCommand(hooks *Hooks) *cobra.Command {
	root := &cobra.Command{
		Use:           "dock",
		Short:         "Inspect, convert, store and restore docking layouts",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}
	root.SetVersionTemplate("dock {{.Version}}\n")

	pf := root.PersistentFlags()
	pf.StringVarP(&a.configFile, "config", "c", "", "config file (default ./"+config.DefaultFile+" when present)")
	pf.StringVar(&a.overrides.Storage, "storage", "", "storage type: memory, file, sqlite, postgresql")
	pf.StringVar(&a.overrides.StoragePath, "storage-path", "", "SQLite database path")
	pf.StringVar(&a.overrides.StorageURL, "storage-url", "", "PostgreSQL connection URL")
	pf.StringVar(&a.overrides.StorageDir, "storage-dir", "", "layout directory for the file backend")
	pf.StringVar(&a.overrides.Format, "format", "", "layout format: xml or json")
	pf.StringVar(&a.overrides.Script, "script", "", "Lua script defining resolve(item, previous)")
	pf.StringVar(&a.overrides.LogLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.CountVarP(&a.overrides.Verbosity, "verbose", "v", "verbosity (use -v, -vv)")

	root.AddCommand(
		a.showCommand(),
		a.convertCommand(),
		a.saveCommand(),
		a.restoreCommand(),
		a.listCommand(),
		a.deleteCommand(),
		a.watchCommand(),
		a.versionCommand(hooks),
	)
	if hooks != nil {
		root.AddCommand(hooks.Commands...)
		if hooks.CustomHelp != nil {
			root.Long = root.Short + "\n\n" + hooks.CustomHelp()
		}
	}
	return root
}

// init loads configuration and builds the logger.
func (a *app) init() error {
	cfg, err := config.Load(a.configFile)
	if err != nil {
		return err
	}
	cfg.Apply(a.overrides)
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg
	log, err := logging.New(cfg.Logging, zapcore.Lock(zapcore.AddSync(a.stderr)))
	if err != nil {
		return err
	}
	a.log = log
	return nil
}

// storage opens the configured backend once.
func (a *app) storage() (storage.Backend, error) {
	if a.store == nil {
		store, err := storage.Open(a.cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("open %s storage: %w", a.cfg.Storage.Type, err)
		}
		a.store = store
	}
	return a.store, nil
}

// resolve returns the configured Lua resolver, or nil.
func (a *app) resolve() (serializer.ResolveFunc, error) {
	if a.cfg.Layout.Script == "" {
		return nil, nil
	}
	if a.resolver == nil {
		r, err := script.Load(a.cfg.Layout.Script, a.log)
		if err != nil {
			return nil, err
		}
		a.resolver = r
	}
	return a.resolver.Resolve, nil
}

// codecFor picks the codec for path: an explicit --format, else the file
// extension, else the configured format.
func (a *app) codecFor(cmd *cobra.Command, path string) (serializer.Codec, error) {
	format := a.cfg.Layout.Format
	if !cmd.Flags().Changed("format") {
		switch {
		case strings.HasSuffix(strings.ToLower(path), ".json"):
			format = "json"
		case strings.HasSuffix(strings.ToLower(path), ".xml"):
			format = "xml"
		}
	}
	return serializer.CodecFor(format)
}

func (a *app) close() {
	var errs []error
	if a.resolver != nil {
		a.resolver.Close()
	}
	if a.store != nil {
		errs = append(errs, a.store.Close())
	}
	if a.log != nil {
		a.log.Sync()
	}
	if err := errors.Join(errs...); err != nil {
		fmt.Fprintln(a.stderr, "Error:", err)
	}
}
