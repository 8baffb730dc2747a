package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zot/dock/internal/dock"
	"github.com/zot/dock/internal/layout"
	"github.com/zot/dock/internal/serializer"
	"github.com/zot/dock/internal/storage"
	"github.com/zot/dock/internal/watch"
)

// placeholders gives every restored element its ContentId as content, so a
// layout can be inspected without the application that produced it.
func placeholders(req serializer.Request) serializer.Response {
	if req.Previous != nil {
		return serializer.Response{Content: req.Previous}
	}
	return serializer.Response{Content: req.Model.Base().ContentID}
}

// manager builds a manager for restoring layouts. With prune set and no
// script, unresolved elements are hidden or closed as they would be in an
// application with no content.
func (a *app) manager(prune bool, opts ...dock.Option) (*dock.Manager, error) {
	resolve, err := a.resolve()
	if err != nil {
		return nil, err
	}
	if resolve == nil && !prune {
		resolve = placeholders
	}
	opts = append([]dock.Option{dock.WithResolver(resolve), dock.WithLogger(a.log)}, opts...)
	return dock.New(opts...), nil
}

func (a *app) loadFile(cmd *cobra.Command, path string, prune bool) (*dock.Manager, error) {
	codec, err := a.codecFor(cmd, path)
	if err != nil {
		return nil, err
	}
	m, err := a.manager(prune, dock.WithCodec(codec))
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if err := m.LoadLayout(f); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

func (a *app) showCommand() *cobra.Command {
	var prune bool
	cmd := &cobra.Command{
		Use:   "show <file>",
		Short: "Restore a layout file and print its tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.loadFile(cmd, args[0], prune)
			if err != nil {
				return err
			}
			return layout.Dump(cmd.OutOrStdout(), m.Layout())
		},
	}
	cmd.Flags().BoolVar(&prune, "prune", false, "restore without placeholder content: documents close, tools hide")
	return cmd
}

func (a *app) convertCommand() *cobra.Command {
	var to, output string
	cmd := &cobra.Command{
		Use:   "convert <file>",
		Short: "Re-encode a layout file as xml or json",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := a.codecFor(cmd, args[0])
			if err != nil {
				return err
			}
			target, err := serializer.CodecFor(to)
			if err != nil {
				return err
			}
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			root, err := from.Decode(f)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			if output == "" || output == "-" {
				return target.Encode(cmd.OutOrStdout(), root)
			}
			var buf bytes.Buffer
			if err := target.Encode(&buf, root); err != nil {
				return err
			}
			return os.WriteFile(output, buf.Bytes(), 0o644)
		},
	}
	cmd.Flags().StringVar(&to, "to", "json", "target format: xml or json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func (a *app) saveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "save [name] <file>",
		Short: "Store a layout file under a name (default from [layout] name)",
		Long:  "Store a layout file under a name (default from [layout] name). It also becomes the layout restored by a bare restore.",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, path := a.cfg.Layout.Name, args[0]
			if len(args) == 2 {
				name, path = args[0], args[1]
			}
			codec, err := a.codecFor(cmd, path)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			if _, err := codec.Decode(bytes.NewReader(data)); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			store, err := a.storage()
			if err != nil {
				return err
			}
			if err := storage.StoreLatest(store, &storage.LayoutData{Name: name, Format: codec.Name(), Data: data}); err != nil {
				return err
			}
			a.log.Info("layout stored", zap.String("name", name), zap.String("format", codec.Name()))
			fmt.Fprintf(cmd.OutOrStdout(), "saved %s (%s, %d bytes)\n", name, codec.Name(), len(data))
			return nil
		},
	}
}

func (a *app) restoreCommand() *cobra.Command {
	var prune bool
	cmd := &cobra.Command{
		Use:   "restore [name]",
		Short: "Restore a stored layout and print its tree",
		Long:  "Restore a stored layout and print its tree. Without a name the most recently saved layout is restored.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var name string
			if len(args) == 1 {
				name = args[0]
			}
			store, err := a.storage()
			if err != nil {
				return err
			}
			m, err := a.manager(prune, dock.WithStorage(store))
			if err != nil {
				return err
			}
			if err := m.Restore(name); err != nil {
				return err
			}
			return layout.Dump(cmd.OutOrStdout(), m.Layout())
		},
	}
	cmd.Flags().BoolVar(&prune, "prune", false, "restore without placeholder content")
	return cmd
}

func (a *app) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored layouts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.storage()
			if err != nil {
				return err
			}
			names, err := store.List()
			if err != nil {
				return err
			}
			for _, name := range names {
				if name == storage.LastLayout {
					continue
				}
				l, err := store.Load(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%d\t%s\n", name, l.Format, len(l.Data), l.UpdatedAt.Format("2006-01-02 15:04:05"))
			}
			return nil
		},
	}
}

func (a *app) deleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>...",
		Short: "Delete stored layouts",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.storage()
			if err != nil {
				return err
			}
			for _, name := range args {
				if !store.Exists(name) {
					return fmt.Errorf("%w: %q", storage.ErrNotFound, name)
				}
				if err := store.Delete(name); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func (a *app) watchCommand() *cobra.Command {
	var prune bool
	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Print a layout file's tree again every time it changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.watchFile(ctx, cmd, args[0], prune)
		},
	}
	cmd.Flags().BoolVar(&prune, "prune", false, "restore without placeholder content")
	return cmd
}

// watchFile shows path, then shows it again after every change until ctx ends.
// Reloads go through one manager, so each reload is matched against the
// previous one.
func (a *app) watchFile(ctx context.Context, cmd *cobra.Command, path string, prune bool) error {
	codec, err := a.codecFor(cmd, path)
	if err != nil {
		return err
	}
	m, err := a.manager(prune, dock.WithCodec(codec))
	if err != nil {
		return err
	}
	var mu sync.Mutex
	out := cmd.OutOrStdout()
	reload := func(p string) {
		mu.Lock()
		defer mu.Unlock()
		f, err := os.Open(p)
		if err != nil {
			a.log.Warn("cannot open layout", zap.Error(err))
			return
		}
		defer f.Close()
		if err := m.LoadLayout(f); err != nil {
			fmt.Fprintf(out, "%s: %v\n", p, err)
			return
		}
		fmt.Fprintf(out, "--- %s\n", p)
		layout.Dump(out, m.Layout())
	}

	w, err := watch.New(a.cfg.Watch.Debounce.Duration(), a.log, reload)
	if err != nil {
		return err
	}
	if err := w.Add(path); err != nil {
		w.Stop()
		return err
	}
	reload(path)
	w.Start()
	a.log.Info("watching layout", zap.String("path", path))
	<-ctx.Done()
	return w.Stop()
}

func (a *app) versionCommand(hooks *Hooks) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), "dock", Version)
			if hooks != nil && hooks.CustomVersion != nil {
				fmt.Fprintln(cmd.OutOrStdout(), hooks.CustomVersion())
			}
			return nil
		},
	}
}
