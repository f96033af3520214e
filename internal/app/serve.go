package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/blackwell-systems/ccflags/internal/compdb"
	"github.com/blackwell-systems/ccflags/internal/config"
	"github.com/blackwell-systems/ccflags/internal/httpapi"
	"github.com/blackwell-systems/ccflags/internal/rpc"
	"github.com/blackwell-systems/ccflags/internal/store"
)

var (
	serveFlagHTTP    string
	serveFlagNoWatch bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve flag lookups to an editor plugin",
	Long: `Start a long-running lookup service. By default it speaks
newline-delimited JSON-RPC 2.0 on stdin/stdout:

  {"jsonrpc":"2.0","id":1,"method":"flagsForFile","params":{"file":"/abs/a.cpp"}}

Methods: initialize, flagsForFile, isHeader, reload, shutdown.

With --http ADDR it serves GET /flags?file=/abs/a.cpp instead.

compile_commands.json is reloaded automatically when it changes, unless
--no-watch is given or the SQLite index is in use.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveFlagHTTP, "http", "", "Listen address for the HTTP API instead of stdio (e.g. 127.0.0.1:7878)")
	serveCmd.Flags().BoolVar(&serveFlagNoWatch, "no-watch", false, "Do not reload compile_commands.json on change")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), shutdownSignals...)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	var lookup compdb.Lookup
	var reload rpc.ReloadFunc

	if cfg.UseIndex && flagDBDir == "" {
		db, err := store.Open(cfg.IndexPath)
		if err != nil {
			return fmt.Errorf("opening index: %w", err)
		}
		defer db.Close()
		lookup = db
	} else {
		dir, err := databaseDir(cfg, "")
		if err != nil {
			return err
		}
		reloader, err := compdb.NewReloader(dir, func(db *compdb.Database, err error) {
			if err == nil {
				debugf("reloaded %d entries from %s", db.Len(), dir)
			}
		})
		if err != nil {
			return fmt.Errorf("loading compilation database: %w", err)
		}
		lookup = reloader
		reload = func() (int, error) {
			db, err := reloader.Reload()
			if err != nil {
				return 0, err
			}
			return db.Len(), nil
		}
		if !serveFlagNoWatch {
			g.Go(func() error { return reloader.Run(ctx) })
		}
		log.Printf("serving %d entries from %s", reloader.Current().Len(), dir)
	}

	res := newResolver(cfg, lookup)

	// The first service to return ends the others.
	serveCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if serveFlagHTTP != "" {
		srv := &http.Server{
			Addr:              serveFlagHTTP,
			Handler:           httpapi.NewServer(res, appVersion).Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			<-serveCtx.Done()
			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()
			return srv.Shutdown(shutdownCtx)
		})
		g.Go(func() error {
			defer cancel()
			log.Printf("listening on %s", serveFlagHTTP)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	} else {
		g.Go(func() error {
			defer cancel()
			return rpc.NewServer(res, reload, appVersion).Run(serveCtx, os.Stdin, os.Stdout)
		})
	}

	g.Go(func() error {
		<-serveCtx.Done()
		stop()
		return nil
	})

	return g.Wait()
}
