// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package command provides the root and sub-commands for the brweb
// boat rental marketplace. Commands are organized using the cobra
// library. The root command starts the web server itself, the "db"
// sub-command initializes the database, while the "rentals" and
// "users" sub-commands perform the operator actions.
//
//	./brweb [-c /path/of/config.yaml]           # start web server
//	./brweb db init-dev [-c /path/of/config.yaml]
//	./brweb db init-prod [-c /path/of/config.yaml]
//	./brweb rentals sweep [--today 2024-06-01]
//	./brweb users create-admin --email a@b.c --full-name Admin < pass
package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/momeni/boat-rental/pkg/adapter/auth/jwt"
	"github.com/momeni/boat-rental/pkg/adapter/config"
	"github.com/momeni/boat-rental/pkg/adapter/metrics"
	"github.com/momeni/boat-rental/pkg/adapter/restful/gin"
	"github.com/momeni/boat-rental/pkg/adapter/restful/gin/routes"
	"github.com/momeni/boat-rental/pkg/adapter/scheduler"
	"github.com/momeni/boat-rental/pkg/core/log"
	"github.com/momeni/boat-rental/pkg/core/repo"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "brweb",
	Short: "A boat rental marketplace web server",
	Long: `A boat rental marketplace web server which lets businesses
list their boats and captains, administrators verify the listed boats,
and customers search, book, and review the verified boats.
All settings are read from a YAML configuration file which is given by
the -c flag, the CONFIG_FILE environment variable, or is found at the
configs/sample-config.yaml path respectively.
The database must be initialized by the "db init-dev" or "db init-prod"
sub-commands beforehand.`,
	RunE:         startWebServer,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
}

// loadConfig loads the configuration file and sets up the logger, so
// all sub-commands log uniformly.
func loadConfig() (*config.Config, error) {
	c, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	if err = c.Logging.Setup(os.Stderr); err != nil {
		return nil, fmt.Errorf("setting up logger: %w", err)
	}
	return c, nil
}

// app holds the adapters which are shared by the web server and the
// operator sub-commands. Its close method releases them.
type app struct {
	cfg     *config.Config
	pool    repo.Pool
	ucs     *routes.UseCases
	tokens  *jwt.Tokens
	metrics *metrics.Metrics // nil if metrics are disabled

	closers []func() error
}

func newApp(ctx context.Context, c *config.Config) (*app, error) {
	a := &app{cfg: c}
	if err := a.init(ctx); err != nil {
		a.close(ctx)
		return nil, err
	}
	return a, nil
}

func (a *app) init(ctx context.Context) (err error) {
	c := a.cfg
	p, err := c.ConnectionPool(ctx, repo.NormalRole)
	if err != nil {
		return fmt.Errorf("creating DB pool: %w", err)
	}
	a.pool = p
	a.closers = append(a.closers, p.Close)
	st, closer, err := c.Storage.NewStorage(ctx)
	if err != nil {
		return fmt.Errorf("creating object storage: %w", err)
	}
	a.closers = append(a.closers, closer)
	n, err := c.SMTP.NewNotifier()
	if err != nil {
		return fmt.Errorf("creating notifier: %w", err)
	}
	a.tokens, err = c.Auth.NewTokens()
	if err != nil {
		return fmt.Errorf("creating bearer tokens: %w", err)
	}
	a.metrics = c.Metrics.NewMetrics()
	if a.metrics != nil {
		n = a.metrics.Notifier(n)
	}
	a.ucs, err = c.NewUseCases(p, st, n, a.tokens)
	return err
}

func (a *app) close(ctx context.Context) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			log.Warn(ctx, "releasing resource failed", log.Err("err", err))
		}
	}
}

func startWebServer(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(
		cmd.Context(), syscall.SIGINT, syscall.SIGTERM,
	)
	defer stop()
	c, err := loadConfig()
	if err != nil {
		return err
	}
	a, err := newApp(ctx, c)
	if err != nil {
		return err
	}
	defer a.close(context.Background())

	m := a.metrics
	var o gin.RequestObserver
	var so scheduler.Observer
	if m != nil {
		o, so = m, m
	}
	e := c.Gin.NewEngine(o)
	routes.Register(e, a.tokens, a.ucs)
	if m != nil {
		routes.RegisterMetrics(e, m.Handler())
	}
	c.Storage.ServeFiles(e)

	s, err := c.Usecases.Rentals.NewScheduler(a.ucs.Rentals, so)
	if err != nil {
		return fmt.Errorf("creating sweep scheduler: %w", err)
	}
	s.Start()
	defer func() {
		sctx, cancel := context.WithTimeout(
			context.Background(), c.Gin.ShutdownTimeout.Std(),
		)
		defer cancel()
		if err := s.Stop(sctx); err != nil {
			log.Warn(sctx, "stopping sweep scheduler", log.Err("err", err))
		}
	}()

	srv := &http.Server{Addr: c.Gin.Address, Handler: e}
	errs := make(chan error, 1)
	go func() {
		log.Info(ctx, "serving the REST APIs", slog.String("address", c.Gin.Address))
		errs <- srv.ListenAndServe()
	}()
	select {
	case err = <-errs:
		return fmt.Errorf("running web server: %w", err)
	case <-ctx.Done():
	}
	log.Info(ctx, "shutting down the web server")
	sctx, cancel := context.WithTimeout(
		context.Background(), c.Gin.ShutdownTimeout.Std(),
	)
	defer cancel()
	if err = srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutting down web server: %w", err)
	}
	if err = <-errs; !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("running web server: %w", err)
	}
	return nil
}

// Execute runs the rootCmd which in turn parses CLI arguments and
// flags and runs the most specific cobra command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(func() {
		cfgPath = config.Path(cfgPath)
	})
	rootCmd.PersistentFlags().StringVarP(
		&cfgPath, "config", "c", "", "config file path",
	)
}
