package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"syscall"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"
	"golang.org/x/sync/errgroup"

	"github.com/umputun/feed2reddit/pkg/alert"
	"github.com/umputun/feed2reddit/pkg/config"
	"github.com/umputun/feed2reddit/pkg/feed"
	"github.com/umputun/feed2reddit/pkg/formatter"
	"github.com/umputun/feed2reddit/pkg/mirror"
	"github.com/umputun/feed2reddit/pkg/reddit"
	"github.com/umputun/feed2reddit/pkg/scheduler"
	"github.com/umputun/feed2reddit/server"
)

// Opts with all CLI options
type Opts struct {
	Config string `short:"c" long:"config" env:"CONFIG" default:"config.yml" description:"configuration file"`
	Feeds  string `short:"f" long:"feeds" env:"FEEDS" default:"feeds.yml" description:"feed document with seen stories"`

	// overrides of config values
	Username string `short:"u" long:"username" env:"NEWS_BOT_USER_NAME" description:"reddit user name"`
	Password string `short:"p" long:"password" env:"NEWS_BOT_PASSWORD" description:"reddit password"`
	Submit   string `long:"submit" env:"NEWS_BOT_SUBMIT" description:"submit posts to reddit (true/false)"`
	Once     bool   `long:"once" env:"NEWS_BOT_RUN_ONCE" description:"run a single cycle and exit"`
	Email    string `long:"email" env:"NEWS_BOT_EMAIL" description:"alert destination"`
	DB       string `long:"db" env:"DATABASE_URL" description:"feed document mirror, redis url or sqlite file"`
	Listen   string `short:"l" long:"listen" env:"LISTEN" description:"status server listen address"`

	// Common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	color.NoColor = color.NoColor || opts.NoColor
	setupLog(opts.Debug, opts.Password)

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		lgr.Printf("[INFO] termination signal received")
		cancel()
	}()

	err := run(ctx, opts)
	cancel()

	if err != nil {
		lgr.Printf("[ERROR] %v", err)
		os.Exit(1)
	}

	lgr.Printf("[INFO] shutdown complete")
}

func run(ctx context.Context, opts Opts) error {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err = applyOverrides(cfg, opts); err != nil {
		return fmt.Errorf("failed to apply overrides: %w", err)
	}
	if err = cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	setupLog(opts.Debug, cfg.Password, cfg.API.ClientSecret)

	alertTo := cfg.Alert.To
	if alertTo == "" {
		alertTo = "nobody"
	}
	lgr.Printf("[INFO] starting feed2reddit version %s, user %s, subreddit %s, submit %v, once %v, alerts to %s",
		revision, cfg.Username, cfg.Subreddit, cfg.Submit, opts.Once, alertTo)

	var feedMirror config.Mirror
	if cfg.Mirror.DSN != "" {
		m, mErr := mirror.New(ctx, cfg.Mirror.DSN, cfg.Mirror.Key)
		if mErr != nil {
			return fmt.Errorf("failed to open feeds mirror: %w", mErr)
		}
		defer m.Close()
		feedMirror = m
	}

	store := config.NewFeedStore(opts.Feeds, feedMirror)
	if err = store.Load(ctx); err != nil {
		return fmt.Errorf("failed to load feeds: %w", err)
	}

	client := reddit.New(reddit.Config{
		UserAgent:    cfg.API.UserAgent,
		ClientID:     cfg.API.ClientID,
		ClientSecret: cfg.API.ClientSecret,
		Username:     cfg.Username,
		Password:     cfg.Password,
		AuthURL:      cfg.API.AuthURL,
		BaseURL:      cfg.API.BaseURL,
		Timeout:      cfg.API.Timeout,
	})

	params := scheduler.Params{
		Store:               store,
		Fetcher:             feed.NewFetcher(cfg.API.Timeout, cfg.API.UserAgent),
		Formatter:           formatter.New(cfg.MaxSegmentLength, cfg.Signature),
		Poster:              client,
		Username:            cfg.Username,
		Subreddit:           cfg.Subreddit,
		AlertTo:             cfg.Alert.To,
		Submit:              cfg.Submit,
		Once:                opts.Once,
		BaseInterval:        cfg.SleepTime,
		ReplyDelay:          cfg.ReplyDelay,
		RetentionMonths:     cfg.RetentionMonths,
		ModerationLimit:     cfg.Moderation.Limit,
		ModerationThreshold: cfg.Moderation.DeleteThreshold(),
	}

	// sweep needs an authorized client, skip it for anonymous dry runs
	if cfg.API.ClientID != "" {
		params.Moderator = client
	} else {
		lgr.Printf("[INFO] no api client id, submissions sweep disabled")
	}

	if cfg.Alert.NatsURL != "" && cfg.Alert.To != "" {
		alerter, aErr := alert.NewNats(cfg.Alert.NatsURL, cfg.Alert.Subject)
		if aErr != nil {
			return fmt.Errorf("failed to connect alerts: %w", aErr)
		}
		defer alerter.Close()
		params.Alerter = alerter
	}

	poller := scheduler.NewPoller(params)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(runCtx)

	g.Go(func() error {
		defer cancel() // single run stops the status server too
		if err := poller.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("poller: %w", err)
		}
		return nil
	})

	if cfg.Server.Listen != "" {
		srv := server.New(cfg.Server.Listen, cfg.Server.Timeout, poller, revision, opts.Debug)
		g.Go(func() error {
			if err := srv.Run(gctx); err != nil {
				return fmt.Errorf("status server: %w", err)
			}
			return nil
		})
	}

	return g.Wait()
}

// applyOverrides puts command line and environment values over the config file
func applyOverrides(cfg *config.Config, opts Opts) error {
	if opts.Username != "" {
		cfg.Username = opts.Username
	}
	if opts.Password != "" {
		cfg.Password = opts.Password
	}
	if opts.Submit != "" {
		submit, err := strconv.ParseBool(opts.Submit)
		if err != nil {
			return fmt.Errorf("bad submit value %q: %w", opts.Submit, err)
		}
		cfg.Submit = submit
	}
	if opts.Email != "" {
		cfg.Alert.To = opts.Email
	}
	if opts.DB != "" {
		cfg.Mirror.DSN = opts.DB
	}
	if opts.Listen != "" {
		cfg.Server.Listen = opts.Listen
	}
	return nil
}

func setupLog(dbg bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.CallerFile, lgr.CallerFunc, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	colorizer := lgr.Mapper{
		ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
		WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
		InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
		DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
		CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
		TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
	}
	logOpts = append(logOpts, lgr.Map(colorizer))

	var secrets []string
	for _, s := range secs {
		if s != "" {
			secrets = append(secrets, s)
		}
	}
	if len(secrets) > 0 {
		logOpts = append(logOpts, lgr.Secret(secrets...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
