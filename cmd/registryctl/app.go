package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"registry-client/internal/auth"
	"registry-client/internal/config"
	"registry-client/internal/form"
	"registry-client/internal/gateway"
	"registry-client/internal/guard"
	"registry-client/internal/logger"
	"registry-client/internal/push"

	"github.com/docopt/docopt-go"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

// app holds everything a command needs
type app struct {
	cfg      *config.Config
	client   *gateway.Client
	hub      *push.Hub
	header   http.Header
	username string
	board    *guard.NoticeBoard
	printer  *printer
	in       *bufio.Reader
	errOut   io.Writer
	log      *logger.Logger
}

func newApp(opts docopt.Opts) (*app, error) {
	// Load environment variables from .env file in development
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found, using system environment variables")
	}

	var cfg *config.Config
	var err error
	if path, _ := opts.String("--config"); path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	// logs go to stderr so that stdout stays machine readable
	logger.Setup(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	format, _ := opts.String("--output")
	p, err := newPrinter(os.Stdout, format)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:     cfg,
		hub:     push.NewHub(),
		header:  http.Header{},
		board:   guard.NewNoticeBoard(),
		printer: p,
		in:      bufio.NewReader(os.Stdin),
		errOut:  os.Stderr,
		log:     logger.ForComponent("registryctl"),
	}

	var source oauth2.TokenSource
	if cfg.APIToken != "" {
		tokens, err := auth.NewTokenSource(cfg.APIToken)
		if err != nil {
			return nil, err
		}
		if _, err := tokens.Token(); err != nil {
			return nil, err
		}
		source = tokens
		a.username = tokens.Username()
		a.header.Set("Authorization", "Bearer "+cfg.APIToken)
	} else {
		a.log.Info("No API token configured, using anonymous access")
	}

	httpClient := auth.HTTPClient(&http.Client{Timeout: cfg.GatewayTimeout()}, source)
	a.client, err = gateway.NewClient(cfg.GatewayURL, httpClient)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (a *app) context(ctx context.Context) context.Context {
	return auth.WithUsername(ctx, a.username)
}

// startPush feeds remote change notifications into the hub until ctx is done
func (a *app) startPush(ctx context.Context) error {
	source, err := push.NewSource(a.cfg, a.hub, a.header)
	if err != nil {
		return err
	}
	if source == nil {
		return nil
	}
	go func() {
		if err := source.Run(ctx); err != nil && ctx.Err() == nil {
			a.log.WithError(err).Warn("push channel stopped")
		}
	}()
	return nil
}

func (a *app) compiler(resolver form.Resolver) *form.Compiler {
	return &form.Compiler{
		Bounds: form.CoordinateBounds{
			MaxX:          a.cfg.CoordinatesMaxX,
			MinYExclusive: a.cfg.CoordinatesMinYExclusive,
		},
		Resolver: resolver,
	}
}

// confirm asks a yes/no question on stdin, defaulting to no
func (a *app) confirm(question string) (bool, error) {
	fmt.Fprintf(a.errOut, "%s [y/N] ", question)
	answer, err := a.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes", nil
}

// notice prints the one-shot notice left for route, if any
func (a *app) notice(route string) {
	if notice, ok := a.board.Take(route); ok {
		fmt.Fprintf(a.errOut, "notice: %s\n", notice)
	}
}
