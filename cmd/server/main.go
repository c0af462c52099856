package main

import (
	"context"
	"errors"
	"flag"
	"hash/maphash"
	"math/rand/v2"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"
	"golang.org/x/sync/errgroup"

	"github.com/mkarpov/minesweeper/internal/config"
	"github.com/mkarpov/minesweeper/internal/handlers"
	"github.com/mkarpov/minesweeper/internal/middleware"
	"github.com/mkarpov/minesweeper/internal/session"
)

var (
	log = logrus.New()

	configPath string
)

func init() {
	const usage = "config file path"
	flag.StringVar(&configPath, "config", "", usage)
	flag.StringVar(&configPath, "c", "", usage+" (shorthand)")
}

func setupLogging(cfg *config.Config) error {
	logLevel := logrus.InfoLevel
	if cfg.Development() {
		logLevel = logrus.DebugLevel
	}
	log.SetLevel(logLevel)
	log.SetFormatter(&logrus.TextFormatter{ForceColors: true})

	if cfg.LogFile != "" {
		hook, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
			Filename:   cfg.LogFile,
			MaxSize:    50, // MB
			MaxBackups: 3,
			MaxAge:     28, // days
			Level:      logLevel,
			Formatter:  &logrus.JSONFormatter{},
		})
		if err != nil {
			return err
		}
		log.AddHook(hook)
	}
	return nil
}

func createRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

func buildHandler(cfg *config.Config, sessions *session.Registry) http.Handler {
	mux := http.NewServeMux()

	game := handlers.NewGameHandler(log, sessions, createRand())
	game.Routes(mux)

	return middleware.Wrap(mux,
		middleware.Logging(log),
		middleware.Cors(cfg.AllowedOrigins),
	)
}

func main() {
	mainCtx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	flag.Parse()

	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			log.Fatalf("unable to load config %s: %s", configPath, err.Error())
		}
	}

	if err := setupLogging(cfg); err != nil {
		log.Fatal("unable to set up logging: ", err)
	}

	log.Info("starting up, mode = ", cfg.Mode)
	log.WithFields(cfg.Fields()).Debug("config")

	sessions := session.NewRegistry(log, cfg.SessionTTL.Duration)

	server := &http.Server{
		Addr:    cfg.Addr,
		Handler: buildHandler(cfg, sessions),
		BaseContext: func(l net.Listener) context.Context {
			return mainCtx
		},
	}

	log.Infof("ready to serve @ %s", cfg.Addr)

	g, gCtx := errgroup.WithContext(mainCtx)
	g.Go(func() error {
		return sessions.Run(gCtx)
	})
	g.Go(func() error {
		return server.ListenAndServe()
	})
	g.Go(func() error {
		<-gCtx.Done()
		return server.Shutdown(context.Background())
	})

	if err := g.Wait(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("exit reason: %s\n", err)
	}
}
