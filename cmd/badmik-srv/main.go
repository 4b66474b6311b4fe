package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	"github.com/kelseyhightower/envconfig"
	"golang.org/x/sync/errgroup"

	"github.com/badmik-games/badmik/internal/arena"
	"github.com/badmik-games/badmik/internal/badmikbot"
	"github.com/badmik-games/badmik/internal/buildinfo"
	"github.com/badmik-games/badmik/internal/cache"
	"github.com/badmik-games/badmik/internal/database"
	playerDb "github.com/badmik-games/badmik/internal/database/player/database"
	roomDb "github.com/badmik-games/badmik/internal/database/room/database"
	tournamentDb "github.com/badmik-games/badmik/internal/database/tournament/database"
	"github.com/badmik-games/badmik/internal/httpapi"
	"github.com/badmik-games/badmik/internal/logging"
	"github.com/badmik-games/badmik/internal/server"
	"github.com/badmik-games/badmik/internal/shutdown"
)

// version is injected at build time, buildinfo.Version is the fallback
var version string

func main() {
	if version == "" {
		version = buildinfo.Version
	}

	_, _ = fmt.Fprint(os.Stdout, buildinfo.Graffiti)
	_, _ = fmt.Fprintf(
		os.Stdout,
		buildinfo.GreetingCLI,
		buildinfo.ProjectName,
		version,
		buildinfo.TgBotURL,
		buildinfo.GithubURL,
	)

	ctx, done := shutdown.New()
	defer done()

	config := badmikbot.Config{}
	if err := envconfig.Process("", &config); err != nil {
		logging.DefaultLogger().Fatalf("processing the config: %v", err)
	}

	logger := logging.NewLogger(config.Debug)
	ctx = logging.WithLogger(ctx, logger)

	if err := realMain(ctx, &config); err != nil {
		logger.Fatalf("main.realMain: %v", err)
	}
}

func realMain(ctx context.Context, config *badmikbot.Config) error {
	logger := logging.FromContext(ctx)

	if config.BotToken == "" {
		return fmt.Errorf(
			"bot token not found, please visit %s to register your bot and get a token",
			buildinfo.BotFatherURL,
		)
	}

	tg, err := tgbotapi.NewBotAPI(config.BotToken)
	if err != nil {
		return fmt.Errorf("bot api: %v", err)
	}

	tg.Debug = config.Debug

	_, _ = fmt.Fprint(os.Stdout, "Authorization in telegram was successful: ", tg.Self.UserName, "\n")

	db, err := database.NewFromEnv(ctx, &config.Db)
	if err != nil {
		return fmt.Errorf("new database from env: %v", err)
	}

	defer db.Close(ctx)

	playerCache, err := cache.NewLRU(config.CacheSize)
	if err != nil {
		return fmt.Errorf("can not create lru cache: %v", err)
	}

	gamesCache, err := cache.NewLRU(config.CacheSize)
	if err != nil {
		return fmt.Errorf("can not create lru cache: %v", err)
	}

	registry := arena.New(ctx, playerDb.New(db, playerCache), roomDb.New(db), tournamentDb.New(db, gamesCache))
	if err := registry.Restore(ctx); err != nil {
		return fmt.Errorf("registry restore: %v", err)
	}

	srv, err := server.New(config.Port)
	if err != nil {
		return fmt.Errorf("server.New: %v", err)
	}

	go func() {
		if err := http.ListenAndServe(":"+config.ProfPort, nil); err != nil {
			logger.Errorf("pprof default server: %v", err)
		}
	}()

	api := httpapi.New(registry)
	manager := badmikbot.NewManager(tg, config, registry)

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return srv.ServeHTTP(gctx, &http.Server{Handler: api.Handler(gctx)})
	})
	group.Go(func() error {
		return manager.Run(gctx)
	})

	if err := group.Wait(); err != nil {
		return fmt.Errorf("group wait: %v", err)
	}

	// rooms survive the restart through the snapshot bucket
	if err := registry.Snapshot(ctx); err != nil {
		return fmt.Errorf("registry snapshot: %v", err)
	}

	return nil
}
