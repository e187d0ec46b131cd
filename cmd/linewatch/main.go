package main

import (
	"fmt"
	"os"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/nbelyaev/linewatch/internal/api"
	"github.com/nbelyaev/linewatch/internal/cli"
	"github.com/nbelyaev/linewatch/internal/config"
	"github.com/nbelyaev/linewatch/internal/db"
	"github.com/nbelyaev/linewatch/internal/poller"
	"github.com/nbelyaev/linewatch/internal/registry"
	"github.com/nbelyaev/linewatch/internal/repository"
	"github.com/nbelyaev/linewatch/internal/revision"
	"github.com/nbelyaev/linewatch/internal/service"
	"github.com/nbelyaev/linewatch/internal/stream"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()

	dbPath, err := cfg.ResolveDBPath()
	if err != nil {
		return fmt.Errorf("resolving db path: %w", err)
	}
	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	cursorStore := repository.NewSQLiteCursorStore(database)
	stateStore := repository.NewSQLiteConflictStateStore(database)

	var useCaseObserver service.UseCaseObserver = service.NoopUseCaseObserver{}
	var streamObserver stream.Observer = stream.NoopObserver{}
	if os.Getenv("LINEWATCH_LOG") != "" {
		useCaseObserver = service.NewLogUseCaseObserver(os.Stderr)
		streamObserver = stream.NewLogObserver(os.Stderr)
	}

	client := api.NewClient(cfg)
	revisions := revision.NewCache()
	conflicts := registry.NewRegistry(stateStore)
	monitor := service.NewMonitorService(client, conflicts, stateStore, revisions, useCaseObserver)
	defer conflicts.Flush()

	streamClient := stream.NewClient(cfg, cursorStore, streamObserver)
	streamClient.Subscribe(monitor.HandleEvent)

	app := &cli.App{
		Config:  cfg,
		Monitor: monitor,
		Scanner: poller.New(client, time.Duration(cfg.PollIntervalMs)*time.Millisecond),
		Stream:  streamClient,
		Out:     os.Stdout,
		Interactive: isatty.IsTerminal(os.Stdout.Fd()) ||
			isatty.IsCygwinTerminal(os.Stdout.Fd()),
	}

	return cli.NewRootCmd(app).Execute()
}
