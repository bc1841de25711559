package command

import (
	"context"
	"fmt"

	"github.com/pixil98/go-roads/internal/display"
	"github.com/pixil98/go-roads/internal/driver"
	"github.com/pixil98/go-roads/internal/game"
	"github.com/pixil98/go-roads/internal/listener"
	"github.com/pixil98/go-roads/internal/session"
	"github.com/pixil98/go-service"
	"go.uber.org/zap"
)

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	logger := cfg.Logging.buildLogger()
	zap.ReplaceGlobals(logger.Desugar())

	// Load the world and the durable player set
	world, err := cfg.Storage.BuildWorld()
	if err != nil {
		return nil, err
	}
	if _, err := world.Location(cfg.Players.StartLocation); err != nil {
		return nil, fmt.Errorf("players: start_location: %w", err)
	}

	players, err := cfg.Storage.BuildPlayerStore(cfg.Players.StartLocation)
	if err != nil {
		return nil, err
	}

	natsServer, err := cfg.Nats.buildNatsServer()
	if err != nil {
		return nil, fmt.Errorf("creating nats server: %w", err)
	}

	workers := service.WorkerList{
		"nats": natsServer,
		"driver": driver.NewDriver(
			[]driver.Ticker{players},
			driver.WithTickLength(cfg.flushInterval()),
		),
	}

	// Setup the engine
	var engineOpts []game.EngineOpt
	if journal := cfg.Events.buildJournal(); journal != nil {
		engineOpts = append(engineOpts, game.WithJournal(journal))
		workers["events"] = journal
	}
	engine := game.NewEngine(world, players, session.NewRegistry(), engineOpts...)

	renderer, err := display.NewRenderer(world, world.RoadsFrom, display.DefaultWidth)
	if err != nil {
		return nil, err
	}
	cm := listener.NewConnectionManager(engine, natsServer, renderer)

	// Create Listeners
	listeners := make(service.WorkerList, len(cfg.Listeners))
	for i, l := range cfg.Listeners {
		listener, err := l.BuildListener(cm)
		if err != nil {
			return nil, fmt.Errorf("creating listener %d: %w", i, err)
		}
		listeners[fmt.Sprintf("listener-%d", i)] = listener
	}
	workers["listeners"] = &afterReady{wait: natsServer.WaitReady, worker: &listeners}

	if catalog := cfg.Catalog.buildCatalog(world); catalog != nil {
		workers["catalog"] = catalog
	}

	logger.Infow("workers built",
		"locations", len(world.LocationIds()),
		"roads", len(world.RoadIds()),
		"listeners", len(cfg.Listeners),
	)

	return workers, nil
}

// afterReady starts worker once wait returns, so no connection is accepted
// before the bus can deliver to it.
type afterReady struct {
	wait   func(context.Context) error
	worker service.Worker
}

func (a *afterReady) Start(ctx context.Context) error {
	if err := a.wait(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	return a.worker.Start(ctx)
}
