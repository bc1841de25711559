package main

import (
	"context"

	"github.com/pixil98/go-roads/cmd/roads/command"
	"github.com/pixil98/go-service"
	"go.uber.org/zap"
)

func main() {
	logger := zap.S()

	app, err := service.NewApp(&command.Config{}, command.BuildWorkers)
	if err != nil {
		logger.Fatalw("creating application", "error", err)
	}

	err = app.Run(context.Background())
	if err != nil {
		zap.S().Fatalw("running application", "error", err)
	}

	zap.S().Info("exiting")
	_ = zap.L().Sync()
}
