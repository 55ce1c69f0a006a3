package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/studiosite/internal/logging"
	"github.com/dmitrijs2005/studiosite/internal/server"
	"github.com/dmitrijs2005/studiosite/internal/server/config"
)

func main() {

	ctx := context.Background()
	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("%v", err)
	}

	logger := logging.New(os.Stdout, cfg.LogLevel)

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}

}
