package main

import (
	"context"
	"log"

	"github.com/privychat/sharekit/internal/cli"
	"github.com/privychat/sharekit/internal/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := cli.NewApp(cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
