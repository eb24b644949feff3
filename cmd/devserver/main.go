package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/common-nighthawk/go-figure"
	"github.com/dmitrijs2005/vid2blog/internal/devapi"
	"github.com/dmitrijs2005/vid2blog/internal/devapi/config"
	"github.com/dmitrijs2005/vid2blog/internal/logging"
)

func main() {
	figure.NewFigure("vid2blog dev", "cybermedium", true).Print()
	fmt.Println()

	cfg := config.LoadConfig()
	logger, closer, err := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat}, os.Stdout)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}
	defer closer.Close()

	app, err := devapi.NewApp(cfg, logger)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(context.Background())
}
