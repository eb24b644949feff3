package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/vid2blog/internal/client/app"
	"github.com/dmitrijs2005/vid2blog/internal/client/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	a, err := app.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}
	defer a.Close()

	if err := a.Run(ctx, os.Stdin, os.Stdout); err != nil {
		log.Printf("%v", err)
	}
}
