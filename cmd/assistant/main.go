package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/iamvkosarev/learning-assistant/config"
	"github.com/iamvkosarev/learning-assistant/internal/app"
	"github.com/joho/godotenv"
)

func main() {
	cfgPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to the yaml config file")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("failed to load .env file: %v", err)
	}

	cfg, err := config.LoadConfig(*cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, cfg); err != nil {
		log.Fatalf("app stopped with error: %v", err)
	}
}
