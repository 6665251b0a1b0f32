package main

import (
	"context"
	"flag"
	"log"
	"os"

	"qkart/internal/config"
	"qkart/internal/db"
	"qkart/internal/seed"
)

func main() {
	var opts seed.Options
	flag.BoolVar(&opts.SkipUser, "skip-user", false, "Only seed the catalog")
	flag.Parse()

	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[seed] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString, cfg.DBMaxConns)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	sum, err := seed.Apply(ctx, pool, opts)
	if err != nil {
		logger.Fatalf("seed apply: %v", err)
	}

	switch {
	case opts.SkipUser:
		logger.Printf("seeded products=%d", sum.Products)
	case sum.UserCreated:
		logger.Printf("seeded products=%d demo_user=%s password=%s", sum.Products, seed.DemoEmail, seed.DemoPassword)
	default:
		logger.Printf("seeded products=%d demo_user=%s (already present)", sum.Products, seed.DemoEmail)
	}
}
