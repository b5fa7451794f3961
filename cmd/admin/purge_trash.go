package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	redisclient "github.com/buildlog/estimator/internal/infra/redis"
)

func main() {
	_ = godotenv.Load()

	url := os.Getenv("REDIS_URL")
	if url == "" {
		url = "redis://localhost:6379/0"
	}

	client, err := redisclient.NewClient(redisclient.Config{
		URL:      url,
		Password: os.Getenv("REDIS_PASSWORD"),
	})
	if err != nil {
		panic(err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	purged, err := client.PurgeExpired(ctx)
	if err != nil {
		panic(err)
	}

	fmt.Printf("Purged %d expired trash entries\n", purged)
}
