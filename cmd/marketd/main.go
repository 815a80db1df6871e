package main

import (
	"github.com/nftbay/marketplace-engine/internal/config"
	"github.com/nftbay/marketplace-engine/internal/config/di"
	"github.com/nftbay/marketplace-engine/internal/daemon"
	"go.uber.org/zap"
)

func main() {
	config.Init("marketd")

	container, err := di.NewContainer()
	if err != nil {
		zap.L().With(zap.Error(err)).Fatal("Failed to build container")
	}

	zap.L().With(
		zap.String("apiPort", config.Get().ApiPort),
		zap.String("healthPort", config.Get().HealthPort),
	).Info("Marketplace Engine Started")

	container.Get("daemon").(*daemon.Daemon).Execute()
}
