package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"gitlab.com/maplesense1/fld.telemetry_server/src/production/FLD.BridgeService/bridge"
	"gitlab.com/maplesense1/fld.telemetry_server/src/production/FLD.BridgeService/client"
	container "gitlab.com/maplesense1/fld.telemetry_server/src/production/FLD.Container"
)

func main() {
	// Initialize dependency injection container
	ctr, err := container.NewBridgeContainer()
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize container: %v", err))
	}

	logger := ctr.GetLogger()
	logger.Info("Starting MQTT Bridge Service")

	config := ctr.GetConfig()

	// Create API client authenticated with the device token
	apiClient := client.NewAPIClient(config.ApiServiceURL, config.DeviceToken)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Create and start the bridge
	brg := bridge.New(config, apiClient, logger)
	if err := brg.Start(ctx); err != nil {
		logger.FatalWithError(err, "Failed to start MQTT bridge")
	}

	logger.Info("MQTT bridge running... press Ctrl+C to stop")

	// Wait for shutdown signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	logger.Info("Shutting down...")
	cancel()
	brg.Stop()
}
