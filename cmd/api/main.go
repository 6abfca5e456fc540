package main

import (
	"os"

	"github.com/yigit/coursereview/internal/pkg/logger"
	"github.com/yigit/coursereview/internal/server"
)

// @title Course Review API
// @version 1.0
// @description API for browsing courses, reading aggregated ratings and submitting reviews

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

func main() {
	srv, err := server.NewServer()
	if err != nil {
		// Setup functions log the details
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	// Blocks until shutdown signal
	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
