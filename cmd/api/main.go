package main

import (
	"os"

	"github.com/qlgl/catechism-backend/internal/pkg/logger"
	"github.com/qlgl/catechism-backend/internal/server"
)

// @title Catechism Class Administration API
// @version 1.0
// @description Administrative backend for catechism classes: students,
// guardians, classes, attendance, grading and teaching schedules.

// @host localhost:8080
// @BasePath /api/v1
// @schemes http

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT access token

func main() {
	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
