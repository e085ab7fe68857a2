package main

import (
	"fmt"
	"os"

	"github.com/flymidia/contracts-service/internal/auth"
	"github.com/flymidia/contracts-service/internal/config"
	"github.com/flymidia/contracts-service/internal/db"
	"github.com/flymidia/contracts-service/internal/excel"
	httphandler "github.com/flymidia/contracts-service/internal/http"
	"github.com/flymidia/contracts-service/internal/http/middleware"
	"github.com/flymidia/contracts-service/internal/logger"
	"github.com/flymidia/contracts-service/internal/pdf"
	"github.com/flymidia/contracts-service/internal/repository"
	"github.com/flymidia/contracts-service/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	contractRepo := repository.NewContractRepository(database)
	pdfGenerator := pdf.NewGenerator()
	excelGenerator := excel.NewGenerator()

	contractService := service.NewContractService(contractRepo, pdfGenerator, excelGenerator, cfg)

	tokenIssuer := auth.NewIssuer(cfg.Auth.AccessSecret, cfg.Auth.TokenExpireHours)
	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	handler := httphandler.NewHandler(contractService, tokenIssuer, cfg, log)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting contracts service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
