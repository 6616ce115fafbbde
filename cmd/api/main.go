package main

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/agendafacil/api-agendamento/internal/config"
	dbpkg "github.com/agendafacil/api-agendamento/internal/db"
	"github.com/agendafacil/api-agendamento/internal/routes"
	"github.com/agendafacil/api-agendamento/internal/validators"
)

func main() {

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg := config.Load()
	db := dbpkg.NewDB(cfg)

	validators.RegisterBindings()

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	reminderScheduler := routes.RegisterRoutes(r, db, cfg)
	if err := reminderScheduler.Start(); err != nil {
		log.Fatal().Err(err).Msg("falha ao iniciar scheduler de lembretes")
	}
	defer reminderScheduler.Stop()

	log.Info().Str("addr", cfg.Addr()).Msg("api no ar")
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatal().Err(err).Msg("falha ao subir o servidor")
	}
}
