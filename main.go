package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/avetra/committee-portal/app"
	"github.com/avetra/committee-portal/auth"
	"github.com/avetra/committee-portal/config"
	"github.com/avetra/committee-portal/log"
	"github.com/avetra/committee-portal/routes"
	"github.com/avetra/committee-portal/service"
	"github.com/avetra/committee-portal/store/sqlstore"
)

func main() {
	cfg, err := config.ParseFlags()
	if err != nil {
		log.Fatal("main.config:", err)
	}
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}
	if cfg.AdminPassword == config.DefaultAdminPassword {
		log.Warn("main.config: ADMIN_PASSWORD is not set, using the default; set it before exposing this server")
	}

	st, err := sqlstore.Open(cfg.DB)
	if err != nil {
		log.Fatal("main.db.open:", err)
	}
	defer st.Close()

	app := app.App{
		Service: service.New(st),
		Gate:    auth.NewGate(cfg.AdminPassword),
		Config:  cfg,
	}

	handler := routes.Wire(app)

	err = runServer(cfg, handler)
	if !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("main.server:", err)
	}
}

func runServer(cfg config.Config, handler http.Handler) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Info("Listening on " + cfg.Url())
	return srv.ListenAndServe()
}
