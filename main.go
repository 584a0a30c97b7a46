package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"MetalCal/internal/catalog"
	"MetalCal/internal/config"
	"MetalCal/internal/live"
	"MetalCal/internal/logging"
	"MetalCal/internal/server"
	"MetalCal/internal/share"
)

var wg sync.WaitGroup

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(".env")
	if err != nil {
		logrus.Fatal(err)
	}
	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		logrus.Fatal(err)
	}
	if cfg.GeneratedKey {
		log.Warn("METALCAL_SHARE_KEY is not set; share links will not survive a restart")
	}

	cat, err := catalog.New(cfg.File)
	if err != nil {
		log.Fatal(err)
	}
	signer, err := share.NewSigner(cfg.ShareKey, cfg.ShareTTL)
	if err != nil {
		log.Fatal(err)
	}

	srv := server.New(server.Options{
		Addr:        cfg.Addr,
		Rate:        cfg.Rate,
		Burst:       cfg.Burst,
		AllowOrigin: cfg.AllowOrigin,
		BaseURL:     cfg.BaseURL,
	}, server.Deps{
		Catalog: cat,
		Signer:  signer,
		Live:    live.NewServer(ctx, cat, log, cfg.AllowOrigin),
		Log:     log,
	})

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.WithFields(logrus.Fields{"addr": cfg.Addr, "tls": cfg.TLSCert != ""}).Info("starting server")
		var err error
		if cfg.TLSCert != "" {
			err = srv.ListenAndServeTLS(cfg.TLSCert, cfg.TLSKey)
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("server error")
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received, closing active connections")

	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Fatal("server shutdown")
	}
	wg.Wait()
	log.Info("server stopped")
}
