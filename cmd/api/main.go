package main

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/barbererp/backend/internal/config"
	dbpkg "github.com/barbererp/backend/internal/db"
	"github.com/barbererp/backend/internal/media"
	"github.com/barbererp/backend/internal/payment"
	"github.com/barbererp/backend/internal/realtime"
	"github.com/barbererp/backend/internal/routes"
)

func main() {

	cfg := config.Load()
	db := dbpkg.NewDB(cfg)

	rdb := realtime.NewRedis(context.Background(), cfg.RedisAddr, cfg.RedisPassword)
	bus := realtime.NewBus(rdb)

	pix, err := payment.NewPixClient(cfg.MercadoPagoAccessToken, cfg.PixPayerEmail)
	if err != nil {
		log.Fatalf("failed to init payment client: %v", err)
	}

	uploader := media.NewS3Uploader(cfg)

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, routes.Deps{
		DB:       db,
		Config:   cfg,
		Bus:      bus,
		Pix:      pix,
		Uploader: uploader,
	})

	log.Printf("Server running on %s", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
