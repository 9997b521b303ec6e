package main

import (
	"context"
	"time"

	"backend-farmacia/internal/config"
	"backend-farmacia/internal/helper"
	"backend-farmacia/internal/http/handler"
	"backend-farmacia/internal/pharmacy"
	"backend-farmacia/internal/realtime"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

func serve(ctx context.Context, cfg *config.Config, log *logrus.Logger) error {
	app := fiber.New(fiber.Config{
		Prefork:       false,
		CaseSensitive: true,
		StrictRouting: true,
		Immutable:     true,
	})

	farmacia := pharmacy.New(log)
	h := handler.New(farmacia, nil, log)

	if cfg.Hours.Enabled() {
		loc, err := helper.LoadLocation(cfg.Hours.Timezone)
		if err != nil {
			return err
		}
		h.SetOpeningHours(handler.OpeningHours{
			OpenAt:   cfg.Hours.OpenAt,
			CloseAt:  cfg.Hours.CloseAt,
			Location: loc,
		})
		log.Infof("Jam buka loket %s - %s (%s)", cfg.Hours.OpenAt, cfg.Hours.CloseAt, loc)
	}

	hub := realtime.NewHub(h.BuildQueueMessage, cfg.Display.BroadcastDelay, log)
	h.SetNotifier(hub)

	if cfg.Redis.Enabled() {
		rdb, err := config.NewRedisClient(ctx, cfg.Redis, log)
		if err != nil {
			return errors.Wrap(err, "server : failed to connect to redis")
		}
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Error(errors.Wrap(err, "server : failed to close redis"))
			}
		}()
		hub.AddSink(realtime.NewRedisPublisher(rdb, cfg.Redis.Channel))
	}

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST",
	}))

	h.Routes(app)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/queue", websocket.New(hub.Serve))

	go func() {
		<-ctx.Done()
		log.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Error(errors.Wrap(err, "server : shutdown"))
		}
	}()

	addr := cfg.Addr()
	log.Infof("Server jalan di %s", addr)
	if err := app.Listen(addr); err != nil {
		return errors.Wrap(err, "server : listen")
	}
	return nil
}
