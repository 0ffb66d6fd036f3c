// Package main staybook booking API.
//
// @title           staybook Booking API
// @version         1.0
// @description     Booking lifecycle and availability for property rentals.
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description  Use:  Bearer <JWT>
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"staybook/app/echoServer"
	bookingctrl "staybook/app/echoServer/controller/booking"
	propertyctrl "staybook/app/echoServer/controller/property"
	"staybook/app/echoServer/validation"
	"staybook/config"
	bookingrepo "staybook/repository/booking"
	propertyrepo "staybook/repository/property"
	bookingsvc "staybook/service/booking"
	"staybook/service/notify"
	"staybook/util/clock"
	"staybook/util/database"
	"staybook/util/lock"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	echoSwagger "github.com/swaggo/echo-swagger"
)

func main() {

	cfg := config.Load()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// logger
	level := slog.LevelDebug
	if cfg.IsProd() {
		level = slog.LevelInfo
	}
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)

	// DB
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	// repos
	br := bookingrepo.New(db)
	pr := propertyrepo.NewCached(propertyrepo.New(db), cfg.PropertyCacheSize, cfg.PropertyCacheTTL)
	defer pr.Stop()

	// property lock
	var lk bookingsvc.Locker = lock.NewLocal()
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Error("redis connect failed", "err", err)
			os.Exit(1)
		}
		defer rdb.Close()
		lk = lock.NewRedis(rdb, cfg.LockTTL, log)
		log.Info("using redis property locks", "addr", cfg.RedisAddr)
	}

	// notifications
	notifiers := notify.Multi{notify.Log{L: log}}
	if cfg.AMQPURL != "" {
		mq, err := notify.NewAMQP(cfg.AMQPURL, cfg.NotifyQueue)
		if err != nil {
			log.Error("amqp connect failed", "err", err)
			os.Exit(1)
		}
		defer mq.Close()
		notifiers = append(notifiers, mq)
	}
	if cfg.NotifyWebhookURL != "" {
		notifiers = append(notifiers, notify.NewWebhook(cfg.NotifyWebhookURL))
	}

	// services
	clk := clock.System{}
	bs := bookingsvc.New(br, pr, lk, notifiers, clk, log)
	done := bookingsvc.NewCompleter(br, notifiers, clk, log)

	// controllers
	v := validation.New()
	bookingC := &bookingctrl.Controller{Svc: bs, Completer: done, V: v.Engine(), Log: log}
	propertyC := &propertyctrl.Controller{Svc: bs, Log: log}

	// echo
	e := echo.New()
	e.HideBanner = true
	e.Debug = !cfg.IsProd()
	echoServer.RegisterMiddlewares(e, log)
	e.Validator = v

	e.GET("/health", func(c echo.Context) error {
		if err := db.Pool.Ping(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]any{
				"status":  "degraded",
				"message": "database unreachable",
			})
		}
		return c.JSON(http.StatusOK, map[string]any{
			"status":  "ok",
			"message": "Service is healthy and connected",
		})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	echoServer.Register(e, echoServer.C{
		Booking:  bookingC,
		Property: propertyC,

		JWTSecret: cfg.JWTSecret,
	})

	go func() {
		log.Info("starting server", "port", cfg.Port, "env", cfg.Env)
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", "err", err)
	}
}
