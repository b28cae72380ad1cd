package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/roundtable-dev/roundtable/internal/config"
	"github.com/roundtable-dev/roundtable/internal/store"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve stored session artifacts over HTTP",
		Long:  "Read-only JSON API over the Redis session store, for UI layers. Serves session listings and full artifacts; never exposes orchestrator internals.",
		RunE:  runServe,
	}
	cmd.Flags().String("addr", ":8080", "Listen address")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	addr, _ := cmd.Flags().GetString("addr")

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := mergeFlags(cmd, cfg); err != nil {
		return err
	}
	if cfg.RedisAddr == "" {
		return fmt.Errorf("session store required: set --redis-addr flag or ROUNDTABLE_REDIS_ADDR env var")
	}

	st, err := store.New(&redis.Options{Addr: cfg.RedisAddr}, "roundtable")
	if err != nil {
		return err
	}
	defer st.Close()

	app := newServerApp(st)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	go func() {
		<-ctx.Done()
		_ = app.Shutdown()
	}()

	fmt.Printf("Serving session artifacts on %s\n", addr)
	return app.Listen(addr)
}

func newServerApp(st *store.Store) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(logger.New())

	app.Get("/healthz", func(c *fiber.Ctx) error {
		if err := st.Ping(c.Context()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "down"})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})

	app.Get("/sessions", func(c *fiber.Ctx) error {
		summaries, err := st.ListSessions(c.Context())
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "listing sessions failed"})
		}
		return c.JSON(summaries)
	})

	app.Get("/sessions/:id", func(c *fiber.Ctx) error {
		artifact, err := st.GetArtifact(c.Context(), c.Params("id"))
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "session not found"})
		}
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "loading session failed"})
		}
		return c.JSON(artifact)
	})

	return app
}
