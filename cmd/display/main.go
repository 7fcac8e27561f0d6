package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/masjid-cloud/minbar/internal/display"
	"github.com/masjid-cloud/minbar/internal/schedule"
)

// Headless display runtime. Renders nothing itself; it resolves what should
// be on screen and hands each item to the player via stdout logging, which a
// kiosk wrapper tails.
func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	serverURL := flag.String("server", envOr("MINBAR_SERVER", "http://localhost:8080"), "server base URL")
	token := flag.String("token", os.Getenv("MINBAR_DEVICE_TOKEN"), "device token issued at pairing")
	poll := flag.Duration("poll", time.Minute, "content poll interval")
	flag.Parse()

	if *token == "" {
		log.Fatal().Msg("device token required (flag -token or MINBAR_DEVICE_TOKEN)")
	}

	client := display.NewClient(display.Options{
		ServerURL:    *serverURL,
		Token:        *token,
		PollInterval: *poll,
		OnShow: func(item schedule.ResolvedContent) {
			log.Info().Str("kind", item.Kind).Int("entry_id", item.EntryID).
				Int("duration_s", item.DurationSeconds).Str("url", item.URL).
				Msg("showing")
		},
		OnStatus: func(connected bool) {
			log.Info().Bool("connected", connected).Msg("push channel status")
		},
		OnTemplate: func(template string) {
			log.Info().Str("template", template).Msg("template switched")
		},
		OnReload: func() {
			log.Info().Msg("reload requested")
		},
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client.Run(ctx)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
