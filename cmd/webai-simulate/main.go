package main

import (
	"context"
	"flag"
	"math"
	"math/rand"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/LucasStill/webai-collector/internal/collector"
	"github.com/LucasStill/webai-collector/internal/dispatch"
	"github.com/LucasStill/webai-collector/internal/identity"
	"github.com/LucasStill/webai-collector/internal/session"
)

const simulatorUA = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

func main() {
	endpoint := flag.String("endpoint", "http://localhost:7878", "Registration and packet endpoint base URL")
	page := flag.String("page", "https://shop.example.com/checkout", "Page URL to report")
	duration := flag.Duration("duration", 10*time.Second, "How long to generate activity")
	interval := flag.Duration("interval", 15*time.Millisecond, "Raw event interval")
	seed := flag.Int64("seed", 0, "Random seed, 0 means time-based")
	flag.Parse()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	rnd := rand.New(rand.NewSource(*seed))

	profile := session.NewProfile(*page, simulatorUA, "en-US")

	boot := session.NewBootstrap(session.BootstrapConfig{
		BaseURL:   *endpoint,
		Timeout:   5 * time.Second,
		Version:   "1.0",
		Profile:   profile,
		Durable:   identity.NewMemory(),
		Ephemeral: identity.NewMemory(),
		Prompter:  session.LogPrompter{},
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	id, err := boot.Run(ctx)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to register session")
	}

	coll := collector.New(collector.Config{Page: *page},
		dispatch.NewHTTP(*endpoint, 5*time.Second, id))
	coll.SetGeometry(collector.Geometry{
		InnerWidth:  1280,
		InnerHeight: 720,
		OuterWidth:  1280,
		OuterHeight: 800,
	})
	coll.SetCapabilities(profile.HasTouch, profile.HasMouse)
	coll.Start()

	log.Info().
		Str("session_uuid", id.SessionUUID).
		Dur("duration", *duration).
		Int64("seed", *seed).
		Msg("Generating synthetic activity")

	run(coll, rnd, *duration, *interval)

	coll.Stop()
	log.Info().Msg("Simulation finished")
}

// run drives the collector with a drifting pointer plus periodic clicks,
// scrolls, wheel ticks and key presses until the deadline passes.
func run(coll *collector.Collector, rnd *rand.Rand, duration, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	deadline := time.After(duration)

	x, y := 640.0, 360.0
	scrollY := 0
	tick := 0

	for {
		select {
		case <-deadline:
			return
		case <-ticker.C:
			tick++

			x += 6*math.Sin(float64(tick)/25) + rnd.Float64()*8 - 4
			y += 4*math.Cos(float64(tick)/31) + rnd.Float64()*6 - 3
			x = clamp(x, 0, 1280)
			y = clamp(y, 0, 720)
			coll.PointerMove(int(x), int(y))

			if tick%40 == 0 {
				coll.Click(int(x), int(y))
			}
			if tick%25 == 0 {
				scrollY += rnd.Intn(120)
				coll.Scroll(0, scrollY)
			}
			if tick%60 == 0 {
				coll.Wheel(0, float64(rnd.Intn(6)*40-120), collector.DeltaModePixel)
			}
			if tick%50 == 0 {
				coll.KeyPress()
			}
		}
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
