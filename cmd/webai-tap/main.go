package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"github.com/LucasStill/webai-collector/internal/dispatch"
	"github.com/LucasStill/webai-collector/internal/identity"
	"github.com/LucasStill/webai-collector/internal/insights"
	"github.com/LucasStill/webai-collector/internal/journal"
)

// webai-tap watches the packets a collector emits, either live off the
// Kafka mirror topic or from a local journal file, and prints motion
// summaries for each packet plus an aggregate at the end.
func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	brokers := flag.String("brokers", "localhost:9092", "comma-separated Kafka brokers")
	topic := flag.String("topic", "webai.packets", "packet topic to consume")
	group := flag.String("group", "webai-tap", "consumer group id")
	journalPath := flag.String("journal", "", "read a local journal file instead of Kafka")
	limit := flag.Int("n", 20, "journal entries to read, newest first")
	flag.Parse()

	if *journalPath != "" {
		tapJournal(*journalPath, *limit)
		return
	}
	tapTopic(strings.Split(*brokers, ","), *topic, *group)
}

func tapJournal(path string, limit int) {
	if _, err := os.Stat(path); err != nil {
		log.Fatal().Err(err).Msg("Failed to find journal")
	}

	j, err := journal.New(path, identity.Identity{})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open journal")
	}
	defer j.Close()

	entries, err := j.Recent(limit)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read journal")
	}

	var sum insights.Summary
	presses := 0
	// Recent returns newest first; print oldest first so the sequence
	// reads forward.
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		sum.Add(e.Packet)
		presses += len(e.Presses)
		logPacket(e.Packet)
	}

	log.Info().
		Int("entries", len(entries)).
		Int("presses", presses).
		Msg("Journal tail read")
	logSummary(sum)
}

func tapTopic(brokers []string, topic, group string) {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        group,
		MinBytes:       1e3,  // 1KB
		MaxBytes:       10e6, // 10MB
		CommitInterval: time.Second,
		StartOffset:    kafka.LastOffset,
	})
	defer reader.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info().
		Str("topic", topic).
		Str("group", group).
		Msg("Tapping packet topic, Ctrl-C to stop")

	var sum insights.Summary
	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			log.Error().Err(err).Msg("Failed to fetch message")
			continue
		}

		var p dispatch.Packet
		if err := json.Unmarshal(msg.Value, &p); err != nil {
			log.Error().
				Err(err).
				Str("value", string(msg.Value)).
				Msg("Failed to parse packet")
			// Still commit to avoid getting stuck
			if err := reader.CommitMessages(ctx, msg); err != nil {
				log.Error().Err(err).Msg("Failed to commit message")
			}
			continue
		}

		sum.Add(p)
		logPacket(p)

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error().Err(err).Msg("Failed to commit message")
		}
	}

	logSummary(sum)
}

func logPacket(p dispatch.Packet) {
	one := insights.Summarize(p)
	log.Info().
		Str("session_uuid", p.SessionUUID).
		Int32("time", p.Time).
		Int("coords", len(p.Coords)).
		Int("clicks", len(p.Clicks)).
		Int("scrolls", len(p.Scrolls)).
		Int("touches", len(p.Touches)).
		Float64("path_px", one.PathPx).
		Float64("velocity_px_sec", one.Velocity()).
		Int("turns", one.Turns).
		Str("src", p.Src).
		Msg("Packet observed")
}

func logSummary(sum insights.Summary) {
	log.Info().
		Int("packets", sum.Packets).
		Int("coords", sum.Coords).
		Int("clicks", sum.Clicks).
		Int("scrolls", sum.Scrolls).
		Int("touches", sum.Touches).
		Int64("span_ms", sum.SpanMs).
		Float64("path_px", sum.PathPx).
		Float64("velocity_px_sec", sum.Velocity()).
		Int("turns", sum.Turns).
		Msg("Tap summary")
}
