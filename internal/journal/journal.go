// Package journal keeps a local SQLite record of every flushed snapshot.
// Unlike the wire packet, journal rows also carry touch press spans.
package journal

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite" // CGO-free SQLite

	"github.com/LucasStill/webai-collector/internal/collector"
	"github.com/LucasStill/webai-collector/internal/dispatch"
	"github.com/LucasStill/webai-collector/internal/identity"
)

type Journal struct {
	db *sql.DB
	id identity.Identity
}

// Entry is one journaled snapshot read back from disk.
type Entry struct {
	ID          int64
	Taken       time.Time
	SessionUUID string
	ElapsedMs   int64
	Packet      dispatch.Packet
	Presses     []collector.PressSpan
}

func New(path string, id identity.Identity) (*Journal, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create journal directory: %w", err)
		}
	}

	// WAL + busy timeout to avoid "database is locked"
	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Journal{db: db, id: id}, nil
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS packets(
	  id           INTEGER PRIMARY KEY,
	  taken_utc    INTEGER NOT NULL,
	  taken_iso    TEXT    NOT NULL,
	  session_uuid TEXT    NOT NULL,
	  elapsed_ms   INTEGER NOT NULL,
	  packet_json  TEXT    NOT NULL CHECK (json_valid(packet_json)),
	  presses_json TEXT    NOT NULL CHECK (json_valid(presses_json))
	);
	CREATE INDEX IF NOT EXISTS idx_packets_taken   ON packets(taken_utc);
	CREATE INDEX IF NOT EXISTS idx_packets_session ON packets(session_uuid);
	`)
	if err != nil {
		return fmt.Errorf("failed to create journal tables: %w", err)
	}
	return nil
}

func (j *Journal) Close() error {
	return j.db.Close()
}

// Dispatch records the snapshot. Journal failures never stall the flush
// cycle; they are logged and the snapshot is lost locally.
func (j *Journal) Dispatch(snap collector.Snapshot) {
	if err := j.write(snap); err != nil {
		log.Error().Err(err).Msg("Failed to journal packet")
	}
}

func (j *Journal) write(snap collector.Snapshot) error {
	packet := dispatch.BuildPacket(snap, j.id)
	packetJSON, err := json.Marshal(packet)
	if err != nil {
		return fmt.Errorf("failed to marshal packet: %w", err)
	}

	presses := snap.Presses
	if presses == nil {
		presses = []collector.PressSpan{}
	}
	pressesJSON, err := json.Marshal(presses)
	if err != nil {
		return fmt.Errorf("failed to marshal press spans: %w", err)
	}

	taken := snap.Taken.UTC()
	_, err = j.db.Exec(
		`INSERT INTO packets(taken_utc, taken_iso, session_uuid, elapsed_ms, packet_json, presses_json) VALUES(?,?,?,?,json(?),json(?))`,
		taken.UnixMilli(),
		taken.Format(time.RFC3339Nano),
		j.id.SessionUUID,
		snap.Elapsed.Milliseconds(),
		string(packetJSON),
		string(pressesJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to insert packet: %w", err)
	}
	return nil
}

// Recent returns up to n journaled snapshots, newest first.
func (j *Journal) Recent(n int) ([]Entry, error) {
	rows, err := j.db.Query(
		`SELECT id, taken_utc, session_uuid, elapsed_ms, packet_json, presses_json FROM packets ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query packets: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			entry       Entry
			takenMs     int64
			packetJSON  string
			pressesJSON string
		)
		if err := rows.Scan(&entry.ID, &takenMs, &entry.SessionUUID, &entry.ElapsedMs, &packetJSON, &pressesJSON); err != nil {
			return nil, fmt.Errorf("failed to scan packet row: %w", err)
		}
		entry.Taken = time.UnixMilli(takenMs).UTC()
		if err := json.Unmarshal([]byte(packetJSON), &entry.Packet); err != nil {
			return nil, fmt.Errorf("failed to decode packet json: %w", err)
		}
		if err := json.Unmarshal([]byte(pressesJSON), &entry.Presses); err != nil {
			return nil, fmt.Errorf("failed to decode press spans: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read packet rows: %w", err)
	}
	return entries, nil
}

var _ collector.Dispatcher = (*Journal)(nil)
