// Package database persists the tracking store's append-only history to
// SQLite so metrics survive restarts. Configuration is deliberately not
// persisted here.
package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"upsell-engine/internal/models"
	"upsell-engine/internal/store"
)

// DB wraps the SQLite connection used for the audit log.
type DB struct {
	conn *sql.DB
}

// NewDB opens the audit database and initializes the schema.
func NewDB(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=1")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS recommendations (
			id TEXT PRIMARY KEY,
			property_id TEXT NOT NULL,
			guest_id TEXT NOT NULL,
			strategy_id TEXT NOT NULL,
			offer_id TEXT NOT NULL,
			channel TEXT NOT NULL,
			relevance_score REAL NOT NULL,
			impression_id TEXT NOT NULL,
			session_id TEXT,
			generated_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS interactions (
			guest_id TEXT NOT NULL,
			offer_id TEXT NOT NULL,
			recommendation_id TEXT,
			type TEXT NOT NULL,
			occurred_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS conversions (
			guest_id TEXT NOT NULL,
			property_id TEXT NOT NULL,
			offer_id TEXT NOT NULL,
			recommendation_id TEXT,
			category TEXT NOT NULL,
			value REAL NOT NULL,
			converted_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_rec_property ON recommendations(property_id, generated_at)`,
		`CREATE INDEX IF NOT EXISTS idx_rec_guest ON recommendations(guest_id)`,
		`CREATE INDEX IF NOT EXISTS idx_int_guest ON interactions(guest_id)`,
		`CREATE INDEX IF NOT EXISTS idx_conv_property ON conversions(property_id, converted_at)`,
	}

	for _, query := range queries {
		if _, err := db.conn.Exec(query); err != nil {
			return fmt.Errorf("failed to execute schema query: %w", err)
		}
	}

	return nil
}

// AppendRecommendation persists one generated recommendation.
func (db *DB) AppendRecommendation(record store.RecommendationRecord) error {
	rec := record.Recommendation
	_, err := db.conn.Exec(
		`INSERT OR REPLACE INTO recommendations
		 (id, property_id, guest_id, strategy_id, offer_id, channel, relevance_score, impression_id, session_id, generated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		record.PropertyID,
		record.GuestID,
		rec.StrategyID,
		rec.Offer.ID,
		string(rec.Presentation.Channel),
		rec.Personalization.RelevanceScore,
		rec.Tracking.ImpressionID,
		rec.Tracking.SessionID,
		rec.Tracking.GeneratedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to insert recommendation: %w", err)
	}
	return nil
}

// AppendInteraction persists one tracked interaction.
func (db *DB) AppendInteraction(guestID string, in models.Interaction) error {
	_, err := db.conn.Exec(
		`INSERT INTO interactions (guest_id, offer_id, recommendation_id, type, occurred_at)
		 VALUES (?, ?, ?, ?, ?)`,
		guestID,
		in.OfferID,
		in.RecommendationID,
		in.Type,
		in.OccurredAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to insert interaction: %w", err)
	}
	return nil
}

// AppendConversion persists one tracked conversion.
func (db *DB) AppendConversion(guestID string, cv models.Conversion) error {
	_, err := db.conn.Exec(
		`INSERT INTO conversions (guest_id, property_id, offer_id, recommendation_id, category, value, converted_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		guestID,
		cv.PropertyID,
		cv.OfferID,
		cv.RecommendationID,
		string(cv.Category),
		cv.Value,
		cv.ConvertedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to insert conversion: %w", err)
	}
	return nil
}

// LoadRecommendations replays the persisted recommendation log. Only
// the fields that feed metrics and relevance history are restored;
// rendered content is not persisted.
func (db *DB) LoadRecommendations() ([]store.RecommendationRecord, error) {
	rows, err := db.conn.Query(
		`SELECT id, property_id, guest_id, strategy_id, offer_id, channel, relevance_score, impression_id, session_id, generated_at
		 FROM recommendations ORDER BY generated_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to query recommendations: %w", err)
	}
	defer rows.Close()

	var records []store.RecommendationRecord
	for rows.Next() {
		var record store.RecommendationRecord
		var rec models.UpsellRecommendation
		var channel, generatedAt string
		if err := rows.Scan(
			&rec.ID,
			&record.PropertyID,
			&record.GuestID,
			&rec.StrategyID,
			&rec.Offer.ID,
			&channel,
			&rec.Personalization.RelevanceScore,
			&rec.Tracking.ImpressionID,
			&rec.Tracking.SessionID,
			&generatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan recommendation: %w", err)
		}
		rec.Presentation.Channel = models.ChannelType(channel)
		if at, err := time.Parse(time.RFC3339Nano, generatedAt); err == nil {
			rec.Tracking.GeneratedAt = at
		}
		record.Recommendation = rec
		records = append(records, record)
	}
	return records, rows.Err()
}

// LoadInteractions replays the persisted interaction log keyed by
// guest.
func (db *DB) LoadInteractions() (map[string][]models.Interaction, error) {
	rows, err := db.conn.Query(
		`SELECT guest_id, offer_id, recommendation_id, type, occurred_at FROM interactions ORDER BY occurred_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to query interactions: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]models.Interaction)
	for rows.Next() {
		var guestID, occurredAt string
		var in models.Interaction
		if err := rows.Scan(&guestID, &in.OfferID, &in.RecommendationID, &in.Type, &occurredAt); err != nil {
			return nil, fmt.Errorf("failed to scan interaction: %w", err)
		}
		if at, err := time.Parse(time.RFC3339Nano, occurredAt); err == nil {
			in.OccurredAt = at
		}
		out[guestID] = append(out[guestID], in)
	}
	return out, rows.Err()
}

// LoadConversions replays the persisted conversion log.
func (db *DB) LoadConversions() ([]store.ConversionRecord, error) {
	rows, err := db.conn.Query(
		`SELECT guest_id, property_id, offer_id, recommendation_id, category, value, converted_at
		 FROM conversions ORDER BY converted_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversions: %w", err)
	}
	defer rows.Close()

	var records []store.ConversionRecord
	for rows.Next() {
		var record store.ConversionRecord
		var category, convertedAt string
		if err := rows.Scan(
			&record.GuestID,
			&record.Conversion.PropertyID,
			&record.Conversion.OfferID,
			&record.Conversion.RecommendationID,
			&category,
			&record.Conversion.Value,
			&convertedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan conversion: %w", err)
		}
		record.Conversion.Category = models.StrategyCategory(category)
		if at, err := time.Parse(time.RFC3339Nano, convertedAt); err == nil {
			record.Conversion.ConvertedAt = at
		}
		records = append(records, record)
	}
	return records, rows.Err()
}
