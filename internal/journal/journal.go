// Package journal persists headless match results and the structured bot
// events recorded during them.
package journal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrUnsupportedDriver is returned by Open for an unknown driver name.
var ErrUnsupportedDriver = errors.New("journal: unsupported driver")

const createBatchSize = 500

// MatchRecord is one headless match.
type MatchRecord struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Seed      int64     `gorm:"index"`
	Scenario  string    `gorm:"size:32"`
	Ticks     int
	Winner    string `gorm:"size:16"`
	StartedAt time.Time
	EndedAt   *time.Time
}

func (*MatchRecord) TableName() string { return "matches" }

// EventRecord is one recorded bot event.
type EventRecord struct {
	ID       uint      `gorm:"primaryKey"`
	MatchID  uuid.UUID `gorm:"type:uuid;index:idx_event_match_tick"`
	Tick     int       `gorm:"index:idx_event_match_tick"`
	Agent    string    `gorm:"size:64"`
	Team     string    `gorm:"size:16"`
	Category string    `gorm:"size:32;index"`
	Key      string    `gorm:"size:64"`
	Value    string    `gorm:"size:255"`
	NumVal   float64
}

func (*EventRecord) TableName() string { return "match_events" }

// Journal writes match records through GORM.
type Journal struct {
	db  *gorm.DB
	log zerolog.Logger
}

func dialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "sqlite":
		if dsn == "" {
			dsn = ":memory:"
		}
		return sqlite.Open(dsn), nil
	case "postgres":
		return postgres.New(postgres.Config{DSN: dsn, PreferSimpleProtocol: true}), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}
}

// Open connects to the database and migrates the schema. An empty sqlite
// dsn opens a private in-memory database.
func Open(driver, dsn string, log zerolog.Logger) (*Journal, error) {
	d, err := dialector(driver, dsn)
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open(d, &gorm.Config{
		SkipDefaultTransaction: true,
		CreateBatchSize:        createBatchSize,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening %s journal: %w", driver, err)
	}
	if driver == "sqlite" {
		// a second pooled connection would see a fresh in-memory database
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("accessing sql interface: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}
	if err := db.AutoMigrate(&MatchRecord{}, &EventRecord{}); err != nil {
		return nil, fmt.Errorf("migrating journal schema: %w", err)
	}
	log.Info().Str("driver", driver).Msg("journal ready")
	return &Journal{db: db, log: log}, nil
}

// BeginMatch stores a new match and returns it with a fresh id.
func (j *Journal) BeginMatch(ctx context.Context, seed int64, scenario string) (MatchRecord, error) {
	m := MatchRecord{
		ID:        uuid.New(),
		Seed:      seed,
		Scenario:  scenario,
		StartedAt: time.Now().UTC(),
	}
	if err := j.db.WithContext(ctx).Create(&m).Error; err != nil {
		return MatchRecord{}, fmt.Errorf("creating match: %w", err)
	}
	j.log.Debug().Str("match", m.ID.String()).Int64("seed", seed).Msg("match begun")
	return m, nil
}

// FinishMatch stamps the tick count, winner and end time.
func (j *Journal) FinishMatch(ctx context.Context, id uuid.UUID, ticks int, winner string) error {
	now := time.Now().UTC()
	res := j.db.WithContext(ctx).Model(&MatchRecord{}).Where("id = ?", id).
		Updates(map[string]any{"ticks": ticks, "winner": winner, "ended_at": now})
	if res.Error != nil {
		return fmt.Errorf("finishing match %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("finishing match %s: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}

// RecordEvents inserts events in batches.
func (j *Journal) RecordEvents(ctx context.Context, events []EventRecord) error {
	if len(events) == 0 {
		return nil
	}
	if err := j.db.WithContext(ctx).CreateInBatches(&events, createBatchSize).Error; err != nil {
		return fmt.Errorf("writing %d events: %w", len(events), err)
	}
	return nil
}

// Match loads one match.
func (j *Journal) Match(ctx context.Context, id uuid.UUID) (MatchRecord, error) {
	var m MatchRecord
	if err := j.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return MatchRecord{}, fmt.Errorf("loading match %s: %w", id, err)
	}
	return m, nil
}

// Matches lists every match, oldest first.
func (j *Journal) Matches(ctx context.Context) ([]MatchRecord, error) {
	var out []MatchRecord
	if err := j.db.WithContext(ctx).Order("started_at, seed").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("listing matches: %w", err)
	}
	return out, nil
}

// Events returns a match's events in tick order.
func (j *Journal) Events(ctx context.Context, matchID uuid.UUID) ([]EventRecord, error) {
	var out []EventRecord
	err := j.db.WithContext(ctx).Where("match_id = ?", matchID).Order("tick, id").Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("loading events for %s: %w", matchID, err)
	}
	return out, nil
}

// CountByCategory tallies a match's events per category.
func (j *Journal) CountByCategory(ctx context.Context, matchID uuid.UUID) (map[string]int, error) {
	var rows []struct {
		Category string
		N        int
	}
	err := j.db.WithContext(ctx).Model(&EventRecord{}).
		Select("category, count(*) as n").
		Where("match_id = ?", matchID).
		Group("category").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("counting events for %s: %w", matchID, err)
	}
	out := make(map[string]int, len(rows))
	for _, r := range rows {
		out[r.Category] = r.N
	}
	return out, nil
}

// Close releases the connection pool.
func (j *Journal) Close() error {
	sqlDB, err := j.db.DB()
	if err != nil {
		return fmt.Errorf("accessing sql interface: %w", err)
	}
	return sqlDB.Close()
}

// Writer buffers recorder rows for one match. It satisfies the bot
// recorder interface, so it can be handed straight to a manager.
type Writer struct {
	j     *Journal
	match uuid.UUID
	buf   []EventRecord
	limit int
	err   error
}

// Writer returns a buffered event writer for matchID. The buffer is
// flushed automatically once it holds limit rows; limit <= 0 means only
// explicit flushes.
func (j *Journal) Writer(matchID uuid.UUID, limit int) *Writer {
	return &Writer{j: j, match: matchID, limit: limit}
}

// Record buffers one event.
func (w *Writer) Record(tick int, agent, team, category, key, value string, num float64) {
	w.buf = append(w.buf, EventRecord{
		MatchID:  w.match,
		Tick:     tick,
		Agent:    agent,
		Team:     team,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   num,
	})
	if w.limit > 0 && len(w.buf) >= w.limit {
		if err := w.Flush(context.Background()); err != nil {
			w.j.log.Warn().Err(err).Str("match", w.match.String()).Msg("journal flush failed")
		}
	}
}

// Pending returns the number of buffered rows.
func (w *Writer) Pending() int { return len(w.buf) }

// Flush writes the buffered rows. The first write error is kept and
// returned by every later Flush.
func (w *Writer) Flush(ctx context.Context) error {
	if w.err != nil {
		return w.err
	}
	if err := w.j.RecordEvents(ctx, w.buf); err != nil {
		w.err = err
		return err
	}
	w.buf = w.buf[:0]
	return nil
}
