// Package sqlite provides SQLite-backed message and user config storage.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/Wyydra/meet/internal/adapter/driven/persistence/sqlite/migrations"
	"github.com/Wyydra/meet/internal/core/domain"
	"github.com/Wyydra/meet/internal/core/port"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens the database at path and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) Save(ctx context.Context, msg domain.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if msg.ID.IsZero() {
		return fmt.Errorf("%w: message id is required", domain.ErrInvalidMessage)
	}
	props := msg.Props
	if props == nil {
		props = map[string]any{}
	}
	rawProps, err := json.Marshal(props)
	if err != nil {
		return fmt.Errorf("encode props: %w", err)
	}

	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO messages (id, channel_id, user_id, type, message, props, create_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		msg.ID.String(),
		msg.ChannelID.String(),
		msg.AuthorID.String(),
		msg.Type,
		msg.Content,
		string(rawProps),
		toMillis(msg.CreatedAt),
	)
	if err != nil {
		if isConstraintError(err) {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id domain.MessageID) (domain.Message, error) {
	if err := ctx.Err(); err != nil {
		return domain.Message{}, err
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, channel_id, user_id, type, message, props, create_at
		   FROM messages
		  WHERE id = ?`,
		id.String(),
	)
	msg, err := scanMessage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Message{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Message{}, fmt.Errorf("get message: %w", err)
	}
	return msg, nil
}

// ListByChannel returns the newest limit messages of a channel, oldest first.
func (s *Store) ListByChannel(ctx context.Context, channelID domain.ChannelID, limit int) ([]domain.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than zero")
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, channel_id, user_id, type, message, props, create_at
		   FROM (SELECT * FROM messages WHERE channel_id = ? ORDER BY seq DESC LIMIT ?)
		  ORDER BY seq ASC`,
		channelID.String(),
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Message, 0, limit)
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		out = append(out, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}
	return out, nil
}

func (s *Store) GetUserConfig(ctx context.Context, userID domain.UserID) (domain.UserConfig, error) {
	if err := ctx.Err(); err != nil {
		return domain.UserConfig{}, err
	}
	var scheme string
	err := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT naming_scheme FROM user_configs WHERE user_id = ?`,
		userID.String(),
	).Scan(&scheme)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.UserConfig{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.UserConfig{}, fmt.Errorf("get user config: %w", err)
	}
	return domain.UserConfig{NamingScheme: domain.NamingScheme(scheme)}, nil
}

func (s *Store) SaveUserConfig(ctx context.Context, userID domain.UserID, cfg domain.UserConfig) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(userID.String()) == "" {
		return fmt.Errorf("user id is required")
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO user_configs (user_id, naming_scheme, updated_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
		   naming_scheme = excluded.naming_scheme,
		   updated_at = excluded.updated_at`,
		userID.String(),
		string(cfg.NamingScheme),
		toMillis(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("save user config: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMessage(row rowScanner) (domain.Message, error) {
	var (
		id, channelID, userID string
		rawProps              string
		createAt              int64
		msg                   domain.Message
	)
	if err := row.Scan(&id, &channelID, &userID, &msg.Type, &msg.Content, &rawProps, &createAt); err != nil {
		return domain.Message{}, err
	}
	parsed, err := domain.ParseMessageID(id)
	if err != nil {
		return domain.Message{}, fmt.Errorf("parse message id %q: %w", id, err)
	}
	msg.ID = parsed
	msg.ChannelID = domain.ChannelID(channelID)
	msg.AuthorID = domain.UserID(userID)
	msg.CreatedAt = fromMillis(createAt)
	if rawProps != "" && rawProps != "{}" {
		if err := json.Unmarshal([]byte(rawProps), &msg.Props); err != nil {
			return domain.Message{}, fmt.Errorf("decode props: %w", err)
		}
	}
	return msg, nil
}

func isConstraintError(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

var (
	_ port.MessageRepository    = (*Store)(nil)
	_ port.UserConfigRepository = (*Store)(nil)
)
