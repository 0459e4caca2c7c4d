package content

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	pierrors "git.home.luguber.info/inful/postindex/internal/errors"
	"git.home.luguber.info/inful/postindex/internal/post"
)

// SQLiteSource reads posts from a `posts` table. Tags are stored as a JSON
// array and dates as RFC 3339 text.
type SQLiteSource struct {
	db   *sql.DB
	path string
	mu   sync.RWMutex
}

// NewSQLiteSource opens (and if needed creates) the database at dbPath.
// Use ":memory:" for an in-memory database.
func NewSQLiteSource(dbPath string) (*SQLiteSource, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, pierrors.StorageError("open sqlite database", err).WithContext("path", dbPath)
	}
	// A second connection to ":memory:" would see an empty database.
	db.SetMaxOpenConns(1)

	s := &SQLiteSource{db: db, path: dbPath}
	if err := s.initialize(); err != nil {
		_ = db.Close()
		return nil, pierrors.StorageError("initialize schema", err).WithContext("path", dbPath)
	}
	return s, nil
}

func (s *SQLiteSource) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS posts (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		date TEXT NOT NULL,
		tags TEXT NOT NULL DEFAULT '[]',
		image TEXT,
		description TEXT,
		body TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_posts_date ON posts(date);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Name implements Source.
func (s *SQLiteSource) Name() string { return "sqlite:" + s.path }

// Records implements Source.
func (s *SQLiteSource) Records(ctx context.Context) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, title, date, tags, image, description, body FROM posts ORDER BY id")
	if err != nil {
		return nil, pierrors.StorageError("query posts", err).WithContext("path", s.path)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			id, title, date, tags, body string
			image, description          sql.NullString
		)
		if err := rows.Scan(&id, &title, &date, &tags, &image, &description, &body); err != nil {
			return nil, pierrors.StorageError("scan post row", err).WithContext("path", s.path)
		}

		rec := Record{Key: id, Path: "posts/" + id, Body: []byte(body)}
		var tagList []any
		if err := json.Unmarshal([]byte(tags), &tagList); err != nil {
			rec.Err = fmt.Errorf("tags column is not a JSON array: %w", err)
			records = append(records, rec)
			continue
		}
		rec.Fields = map[string]any{
			"id":    id,
			"title": title,
			"date":  date,
			"tags":  tagList,
		}
		if image.Valid && image.String != "" {
			rec.Fields["image"] = image.String
		}
		if description.Valid && description.String != "" {
			rec.Fields["description"] = description.String
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, pierrors.StorageError("iterate post rows", err).WithContext("path", s.path)
	}
	return records, nil
}

// Put inserts or replaces a post.
func (s *SQLiteSource) Put(ctx context.Context, p post.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	tagJSON, err := json.Marshal(tags)
	if err != nil {
		return pierrors.InternalError("marshal tags", err)
	}

	var image, description any
	if p.HasImage() {
		image = p.ImageURL()
	}
	if p.Description != "" {
		description = p.Description
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO posts (id, title, date, tags, image, description, body)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			date = excluded.date,
			tags = excluded.tags,
			image = excluded.image,
			description = excluded.description,
			body = excluded.body`,
		p.ID, p.Title, p.Date.UTC().Format(time.RFC3339), string(tagJSON), image, description, p.Body,
	)
	if err != nil {
		return pierrors.StorageError("upsert post", err).WithContext("id", p.ID)
	}
	return nil
}

// Delete removes a post by ID. Deleting a missing post is not an error.
func (s *SQLiteSource) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, "DELETE FROM posts WHERE id = ?", id); err != nil {
		return pierrors.StorageError("delete post", err).WithContext("id", id)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteSource) Close() error {
	return s.db.Close()
}
