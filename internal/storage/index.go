/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gcol33/andi-escape-from-rennweg/internal/domain"
	applog "github.com/gcol33/andi-escape-from-rennweg/internal/log"
	"github.com/gcol33/andi-escape-from-rennweg/internal/version"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

const (
	// IndexDirName stores all per-project ephemeral/index data under the project root.
	IndexDirName  = ".andi"
	IndexFileName = "index.sqlite"

	// schemaVersion tracks the local SQLite schema for the embedded index.
	// Bump this when you perform breaking schema changes.
	schemaVersion = 1
)

// IndexPath returns the full path to the project's embedded index database file.
func IndexPath(projectRoot string) string {
	return filepath.Join(projectRoot, IndexDirName, IndexFileName)
}

// InitOrOpenIndex ensures that the per-project SQLite index exists at
// .andi/index.sqlite, opens the database, enables WAL mode, and ensures the
// meta/version and document tables exist. The returned *sql.DB is ready for
// use; callers close it when no longer needed.
func InitOrOpenIndex(projectRoot string) (*sql.DB, error) {
	l := applog.WithOperation(applog.WithComponent("storage"), "index_init").With(
		slog.String("root", projectRoot),
	)
	if strings.TrimSpace(projectRoot) == "" {
		return nil, errors.New("project root is required")
	}
	if err := os.MkdirAll(filepath.Join(projectRoot, IndexDirName), 0o755); err != nil {
		l.Error("create .andi dir failed", slog.Any("err", err))
		return nil, fmt.Errorf("create .andi dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=busy_timeout(5000)", filepath.ToSlash(IndexPath(projectRoot)))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		l.Error("sqlite open failed", slog.Any("err", err))
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		l.Error("enable WAL failed", slog.Any("err", err))
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if err := ensureIndexSchema(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure index schema failed", slog.Any("err", err))
		return nil, err
	}
	l.Debug("index ready", slog.String("path", IndexPath(projectRoot)))
	return db, nil
}

func ensureIndexSchema(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS documents (
			doc_id   INTEGER PRIMARY KEY AUTOINCREMENT,
			scene_id TEXT NOT NULL,
			kind     TEXT NOT NULL,
			ord      INTEGER NOT NULL,
			text     TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_documents_scene ON documents(scene_id);`,
		`CREATE VIRTUAL TABLE IF NOT EXISTS fts_documents USING fts5(text);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create index schema: %w", err)
		}
	}
	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := db.ExecContext(ctx,
		`INSERT INTO meta(key,value) VALUES('schema',?),('app',?),('updated_at',?)
		 ON CONFLICT(key) DO UPDATE SET value=excluded.value`,
		fmt.Sprint(schemaVersion), version.String(), now); err != nil {
		return fmt.Errorf("seed meta: %w", err)
	}
	return nil
}

// RebuildIndex replaces the index contents with one row per scene text block
// and per choice label. The compiler rebuilds output from scratch on every
// run and the index mirrors that model; there is no incremental path.
func RebuildIndex(ctx context.Context, projectRoot string, scenes []*domain.Scene) (int, error) {
	db, err := InitOrOpenIndex(projectRoot)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin reindex: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM documents`); err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("clear documents: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM fts_documents`); err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("clear fts: %w", err)
	}

	count := 0
	insert := func(sceneID, kind string, ord int, text string) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO documents(scene_id, kind, ord, text) VALUES(?,?,?,?)`,
			sceneID, kind, ord, text)
		if err != nil {
			return err
		}
		rowID, err := res.LastInsertId()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO fts_documents(rowid, text) VALUES(?,?)`, rowID, text); err != nil {
			return err
		}
		count++
		return nil
	}
	for _, s := range scenes {
		for i, block := range s.TextBlocks {
			if err := insert(s.ID, "text", i, block); err != nil {
				_ = tx.Rollback()
				return 0, fmt.Errorf("index scene %s: %w", s.ID, err)
			}
		}
		for i, c := range s.Choices {
			if err := insert(s.ID, "choice", i, c.Label); err != nil {
				_ = tx.Rollback()
				return 0, fmt.Errorf("index scene %s: %w", s.ID, err)
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit reindex: %w", err)
	}
	return count, nil
}
