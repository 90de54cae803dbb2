/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0.
 */
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// SearchResult represents a single match row. Snippet is a highlighted
// excerpt using [ ] markers. Kind is "text" for a story block or "choice"
// for a choice label.
type SearchResult struct {
	DocID   int64
	SceneID string
	Kind    string
	Snippet string
}

// Search performs full-text search over the embedded index. Text uses SQLite
// FTS5 syntax (simple terms, phrases in quotes, AND/OR/NOT). A limit <= 0
// applies a default of 50.
func Search(ctx context.Context, projectRoot, text string, limit int) ([]SearchResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("search text is required")
	}
	db, err := InitOrOpenIndex(projectRoot)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return searchDB(ctx, db, text, limit)
}

func searchDB(ctx context.Context, db *sql.DB, text string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.QueryContext(ctx,
		`SELECT d.doc_id, d.scene_id, d.kind, snippet(fts_documents, 0, '[', ']', '…', 10)
		 FROM fts_documents
		 JOIN documents d ON fts_documents.rowid = d.doc_id
		 WHERE fts_documents MATCH ?
		 ORDER BY rank, d.scene_id, d.ord
		 LIMIT ?`, text, limit)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer rows.Close()

	var out []SearchResult
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.DocID, &r.SceneID, &r.Kind, &r.Snippet); err != nil {
			return nil, fmt.Errorf("scan search row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
