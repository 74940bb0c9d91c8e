package db

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/user/video-trimmer-cli/trimmer"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("db: not found")

// EnsureVideo inserts the video at path or refreshes its metadata, and
// returns its ID. Zero fields in meta never overwrite known values.
func EnsureVideo(db *sql.DB, path string, meta trimmer.Metadata) (int64, error) {
	base := filepath.Base(path)
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if _, err := db.Exec(UpsertVideoSQL, path, base, ext, meta.Width, meta.Height, meta.DurationMs); err != nil {
		return 0, fmt.Errorf("upsert video: %w", err)
	}
	v, err := SelectVideoByPath(db, path)
	if err != nil {
		return 0, err
	}
	return v.ID, nil
}

// SelectVideoByPath returns the video stored for path.
func SelectVideoByPath(db *sql.DB, path string) (*Video, error) {
	var v Video
	err := db.QueryRow(SelectVideoByPathSQL, path).Scan(
		&v.ID, &v.Path, &v.Filename, &v.Extension, &v.Width, &v.Height, &v.DurationMs, &v.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select video by path: %w", err)
	}
	return &v, nil
}

// StartExport records an export as processing and returns its ID.
func StartExport(db *sql.DB, videoID int64, w trimmer.Window, destination string, startedAt time.Time) (int64, error) {
	result, err := db.Exec(InsertExportSQL, videoID, w.StartMs, w.EndMs, destination, startedAt)
	if err != nil {
		return 0, fmt.Errorf("insert export: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get export id: %w", err)
	}
	return id, nil
}

// MarkExportComplete marks an export completed. publishedURI may be empty.
func MarkExportComplete(db *sql.DB, id int64, finishedAt time.Time, publishedURI string) error {
	return updateOne(db, "mark export complete", MarkExportCompleteSQL, finishedAt, publishedURI, id)
}

// MarkExportError marks an export failed and keeps msg as its log.
func MarkExportError(db *sql.DB, id int64, errorAt time.Time, msg string) error {
	return updateOne(db, "mark export error", MarkExportErrorSQL, errorAt, msg, id)
}

// DeleteExport removes one export row. The clip file is left alone.
func DeleteExport(db *sql.DB, id int64) error {
	return updateOne(db, "delete export", DeleteExportSQL, id)
}

func updateOne(db *sql.DB, op, query string, args ...any) error {
	result, err := db.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// SelectExportByID returns one export.
func SelectExportByID(db *sql.DB, id int64) (*Export, error) {
	e, err := scanExport(db.QueryRow(SelectExportByIDSQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select export: %w", err)
	}
	return e, nil
}

// SelectExports returns the newest exports first, at most limit rows.
func SelectExports(db *sql.DB, limit int) ([]Export, error) {
	if limit <= 0 {
		limit = -1 // sqlite: no limit
	}
	rows, err := db.Query(SelectExportsSQL, limit)
	if err != nil {
		return nil, fmt.Errorf("select exports: %w", err)
	}
	defer rows.Close()

	var exports []Export
	for rows.Next() {
		e, err := scanExport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan export: %w", err)
		}
		exports = append(exports, *e)
	}
	return exports, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanExport(s scanner) (*Export, error) {
	var e Export
	err := s.Scan(&e.ID, &e.VideoID, &e.VideoPath, &e.StartMs, &e.EndMs, &e.Destination, &e.PublishedURI,
		&e.Status, &e.StartedAt, &e.FinishedAt, &e.ErrorAt, &e.Log)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
