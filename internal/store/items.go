package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const itemColumns = "id, title, filename, thumbnail_filename, status, original_filename, fingerprint, created_at, updated_at, user_id"

// NewPending inserts a pending row for a file sitting in the quarantine
// holding area. This is the only path that creates pending rows; both the
// upload intake and the CLI bulk loader go through it.
func (s *Store) NewPending(ctx context.Context, title, filename, originalFilename string, userID int64) (*Item, error) {
	ctx = ensureContext(ctx)
	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)

	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO media_items (
            title, filename, thumbnail_filename, status, original_filename,
            created_at, updated_at, user_id
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		title,
		filename,
		nil,
		StatusPending,
		nullableString(originalFilename),
		timestamp,
		timestamp,
		nullableInt64(userID),
	)
	if err != nil {
		return nil, fmt.Errorf("insert pending item: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

// GetByID fetches a media item by identifier.
func (s *Store) GetByID(ctx context.Context, id int64) (*Item, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), `SELECT `+itemColumns+` FROM media_items WHERE id = ?`, id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// GetByFilename fetches a media item by its unique filename.
func (s *Store) GetByFilename(ctx context.Context, filename string) (*Item, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), `SELECT `+itemColumns+` FROM media_items WHERE filename = ?`, filename)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item by filename: %w", err)
	}
	return item, nil
}

// Update persists changes to an existing media item.
func (s *Store) Update(ctx context.Context, item *Item) error {
	if item == nil {
		return errors.New("item is nil")
	}
	item.UpdatedAt = time.Now().UTC()
	_, err := s.execWithRetry(
		ensureContext(ctx),
		`UPDATE media_items
         SET title = ?, filename = ?, thumbnail_filename = ?, status = ?,
             original_filename = ?, fingerprint = ?, updated_at = ?, user_id = ?
         WHERE id = ?`,
		item.Title,
		item.Filename,
		nullableString(item.ThumbnailFilename),
		item.Status,
		nullableString(item.OriginalFilename),
		nullableString(item.Fingerprint),
		item.UpdatedAt.Format(time.RFC3339Nano),
		nullableInt64(item.UserID),
		item.ID,
	)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

// Remove deletes an item by identifier. Tag links go with it via cascade.
func (s *Store) Remove(ctx context.Context, id int64) (bool, error) {
	res, err := s.execWithRetry(ensureContext(ctx), `DELETE FROM media_items WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// FirstPending returns the first pending item in store order, or nil when the
// quarantine backlog is empty. No FIFO guarantee beyond rowid ordering.
func (s *Store) FirstPending(ctx context.Context) (*Item, error) {
	row := s.db.QueryRowContext(
		ensureContext(ctx),
		`SELECT `+itemColumns+` FROM media_items WHERE status = ? ORDER BY id LIMIT 1`,
		StatusPending,
	)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("first pending: %w", err)
	}
	return item, nil
}

// FirstUntaggedActive returns the first active item with zero tags, or nil.
func (s *Store) FirstUntaggedActive(ctx context.Context) (*Item, error) {
	row := s.db.QueryRowContext(
		ensureContext(ctx),
		`SELECT `+itemColumns+` FROM media_items m
         WHERE m.status = ?
           AND NOT EXISTS (SELECT 1 FROM item_tags t WHERE t.item_id = m.id)
         ORDER BY m.id LIMIT 1`,
		StatusActive,
	)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("first untagged active: %w", err)
	}
	return item, nil
}

// ErrNotPending reports that an activation found the row no longer pending:
// another writer claimed it first, or the row was deleted.
var ErrNotPending = errors.New("item is not pending")

// Activate commits the outcome of a successful quarantine pass as a single
// transaction: the rewritten filename, thumbnail, fingerprint, and status
// flip to active, plus the union of any inferred tags. Tags may be empty;
// inference failures upstream degrade to an empty slice and never block the
// activation itself.
//
// The status flip is conditional on the row still being pending, so the
// transaction doubles as the claim step: of two workers racing on the same
// item exactly one commits, the other gets ErrNotPending. The item struct is
// only mutated once the commit lands.
func (s *Store) Activate(ctx context.Context, item *Item, tags []string) error {
	if item == nil {
		return errors.New("item is nil")
	}
	ctx = ensureContext(ctx)
	updatedAt := time.Now().UTC()

	err := retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin activate tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		res, err := tx.ExecContext(
			ctx,
			`UPDATE media_items
             SET filename = ?, thumbnail_filename = ?, status = ?, fingerprint = ?, updated_at = ?
             WHERE id = ? AND status = ?`,
			item.Filename,
			nullableString(item.ThumbnailFilename),
			StatusActive,
			nullableString(item.Fingerprint),
			updatedAt.Format(time.RFC3339Nano),
			item.ID,
			StatusPending,
		)
		if err != nil {
			return fmt.Errorf("activate item: %w", err)
		}
		if affected, err := res.RowsAffected(); err != nil {
			return fmt.Errorf("activate item: %w", err)
		} else if affected == 0 {
			return ErrNotPending
		}

		if err := linkTagsTx(ctx, tx, item.ID, tags); err != nil {
			return err
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit activation: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	item.Status = StatusActive
	item.UpdatedAt = updatedAt
	return nil
}

// List returns items filtered by status set (or all items when no status is provided).
func (s *Store) List(ctx context.Context, statuses ...Status) ([]*Item, error) {
	ctx = ensureContext(ctx)
	var (
		rows *sql.Rows
		err  error
	)

	baseQuery := `SELECT ` + itemColumns + ` FROM media_items`
	orderClause := ` ORDER BY created_at`

	if len(statuses) == 0 {
		rows, err = s.db.QueryContext(ctx, baseQuery+orderClause)
	} else {
		placeholders := makePlaceholders(len(statuses))
		args := make([]any, len(statuses))
		for i, status := range statuses {
			args[i] = status
		}
		query := baseQuery + ` WHERE status IN (` + placeholders + `)` + orderClause
		rows, err = s.db.QueryContext(ctx, query, args...)
	}
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// ReferencedFilenames returns every filename and thumbnail filename
// referenced by any stored item, regardless of status. The cleanup sweep
// treats this set as the ground truth for what may live in the media store.
func (s *Store) ReferencedFilenames(ctx context.Context) (map[string]struct{}, error) {
	rows, err := s.db.QueryContext(
		ensureContext(ctx),
		`SELECT filename, thumbnail_filename FROM media_items`,
	)
	if err != nil {
		return nil, fmt.Errorf("query referenced filenames: %w", err)
	}
	defer rows.Close()

	referenced := make(map[string]struct{})
	for rows.Next() {
		var filename string
		var thumbnail sql.NullString
		if err := rows.Scan(&filename, &thumbnail); err != nil {
			return nil, err
		}
		referenced[filename] = struct{}{}
		if thumbnail.Valid && thumbnail.String != "" {
			referenced[thumbnail.String] = struct{}{}
		}
	}
	return referenced, rows.Err()
}

// Stats returns a count of items grouped by status.
func (s *Store) Stats(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), `SELECT status, COUNT(1) FROM media_items GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("item stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[Status]int)
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats[status] = count
	}
	return stats, rows.Err()
}

// Health aggregates store state for diagnostic output.
func (s *Store) Health(ctx context.Context) (HealthSummary, error) {
	ctx = ensureContext(ctx)
	stats, err := s.Stats(ctx)
	if err != nil {
		return HealthSummary{}, err
	}
	health := HealthSummary{}
	for status, count := range stats {
		health.Total += count
		switch status {
		case StatusPending:
			health.Pending += count
		case StatusActive:
			health.Active += count
		}
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM tags`).Scan(&health.Tags); err != nil {
		return health, fmt.Errorf("count tags: %w", err)
	}
	return health, nil
}

func scanItem(scanner interface{ Scan(dest ...any) error }) (*Item, error) {
	var (
		id          int64
		title       string
		filename    string
		thumbnail   sql.NullString
		statusStr   string
		original    sql.NullString
		fingerprint sql.NullString
		createdRaw  sql.NullString
		updatedRaw  sql.NullString
		userID      sql.NullInt64
	)

	if err := scanner.Scan(
		&id,
		&title,
		&filename,
		&thumbnail,
		&statusStr,
		&original,
		&fingerprint,
		&createdRaw,
		&updatedRaw,
		&userID,
	); err != nil {
		return nil, err
	}

	item := &Item{
		ID:                id,
		Title:             title,
		Filename:          filename,
		ThumbnailFilename: thumbnail.String,
		Status:            Status(statusStr),
		OriginalFilename:  original.String,
		Fingerprint:       fingerprint.String,
		UserID:            userID.Int64,
	}

	if created, err := parseTimeString(createdRaw.String); err == nil {
		item.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		item.UpdatedAt = updated
	}
	return item, nil
}
