package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// GetOrCreateTag looks up a tag by its unique name, creating it if absent.
// Names are normalized to lower case before lookup.
func (s *Store) GetOrCreateTag(ctx context.Context, name string) (*Tag, error) {
	ctx = ensureContext(ctx)
	name = normalizeTagName(name)
	if name == "" {
		return nil, errors.New("tag name is empty")
	}

	var tag *Tag
	err := retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin tag tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		tag, err = getOrCreateTagTx(ctx, tx, name)
		if err != nil {
			return err
		}
		return tx.Commit()
	})
	if err != nil {
		return nil, err
	}
	return tag, nil
}

// AddTags unions the provided tag names into an item's tag set, creating
// missing tags on the way. Already-linked tags are left untouched.
func (s *Store) AddTags(ctx context.Context, itemID int64, names []string) error {
	if len(names) == 0 {
		return nil
	}
	ctx = ensureContext(ctx)
	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin add tags tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		if err := linkTagsTx(ctx, tx, itemID, names); err != nil {
			return err
		}
		return tx.Commit()
	})
}

// TagsForItem returns the item's tag names in alphabetical order.
func (s *Store) TagsForItem(ctx context.Context, itemID int64) ([]string, error) {
	rows, err := s.db.QueryContext(
		ensureContext(ctx),
		`SELECT t.name FROM tags t
         JOIN item_tags it ON it.tag_id = t.id
         WHERE it.item_id = ?
         ORDER BY t.name`,
		itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("query item tags: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// TagCounts returns every tag with the number of items referencing it.
func (s *Store) TagCounts(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(
		ensureContext(ctx),
		`SELECT t.name, COUNT(it.item_id) FROM tags t
         LEFT JOIN item_tags it ON it.tag_id = t.id
         GROUP BY t.id ORDER BY t.name`,
	)
	if err != nil {
		return nil, fmt.Errorf("query tag counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var name string
		var count int
		if err := rows.Scan(&name, &count); err != nil {
			return nil, err
		}
		counts[name] = count
	}
	return counts, rows.Err()
}

// EnsureUser looks up a user by username, creating a regular account when
// absent. Used by the CLI bulk loader; the daemon itself never writes users.
func (s *Store) EnsureUser(ctx context.Context, username string) (*User, error) {
	ctx = ensureContext(ctx)
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, errors.New("username is empty")
	}

	row := s.db.QueryRowContext(ctx, `SELECT id, username FROM users WHERE username = ?`, username)
	var user User
	err := row.Scan(&user.ID, &user.Username)
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("query user: %w", err)
	}

	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO users (username, created_at) VALUES (?, ?)`,
		username,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return &User{ID: id, Username: username}, nil
}

func getOrCreateTagTx(ctx context.Context, tx *sql.Tx, name string) (*Tag, error) {
	var tag Tag
	err := tx.QueryRowContext(ctx, `SELECT id, name FROM tags WHERE name = ?`, name).Scan(&tag.ID, &tag.Name)
	if err == nil {
		return &tag, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("query tag: %w", err)
	}

	res, err := tx.ExecContext(ctx, `INSERT INTO tags (name) VALUES (?)`, name)
	if err != nil {
		return nil, fmt.Errorf("insert tag: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return &Tag{ID: id, Name: name}, nil
}

func linkTagsTx(ctx context.Context, tx *sql.Tx, itemID int64, names []string) error {
	for _, raw := range names {
		name := normalizeTagName(raw)
		if name == "" {
			continue
		}
		tag, err := getOrCreateTagTx(ctx, tx, name)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(
			ctx,
			`INSERT OR IGNORE INTO item_tags (item_id, tag_id) VALUES (?, ?)`,
			itemID,
			tag.ID,
		); err != nil {
			return fmt.Errorf("link tag %q: %w", name, err)
		}
	}
	return nil
}

func normalizeTagName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
