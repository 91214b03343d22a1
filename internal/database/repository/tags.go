package repository

import (
	"context"
	"database/sql"
)

// TagRepo handles tags.
type TagRepo struct {
	db *sql.DB
}

func NewTagRepo(db *sql.DB) *TagRepo { return &TagRepo{db: db} }

func (r *TagRepo) Upsert(ctx context.Context, t Tag) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO tags(id, name) VALUES (?, ?)
	ON CONFLICT(id) DO UPDATE SET name=excluded.name;
	`, t.ID, t.Name)
	return err
}

func (r *TagRepo) ByName(ctx context.Context, name string) (*Tag, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name FROM tags WHERE name = ?`, name)
	var t Tag
	if err := row.Scan(&t.ID, &t.Name); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *TagRepo) List(ctx context.Context) ([]Tag, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM tags ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Tag
	for rows.Next() {
		var t Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Attach links a tag to a transaction; attaching twice is a no-op.
func (r *TagRepo) Attach(ctx context.Context, transactionID, tagID string) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT OR IGNORE INTO transaction_tags(transaction_id, tag_id) VALUES (?, ?)`, transactionID, tagID)
	return err
}

// Detach removes a tag from a transaction.
func (r *TagRepo) Detach(ctx context.Context, transactionID, tagID string) error {
	_, err := r.db.ExecContext(ctx, `
	DELETE FROM transaction_tags WHERE transaction_id = ? AND tag_id = ?`, transactionID, tagID)
	return err
}

// ForTransaction lists a transaction's tags by name order.
func (r *TagRepo) ForTransaction(ctx context.Context, transactionID string) ([]Tag, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT t.id, t.name FROM tags t
	JOIN transaction_tags tt ON tt.tag_id = t.id
	WHERE tt.transaction_id = ? ORDER BY t.name`, transactionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Tag
	for rows.Next() {
		var t Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
