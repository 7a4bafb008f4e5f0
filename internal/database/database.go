package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jredh-dev/foodshare/pkg/models"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite connection holding items and notifications.
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the SQLite database and runs migrations.
func New(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Single writer, many readers.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := migrate(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &DB{conn: conn}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func migrate(conn *sql.DB) error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS items (
		id              TEXT PRIMARY KEY,
		restaurant_id   TEXT NOT NULL,
		restaurant_name TEXT NOT NULL DEFAULT '',
		title           TEXT NOT NULL,
		description     TEXT NOT NULL DEFAULT '',
		category        TEXT NOT NULL,
		quantity        REAL NOT NULL,
		unit            TEXT NOT NULL,
		dietary         TEXT NOT NULL DEFAULT '[]',
		allergens       TEXT NOT NULL DEFAULT '[]',
		estimated_value REAL NOT NULL,
		expires_at      DATETIME NOT NULL,
		available_until DATETIME NOT NULL,
		status          TEXT NOT NULL DEFAULT 'available',
		claimed_by      TEXT NOT NULL DEFAULT '',
		claimed_at      DATETIME,
		created_at      DATETIME NOT NULL,
		updated_at      DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_items_restaurant_id ON items(restaurant_id);
	CREATE INDEX IF NOT EXISTS idx_items_status ON items(status);

	CREATE TABLE IF NOT EXISTS notifications (
		id              TEXT PRIMARY KEY,
		user_id         TEXT NOT NULL,
		type            TEXT NOT NULL,
		title           TEXT NOT NULL,
		message         TEXT NOT NULL DEFAULT '',
		read            BOOLEAN NOT NULL DEFAULT 0,
		related_item_id TEXT NOT NULL DEFAULT '',
		created_at      DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_notifications_user_id ON notifications(user_id);
	`
	_, err := conn.Exec(ddl)
	return err
}

// --- Item operations ---

const itemColumns = `id, restaurant_id, restaurant_name, title, description, category, quantity, unit,
	dietary, allergens, estimated_value, expires_at, available_until, status, claimed_by, claimed_at,
	created_at, updated_at`

func scanItem(row interface{ Scan(...interface{}) error }) (*models.Item, error) {
	item := &models.Item{}
	var dietary, allergens string
	err := row.Scan(
		&item.ID, &item.RestaurantID, &item.RestaurantName, &item.Title, &item.Description,
		&item.Category, &item.Quantity, &item.Unit, &dietary, &allergens, &item.EstimatedValue,
		&item.ExpiresAt, &item.AvailableUntil, &item.Status, &item.ClaimedBy, &item.ClaimedAt,
		&item.CreatedAt, &item.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(dietary), &item.Dietary); err != nil {
		return nil, fmt.Errorf("decode dietary for %s: %w", item.ID, err)
	}
	if err := json.Unmarshal([]byte(allergens), &item.Allergens); err != nil {
		return nil, fmt.Errorf("decode allergens for %s: %w", item.ID, err)
	}
	return item, nil
}

// CreateItem inserts a new item.
func (db *DB) CreateItem(ctx context.Context, item *models.Item) error {
	dietary, err := encodeTags(item.Dietary)
	if err != nil {
		return err
	}
	allergens, err := encodeTags(item.Allergens)
	if err != nil {
		return err
	}

	q := `INSERT INTO items (` + itemColumns + `)
	      VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = db.conn.ExecContext(ctx, q,
		item.ID, item.RestaurantID, item.RestaurantName, item.Title, item.Description,
		string(item.Category), item.Quantity, item.Unit, dietary, allergens, item.EstimatedValue,
		item.ExpiresAt, item.AvailableUntil, string(item.Status), item.ClaimedBy, item.ClaimedAt,
		item.CreatedAt, item.UpdatedAt,
	)
	return err
}

// GetItem returns an item by ID, or nil if it does not exist.
func (db *DB) GetItem(ctx context.Context, id string) (*models.Item, error) {
	q := `SELECT ` + itemColumns + ` FROM items WHERE id = ?`
	return scanItem(db.conn.QueryRowContext(ctx, q, id))
}

// ListItems returns items matching f in insertion order.
func (db *DB) ListItems(ctx context.Context, f models.ItemFilter) ([]models.Item, error) {
	q := `SELECT ` + itemColumns + ` FROM items WHERE 1 = 1`
	var args []interface{}

	if f.RestaurantID != "" {
		q += ` AND restaurant_id = ?`
		args = append(args, f.RestaurantID)
	}
	if f.Status != "" {
		q += ` AND status = ?`
		args = append(args, string(f.Status))
	}
	q += ` ORDER BY rowid ASC`

	rows, err := db.conn.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// SwapItem writes the lifecycle fields of next if the row's status is still prev.
// Descriptive fields are immutable after creation and are not rewritten.
func (db *DB) SwapItem(ctx context.Context, next *models.Item, prev models.ItemStatus) (bool, error) {
	const q = `UPDATE items SET status = ?, claimed_by = ?, claimed_at = ?, updated_at = ?
	           WHERE id = ? AND status = ?`
	res, err := db.conn.ExecContext(ctx, q,
		string(next.Status), next.ClaimedBy, next.ClaimedAt, next.UpdatedAt,
		next.ID, string(prev),
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("encode tags: %w", err)
	}
	return string(b), nil
}

// --- Notification operations ---

const notificationColumns = `id, user_id, type, title, message, read, related_item_id, created_at`

// AppendNotification inserts a notification.
func (db *DB) AppendNotification(ctx context.Context, n *models.Notification) error {
	q := `INSERT INTO notifications (` + notificationColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := db.conn.ExecContext(ctx, q,
		n.ID, n.UserID, string(n.Type), n.Title, n.Message, n.Read, n.RelatedItemID, n.CreatedAt,
	)
	return err
}

// ListNotifications returns a user's notifications in insertion order.
func (db *DB) ListNotifications(ctx context.Context, userID string) ([]models.Notification, error) {
	q := `SELECT ` + notificationColumns + ` FROM notifications WHERE user_id = ? ORDER BY rowid ASC`
	rows, err := db.conn.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(
			&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.Read, &n.RelatedItemID, &n.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// MarkNotificationRead marks one of the user's notifications read.
func (db *DB) MarkNotificationRead(ctx context.Context, userID, id string) error {
	_, err := db.conn.ExecContext(ctx,
		`UPDATE notifications SET read = 1 WHERE id = ? AND user_id = ?`, id, userID)
	return err
}

// MarkAllNotificationsRead marks every notification of the user read.
func (db *DB) MarkAllNotificationsRead(ctx context.Context, userID string) error {
	_, err := db.conn.ExecContext(ctx,
		`UPDATE notifications SET read = 1 WHERE user_id = ?`, userID)
	return err
}
