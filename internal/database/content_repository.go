package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"gamelog/models"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// ContentRepository provides CRUD access to the review collection.
type ContentRepository struct {
	db *sql.DB
}

// NewContentRepository creates a repository bound to the given connection.
func NewContentRepository(db *sql.DB) *ContentRepository {
	return &ContentRepository{db: db}
}

// ListAll returns every record in the collection, newest first.
func (r *ContentRepository) ListAll() ([]models.ContentRecord, error) {
	rows, err := r.db.Query(`
		SELECT id, title, rating, summary, content, gameplay_time, date, author_uid, nsfw
		FROM content ORDER BY date DESC`)
	if err != nil {
		return nil, fmt.Errorf("list content: %w", err)
	}
	defer rows.Close()

	records := []models.ContentRecord{}
	for rows.Next() {
		var rec models.ContentRecord
		var nsfw int
		if err := rows.Scan(&rec.ID, &rec.Title, &rec.Rating, &rec.Summary, &rec.Content,
			&rec.GameplayTime, &rec.Date, &rec.AuthorUID, &nsfw); err != nil {
			return nil, fmt.Errorf("scan content row: %w", err)
		}
		rec.NSFW = nsfw != 0
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Get returns a single record by ID.
func (r *ContentRepository) Get(id string) (*models.ContentRecord, error) {
	var rec models.ContentRecord
	var nsfw int
	err := r.db.QueryRow(`
		SELECT id, title, rating, summary, content, gameplay_time, date, author_uid, nsfw
		FROM content WHERE id = ?`, id).
		Scan(&rec.ID, &rec.Title, &rec.Rating, &rec.Summary, &rec.Content,
			&rec.GameplayTime, &rec.Date, &rec.AuthorUID, &nsfw)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get content %s: %w", id, err)
	}
	rec.NSFW = nsfw != 0
	return &rec, nil
}

// Create inserts a new record, assigning its ID and date when unset.
func (r *ContentRepository) Create(rec *models.ContentRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Date.IsZero() {
		rec.Date = time.Now().UTC()
	}
	_, err := r.db.Exec(`
		INSERT INTO content (id, title, rating, summary, content, gameplay_time, date, author_uid, nsfw)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Title, rec.Rating, rec.Summary, rec.Content,
		rec.GameplayTime, rec.Date, rec.AuthorUID, boolToInt(rec.NSFW))
	if err != nil {
		return fmt.Errorf("create content: %w", err)
	}
	return nil
}

// Update overwrites an existing record.
func (r *ContentRepository) Update(rec *models.ContentRecord) error {
	res, err := r.db.Exec(`
		UPDATE content SET title = ?, rating = ?, summary = ?, content = ?,
			gameplay_time = ?, date = ?, author_uid = ?, nsfw = ?
		WHERE id = ?`,
		rec.Title, rec.Rating, rec.Summary, rec.Content,
		rec.GameplayTime, rec.Date, rec.AuthorUID, boolToInt(rec.NSFW), rec.ID)
	if err != nil {
		return fmt.Errorf("update content %s: %w", rec.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a record by ID.
func (r *ContentRepository) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM content WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete content %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListBacklog returns all backlog items, newest first.
func (r *ContentRepository) ListBacklog() ([]models.BacklogItem, error) {
	rows, err := r.db.Query(`SELECT id, title, date FROM backlog ORDER BY date DESC`)
	if err != nil {
		return nil, fmt.Errorf("list backlog: %w", err)
	}
	defer rows.Close()

	items := []models.BacklogItem{}
	for rows.Next() {
		var item models.BacklogItem
		if err := rows.Scan(&item.ID, &item.Title, &item.Date); err != nil {
			return nil, fmt.Errorf("scan backlog row: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// CreateBacklogItem inserts a new backlog entry.
func (r *ContentRepository) CreateBacklogItem(item *models.BacklogItem) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.Date.IsZero() {
		item.Date = time.Now().UTC()
	}
	_, err := r.db.Exec(`INSERT INTO backlog (id, title, date) VALUES (?, ?, ?)`,
		item.ID, item.Title, item.Date)
	if err != nil {
		return fmt.Errorf("create backlog item: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
