package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/Tameralinada/ai-code-reviewer/internal/analyzer"
	"github.com/Tameralinada/ai-code-reviewer/internal/models"
	"github.com/Tameralinada/ai-code-reviewer/internal/textutil"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// defaultFileName is used when a review is created without a file name,
// e.g. code pasted on stdin.
const defaultFileName = "unnamed_file.txt"

// SQLiteStore implements Store using modernc.org/sqlite (pure Go, no CGO).
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	// Ensure parent directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite only supports one concurrent writer. Limiting to a single
	// connection serializes all DB access through Go's connection pool,
	// preventing "database is locked" errors from concurrent callers.
	db.SetMaxOpenConns(1)

	// Enable WAL mode for concurrent reads
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	// Set busy timeout so concurrent writes wait instead of failing immediately
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// newULID generates a new ULID string.
func newULID() string {
	entropy := rand.New(rand.NewSource(time.Now().UnixNano()))
	return ulid.MustNew(ulid.Timestamp(time.Now()), ulid.Monotonic(entropy, 0)).String()
}

// Migrate runs all embedded SQL migration files in order.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	// Create migrations tracking table
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		filename TEXT PRIMARY KEY,
		applied_at DATETIME NOT NULL DEFAULT (datetime('now'))
	)`)
	if err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}

	// Sort by filename
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()

		// Check if already applied
		var count int
		err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations WHERE filename = ?", name).Scan(&count)
		if err != nil {
			return fmt.Errorf("check migration %s: %w", name, err)
		}
		if count > 0 {
			continue
		}

		data, err := migrationsFS.ReadFile("migrations/" + name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}

		if _, err := s.db.ExecContext(ctx, string(data)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}

		if _, err := s.db.ExecContext(ctx, "INSERT INTO schema_migrations (filename) VALUES (?)", name); err != nil {
			return fmt.Errorf("record migration %s: %w", name, err)
		}
	}

	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// --- Reviews ---

func (s *SQLiteStore) CreateReview(ctx context.Context, fileName, code string) (*models.Review, error) {
	// Sanitizing here covers every write path, CLI and MCP alike.
	if fileName == "" {
		fileName = defaultFileName
	} else {
		fileName = textutil.SanitizeFilename(fileName)
	}
	r := &models.Review{
		ID:          newULID(),
		FileName:    fileName,
		CodeContent: code,
		Status:      models.ReviewStatusInProgress,
		CreatedAt:   time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO reviews (id, file_name, code_content, status, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		r.ID, r.FileName, r.CodeContent, string(r.Status), r.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}
	return r, nil
}

func (s *SQLiteStore) GetReview(ctx context.Context, id string) (*models.Review, error) {
	r := &models.Review{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, file_name, code_content, status, created_at
		FROM reviews WHERE id = ?`, id,
	).Scan(&r.ID, &r.FileName, &r.CodeContent, &r.Status, &r.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("review not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get review: %w", err)
	}
	return r, nil
}

// RecordResult persists the outcome of an analysis in a single transaction.
// A successful result writes the issues, one metric row, the COMPLETED
// status, and a history entry. A failed result writes only the FAILED status
// and a history entry. Either everything lands or nothing does.
func (s *SQLiteStore) RecordResult(ctx context.Context, reviewID string, res analyzer.Result) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()

	if res.Success {
		for _, f := range res.Analysis.Issues {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO issues (id, review_id, severity, description, line_number, created_at)
				VALUES (?, ?, ?, ?, ?, ?)`,
				newULID(), reviewID, string(f.Severity), f.Description, f.LineNumber, now,
			)
			if err != nil {
				return fmt.Errorf("insert issue: %w", err)
			}
		}

		m := res.Analysis.Metrics
		_, err = tx.ExecContext(ctx,
			`INSERT INTO metrics (id, review_id, complexity, maintainability, security_score, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			newULID(), reviewID, m.Complexity, m.Maintainability, m.SecurityScore, now,
		)
		if err != nil {
			return fmt.Errorf("insert metric: %w", err)
		}
	}

	status := models.ReviewStatusCompleted
	details := "Review completed"
	if !res.Success {
		status = models.ReviewStatusFailed
		details = "Review failed: " + res.Error
	}

	result, err := tx.ExecContext(ctx,
		`UPDATE reviews SET status = ? WHERE id = ?`, string(status), reviewID)
	if err != nil {
		return fmt.Errorf("update review status: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("review not found: %s", reviewID)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO review_history (id, review_id, action, details, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		newULID(), reviewID, string(models.HistoryActionStatusChange), details, now,
	)
	if err != nil {
		return fmt.Errorf("insert history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit result: %w", err)
	}
	return nil
}

func (s *SQLiteStore) RecentReviews(ctx context.Context, limit int) ([]*models.Review, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, file_name, code_content, status, created_at
		FROM reviews ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent reviews: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var reviews []*models.Review
	for rows.Next() {
		r := &models.Review{}
		if err := rows.Scan(&r.ID, &r.FileName, &r.CodeContent, &r.Status, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}

// --- Issues ---

func (s *SQLiteStore) ListIssues(ctx context.Context, reviewID string) ([]*models.Issue, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, review_id, severity, description, line_number, created_at
		FROM issues WHERE review_id = ? ORDER BY line_number, id`, reviewID)
	if err != nil {
		return nil, fmt.Errorf("list issues: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var issues []*models.Issue
	for rows.Next() {
		i := &models.Issue{}
		if err := rows.Scan(&i.ID, &i.ReviewID, &i.Severity, &i.Description, &i.LineNumber, &i.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan issue: %w", err)
		}
		issues = append(issues, i)
	}
	return issues, rows.Err()
}

// --- Metrics ---

func (s *SQLiteStore) GetMetric(ctx context.Context, reviewID string) (*models.Metric, error) {
	m := &models.Metric{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, review_id, complexity, maintainability, security_score, created_at
		FROM metrics WHERE review_id = ?`, reviewID,
	).Scan(&m.ID, &m.ReviewID, &m.Complexity, &m.Maintainability, &m.SecurityScore, &m.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("metric not found for review: %s", reviewID)
	}
	if err != nil {
		return nil, fmt.Errorf("get metric: %w", err)
	}
	return m, nil
}

// --- History ---

func (s *SQLiteStore) ListHistory(ctx context.Context, reviewID string) ([]*models.HistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, review_id, action, details, created_at
		FROM review_history WHERE review_id = ? ORDER BY created_at, id`, reviewID)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []*models.HistoryEntry
	for rows.Next() {
		h := &models.HistoryEntry{}
		if err := rows.Scan(&h.ID, &h.ReviewID, &h.Action, &h.Details, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		entries = append(entries, h)
	}
	return entries, rows.Err()
}
