// Package knowledge provides the project knowledge store consumed by the
// knowledge_retrieval capability. Records are keyed by project identifier
// and served from SQLite; the database is seeded with the baseline
// project fixtures on first open.
package knowledge

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

// ProjectRecord is the fixed set of fields tracked per project.
type ProjectRecord struct {
	ID            string `json:"project"`
	ReleaseDate   string `json:"release_date"`
	CodeFreeze    string `json:"code_freeze"`
	DaysRemaining int    `json:"days_remaining"`
	Progress      int    `json:"progress"`
	Capacity      int    `json:"capacity"`
	EngManager    string `json:"eng_manager"`
	TechLead      string `json:"tech_lead"`
}

// Store is the lookup boundary the retrieval capability consumes.
type Store interface {
	// Lookup returns the record for a project id, with ok=false when the
	// id is unknown. A failed lookup is not an error; callers synthesize
	// a placeholder record instead.
	Lookup(projectID string) (ProjectRecord, bool, error)
	// All returns every stored record ordered by project id.
	All() ([]ProjectRecord, error)
	Close() error
}

// SQLiteStore backs Store with a local SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
	mu     sync.RWMutex
}

// Open creates or opens the knowledge database under dir and seeds the
// baseline project records if they are not present.
func Open(dir string) (*SQLiteStore, error) {
	dbPath := filepath.Join(dir, "knowledge.db")

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &SQLiteStore{db: db, dbPath: dbPath}

	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	if err := s.seed(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to seed projects: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.dbPath
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS projects (
		id TEXT PRIMARY KEY,
		release_date TEXT NOT NULL,
		code_freeze TEXT NOT NULL,
		days_remaining INTEGER NOT NULL,
		progress INTEGER NOT NULL,
		capacity INTEGER NOT NULL,
		eng_manager TEXT NOT NULL,
		tech_lead TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// seedRecords are the baseline projects every fresh database starts with.
var seedRecords = []ProjectRecord{
	{ID: "PRJ-ALPHA", ReleaseDate: "Dec 15, 2025", CodeFreeze: "Dec 10, 2025", DaysRemaining: 9, Progress: 70, Capacity: 85, EngManager: "Alex Kim", TechLead: "David Park"},
	{ID: "PRJ-BETA", ReleaseDate: "Jan 10, 2026", CodeFreeze: "Jan 5, 2026", DaysRemaining: 35, Progress: 65, Capacity: 80, EngManager: "Sarah Johnson", TechLead: "Emily Zhang"},
	{ID: "PRJ-GAMMA", ReleaseDate: "Jan 20, 2026", CodeFreeze: "Jan 15, 2026", DaysRemaining: 45, Progress: 55, Capacity: 75, EngManager: "Mike Chen", TechLead: "Robert Liu"},
	{ID: "PRJ-DELTA", ReleaseDate: "Feb 1, 2026", CodeFreeze: "Jan 25, 2026", DaysRemaining: 57, Progress: 40, Capacity: 70, EngManager: "Lisa Wong", TechLead: "James Park"},
}

func (s *SQLiteStore) seed() error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT OR IGNORE INTO projects
		(id, release_date, code_freeze, days_remaining, progress, capacity, eng_manager, tech_lead)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range seedRecords {
		if _, err := stmt.Exec(r.ID, r.ReleaseDate, r.CodeFreeze, r.DaysRemaining, r.Progress, r.Capacity, r.EngManager, r.TechLead); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Lookup returns the record for projectID, with ok=false on a miss.
func (s *SQLiteStore) Lookup(projectID string) (ProjectRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var r ProjectRecord
	row := s.db.QueryRow(`SELECT id, release_date, code_freeze, days_remaining, progress, capacity, eng_manager, tech_lead
		FROM projects WHERE id = ?`, projectID)
	err := row.Scan(&r.ID, &r.ReleaseDate, &r.CodeFreeze, &r.DaysRemaining, &r.Progress, &r.Capacity, &r.EngManager, &r.TechLead)
	if err == sql.ErrNoRows {
		return ProjectRecord{}, false, nil
	}
	if err != nil {
		return ProjectRecord{}, false, fmt.Errorf("project lookup: %w", err)
	}
	return r, true, nil
}

// All returns every stored record ordered by project id.
func (s *SQLiteStore) All() ([]ProjectRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT id, release_date, code_freeze, days_remaining, progress, capacity, eng_manager, tech_lead
		FROM projects ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("project list: %w", err)
	}
	defer rows.Close()

	var out []ProjectRecord
	for rows.Next() {
		var r ProjectRecord
		if err := rows.Scan(&r.ID, &r.ReleaseDate, &r.CodeFreeze, &r.DaysRemaining, &r.Progress, &r.Capacity, &r.EngManager, &r.TechLead); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Upsert inserts or replaces a project record.
func (s *SQLiteStore) Upsert(r ProjectRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`INSERT OR REPLACE INTO projects
		(id, release_date, code_freeze, days_remaining, progress, capacity, eng_manager, tech_lead)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.ReleaseDate, r.CodeFreeze, r.DaysRemaining, r.Progress, r.Capacity, r.EngManager, r.TechLead)
	if err != nil {
		return fmt.Errorf("project upsert: %w", err)
	}
	return nil
}
