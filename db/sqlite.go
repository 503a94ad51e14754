package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"github.com/brettboylen/hn-scraper/models"
	"github.com/brettboylen/hn-scraper/report"
)

// Database stores a history of scrape runs and their reports
type Database struct {
	db    *sql.DB
	mutex sync.RWMutex
	log   *logrus.Logger
}

// NewDatabase creates a new SQLite database connection
func NewDatabase(dbPath string, log *logrus.Logger) (*Database, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	database := &Database{
		db:  db,
		log: log,
	}

	if err := database.initTables(); err != nil {
		return nil, fmt.Errorf("failed to initialize tables: %w", err)
	}

	return database, nil
}

// Close closes the database connection
func (d *Database) Close() error {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return d.db.Close()
}

// initTables creates the necessary tables if they don't exist
func (d *Database) initTables() error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	// note: in an ideal world, this would be a migration that we could just run once per environment
	query := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		listing_url TEXT NOT NULL,
		story_count INTEGER NOT NULL,
		with_comments BOOLEAN NOT NULL,
		scraped_at TIMESTAMP NOT NULL
	);
	CREATE TABLE IF NOT EXISTS stories (
		run_id INTEGER NOT NULL,
		rank INTEGER NOT NULL,
		title TEXT NOT NULL,
		link TEXT NOT NULL,
		comments TEXT,
		PRIMARY KEY (run_id, rank),
		FOREIGN KEY (run_id) REFERENCES runs(id)
	);
	CREATE INDEX IF NOT EXISTS idx_runs_scraped_at ON runs(scraped_at DESC);
	`

	_, err := d.db.Exec(query)
	return err
}

// SaveReport persists one scrape run and its report, returning the run ID.
// Comments are stored as a JSON array per story; NULL means the run did not
// request comments.
func (d *Database) SaveReport(listingURL string, rep report.Report, withComments bool) (int64, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	tx, err := d.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`INSERT INTO runs (listing_url, story_count, with_comments, scraped_at) VALUES (?, ?, ?, ?)`,
		listingURL, len(rep), withComments, time.Now().UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save run: %w", err)
	}

	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read run id: %w", err)
	}

	for rank, entry := range rep {
		var comments any
		if entry.Comments != nil {
			encoded, err := json.Marshal(entry.Comments)
			if err != nil {
				return 0, fmt.Errorf("failed to encode comments for rank %d: %w", rank, err)
			}
			comments = string(encoded)
		}

		if _, err := tx.Exec(
			`INSERT INTO stories (run_id, rank, title, link, comments) VALUES (?, ?, ?, ?, ?)`,
			runID, rank, entry.Title, entry.Link, comments,
		); err != nil {
			return 0, fmt.Errorf("failed to save story rank %d: %w", rank, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}

	d.log.WithFields(logrus.Fields{
		"run_id":  runID,
		"stories": len(rep),
	}).Debug("Run saved")

	return runID, nil
}

// LatestRun returns the most recent run, or nil if no runs exist
func (d *Database) LatestRun() (*models.Run, error) {
	d.mutex.RLock()
	defer d.mutex.RUnlock()

	var run models.Run
	var scrapedAt string

	err := d.db.QueryRow(
		`SELECT id, listing_url, story_count, with_comments, scraped_at
		 FROM runs ORDER BY scraped_at DESC, id DESC LIMIT 1`,
	).Scan(&run.ID, &run.ListingURL, &run.StoryCount, &run.WithComments, &scrapedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest run: %w", err)
	}

	run.ScrapedAt, _ = time.Parse(time.RFC3339, scrapedAt)
	return &run, nil
}

// ReportForRun reconstructs the report persisted for a run
func (d *Database) ReportForRun(runID int64) (report.Report, error) {
	d.mutex.RLock()
	defer d.mutex.RUnlock()

	rows, err := d.db.Query(
		`SELECT rank, title, link, comments FROM stories WHERE run_id = ? ORDER BY rank`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query stories for run %d: %w", runID, err)
	}
	defer rows.Close()

	rep := make(report.Report)
	for rows.Next() {
		var rank int
		var entry models.ReportEntry
		var comments sql.NullString

		if err := rows.Scan(&rank, &entry.Title, &entry.Link, &comments); err != nil {
			return nil, fmt.Errorf("failed to scan story: %w", err)
		}

		if comments.Valid {
			if err := json.Unmarshal([]byte(comments.String), &entry.Comments); err != nil {
				return nil, fmt.Errorf("failed to decode comments for rank %d: %w", rank, err)
			}
			if entry.Comments == nil {
				entry.Comments = []string{}
			}
		}

		rep[rank] = entry
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return rep, nil
}
