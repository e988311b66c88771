package assessment

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/2beens/formcheck/pkg"

	log "github.com/sirupsen/logrus"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// fixed width, so text ordering is time ordering
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStore keeps assessment results in a local SQLite file, for offline use.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens or creates the database at path.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		exists, err := pkg.PathExists(path, false)
		if err != nil {
			return nil, fmt.Errorf("store path: %w", err)
		}
		if !exists {
			log.Debugf("creating new results store at %s", path)
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return nil, fmt.Errorf("create store dir: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite [%s]: %w", path, err)
	}
	// a single connection keeps :memory: databases alive between queries
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			log.Errorf("close sqlite after failed migration: %s", cerr)
		}
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS assessment_result (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			exercise_type TEXT NOT NULL,
			score REAL NOT NULL CHECK (score >= 0 AND score <= 100),
			grade TEXT NOT NULL,
			report TEXT NOT NULL,
			measurements TEXT NOT NULL DEFAULT '{}',
			created_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_assessment_result_user_created ON assessment_result(user_id, created_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate sqlite: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) Add(ctx context.Context, result *Result) error {
	reportJson, err := json.Marshal(result.Report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	measurementsJson, err := json.Marshal(result.Measurements)
	if err != nil {
		return fmt.Errorf("marshal measurements: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO assessment_result (id, user_id, exercise_type, score, grade, report, measurements, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		result.ID,
		result.UserID,
		string(result.Exercise),
		result.Score,
		result.Grade,
		string(reportJson),
		string(measurementsJson),
		result.CreatedAt.UTC().Format(sqliteTimeLayout),
	)
	if err != nil {
		var sqliteErr *sqlite.Error
		if errors.As(err, &sqliteErr) {
			switch sqliteErr.Code() {
			case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
				return fmt.Errorf("%w: %s", ErrResultExists, result.ID)
			case sqlite3.SQLITE_CONSTRAINT_CHECK:
				return fmt.Errorf("%w: %.2f", ErrScoreOutOfRange, result.Score)
			}
		}
		return err
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*Result, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, exercise_type, score, grade, report, measurements, created_at
		 FROM assessment_result WHERE id = ?`,
		id,
	)
	res, err := scanSQLiteResult(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrResultNotFound, id)
		}
		return nil, err
	}
	return res, nil
}

func (s *SQLiteStore) ListByUser(ctx context.Context, userID string, limit int) ([]Result, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, exercise_type, score, grade, report, measurements, created_at
		 FROM assessment_result WHERE user_id = ?
		 ORDER BY created_at DESC
		 LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Errorf("close sqlite rows: %s", err)
		}
	}()

	var results []Result
	for rows.Next() {
		res, err := scanSQLiteResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *SQLiteStore) ScoreSummary(ctx context.Context, userID string) (*ScoreSummary, error) {
	var (
		summary           ScoreSummary
		avg, maxSc, minSc sql.NullFloat64
		latest            sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), AVG(score), MAX(score), MIN(score), MAX(created_at)
		 FROM assessment_result WHERE user_id = ?`,
		userID,
	).Scan(&summary.Total, &avg, &maxSc, &minSc, &latest)
	if err != nil {
		return nil, err
	}

	summary.Avg = avg.Float64
	summary.Max = maxSc.Float64
	summary.Min = minSc.Float64
	if latest.Valid {
		t, err := time.Parse(sqliteTimeLayout, latest.String)
		if err != nil {
			return nil, fmt.Errorf("parse latest created at: %w", err)
		}
		summary.Latest = &t
	}

	return &summary, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteResult(row rowScanner) (*Result, error) {
	var (
		res              Result
		exerciseType     string
		reportJson       string
		measurementsJson string
		createdAt        string
	)
	if err := row.Scan(
		&res.ID, &res.UserID, &exerciseType, &res.Score, &res.Grade,
		&reportJson, &measurementsJson, &createdAt,
	); err != nil {
		return nil, err
	}

	t, err := time.Parse(sqliteTimeLayout, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created at of %s: %w", res.ID, err)
	}
	res.CreatedAt = t

	if err := decodeResultJson(&res, exerciseType, []byte(reportJson), []byte(measurementsJson)); err != nil {
		return nil, err
	}
	return &res, nil
}
