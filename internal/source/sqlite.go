package source

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/thisdougb/healthview/internal/catalog"
	"github.com/thisdougb/healthview/internal/units"
)

// SQLiteSource implements Source over a health export database.
type SQLiteSource struct {
	db *sql.DB
}

// SQLiteConfig holds configuration for the SQLite source
type SQLiteConfig struct {
	DBPath string
	// ReadOnly opens an existing export without touching its schema.
	ReadOnly bool
}

// NewSQLiteSource opens the export database. Unless ReadOnly is set, the
// schema is migrated to the current version.
func NewSQLiteSource(config SQLiteConfig) (*SQLiteSource, error) {
	dsn, err := sqliteDSN(config.DBPath, config.ReadOnly)
	if err != nil {
		return nil, fmt.Errorf("invalid database path: %w", err)
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite works best with single connection
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if config.ReadOnly {
		version, err := getCurrentSQLiteVersion(db)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to read schema version: %w", err)
		}
		if version < len(sqliteMigrations) {
			db.Close()
			return nil, fmt.Errorf("export schema version %d is older than %d", version, len(sqliteMigrations))
		}
	} else if err := runSQLiteMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteSource{db: db}, nil
}

// sqliteDSN returns path as a file URI. The path is escaped so that '?' and
// '#' in a directory name are not read as URI parameters.
func sqliteDSN(path string, readOnly bool) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	p := filepath.ToSlash(abs)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}

	u := url.URL{Scheme: "file", Path: p}
	if readOnly {
		u.RawQuery = "mode=ro"
	}
	return u.String(), nil
}

// RequestAuthorization grants access only when every requested type has a
// granted row in the authorizations table.
func (s *SQLiteSource) RequestAuthorization(ctx context.Context, read []catalog.SampleType) error {
	var denied []string

	for _, t := range read {
		var granted bool
		err := s.db.QueryRowContext(ctx,
			`SELECT granted FROM authorizations WHERE type = ?`, string(t)).Scan(&granted)
		if errors.Is(err, sql.ErrNoRows) {
			denied = append(denied, string(t))
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to read authorization for %s: %w", t, err)
		}
		if !granted {
			denied = append(denied, string(t))
		}
	}

	if len(denied) > 0 {
		return fmt.Errorf("%w: %s", ErrAuthorizationDenied, strings.Join(denied, ", "))
	}
	return nil
}

func (s *SQLiteSource) QueryQuantity(ctx context.Context, q Query) ([]QuantitySample, error) {
	if !isQuantityType(q.Type) {
		return nil, fmt.Errorf("%w: %q is not a quantity", ErrUnsupportedType, q.Type)
	}

	clause, args := buildClause(q, true)
	rows, err := s.db.QueryContext(ctx,
		`SELECT type, start_ns, end_ns, value, unit FROM quantity_samples`+clause, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query quantity samples: %w", err)
	}
	defer rows.Close()

	var samples []QuantitySample
	for rows.Next() {
		var sampleType, unit string
		var startNs, endNs int64
		var value float64

		if err := rows.Scan(&sampleType, &startNs, &endNs, &value, &unit); err != nil {
			return nil, fmt.Errorf("failed to scan quantity sample: %w", err)
		}

		samples = append(samples, QuantitySample{
			Type:     catalog.SampleType(sampleType),
			Start:    time.Unix(0, startNs).UTC(),
			End:      time.Unix(0, endNs).UTC(),
			Quantity: units.Quantity{Value: value, Unit: units.Unit(unit)},
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return samples, nil
}

func (s *SQLiteSource) QueryCategory(ctx context.Context, q Query) ([]CategorySample, error) {
	if q.Type != catalog.SleepAnalysis {
		return nil, fmt.Errorf("%w: %q is not a category", ErrUnsupportedType, q.Type)
	}

	clause, args := buildClause(q, true)
	rows, err := s.db.QueryContext(ctx,
		`SELECT type, start_ns, end_ns, value FROM category_samples`+clause, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query category samples: %w", err)
	}
	defer rows.Close()

	var samples []CategorySample
	for rows.Next() {
		var sampleType string
		var startNs, endNs int64
		var value int

		if err := rows.Scan(&sampleType, &startNs, &endNs, &value); err != nil {
			return nil, fmt.Errorf("failed to scan category sample: %w", err)
		}

		samples = append(samples, CategorySample{
			Type:  catalog.SampleType(sampleType),
			Start: time.Unix(0, startNs).UTC(),
			End:   time.Unix(0, endNs).UTC(),
			Value: SleepValue(value),
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return samples, nil
}

func (s *SQLiteSource) QueryElectrocardiograms(ctx context.Context, q Query) ([]Electrocardiogram, error) {
	if q.Type != "" && q.Type != catalog.Electrocardiogram {
		return nil, fmt.Errorf("%w: %q is not an electrocardiogram", ErrUnsupportedType, q.Type)
	}

	clause, args := buildClause(q, false)
	rows, err := s.db.QueryContext(ctx,
		`SELECT start_ns, end_ns, classification, average_heart_rate, average_heart_rate_unit
		FROM electrocardiograms`+clause, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query electrocardiograms: %w", err)
	}
	defer rows.Close()

	var recordings []Electrocardiogram
	for rows.Next() {
		var startNs, endNs int64
		var classification string
		var heartRate sql.NullFloat64
		var heartRateUnit sql.NullString

		if err := rows.Scan(&startNs, &endNs, &classification, &heartRate, &heartRateUnit); err != nil {
			return nil, fmt.Errorf("failed to scan electrocardiogram: %w", err)
		}

		ecg := Electrocardiogram{
			Start:          time.Unix(0, startNs).UTC(),
			End:            time.Unix(0, endNs).UTC(),
			Classification: ParseClassification(classification),
		}
		if heartRate.Valid {
			unit := units.CountPerMinute
			if heartRateUnit.Valid && heartRateUnit.String != "" {
				unit = units.Unit(heartRateUnit.String)
			}
			ecg.AverageHeartRate = &units.Quantity{Value: heartRate.Float64, Unit: unit}
		}
		recordings = append(recordings, ecg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return recordings, nil
}

// Close closes the database connection
func (s *SQLiteSource) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// buildClause renders the WHERE / ORDER BY / LIMIT tail of a sample query.
func buildClause(q Query, typed bool) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if typed {
		conditions = append(conditions, "type = ?")
		args = append(args, string(q.Type))
	}
	if !q.Since.IsZero() {
		conditions = append(conditions, "start_ns >= ?")
		args = append(args, q.Since.UnixNano())
	}
	if !q.Until.IsZero() {
		conditions = append(conditions, "start_ns < ?")
		args = append(args, q.Until.UnixNano())
	}

	var b strings.Builder
	if len(conditions) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(conditions, " AND "))
	}

	switch q.Sort {
	case SortStartDescending:
		b.WriteString(" ORDER BY start_ns DESC, id DESC")
	case SortStartAscending:
		b.WriteString(" ORDER BY start_ns ASC, id ASC")
	default:
		b.WriteString(" ORDER BY id ASC")
	}

	if q.Limit > 0 {
		b.WriteString(" LIMIT ?")
		args = append(args, q.Limit)
	}

	return b.String(), args
}
