package state

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/leapstack-labs/leapfea/pkg/core"
)

// SaveResults stores the result tables of a run in one transaction and
// returns the number of values written.
func (s *SQLiteStore) SaveResults(runID string, results core.Results) (int, error) {
	if s.db == nil {
		return 0, fmt.Errorf("database not opened")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(
		`INSERT OR REPLACE INTO results (run_id, step, category, field, key, value) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	n := 0
	for _, step := range results.Steps() {
		sr := results[step]
		for _, category := range []string{core.CategoryNodal, core.CategoryElement} {
			table := sr.Table(category)
			for _, field := range sortedFields(table) {
				values := table[field]
				for _, key := range sortedKeys(values) {
					if _, err := stmt.Exec(runID, step, category, field, key, values[key]); err != nil {
						return 0, fmt.Errorf("failed to save result %s/%s/%s/%d: %w", step, category, field, key, err)
					}
					n++
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit results: %w", err)
	}
	s.logger.Debug("saved results", slog.String("run", runID), slog.Int("values", n))
	return n, nil
}

// LoadResults reads the result tables of a run.
func (s *SQLiteStore) LoadResults(runID string) (core.Results, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.Query(
		`SELECT step, category, field, key, value FROM results WHERE run_id = ? ORDER BY step, category, field, key`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to load results: %w", err)
	}
	defer rows.Close()

	results := core.Results{}
	for rows.Next() {
		var (
			step, category, field string
			key                   int
			value                 float64
		)
		if err := rows.Scan(&step, &category, &field, &key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		results.Set(step, category, field, key, value)
	}
	return results, rows.Err()
}

func sortedFields(t core.FieldTable) []string {
	fields := make([]string, 0, len(t))
	for f := range t {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

func sortedKeys(m map[int]float64) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
