package activity

import (
	"database/sql"
	"fmt"
	"strings"
)

// FixRun represents a row in the fix_runs table.
type FixRun struct {
	ID           string
	Task         string
	Scope        []string
	Agent        string
	Verdict      string
	Iterations   int
	ExtraGranted int
	StartedAt    string
	FinishedAt   string
}

// CheckRun represents a row in the check_runs table.
type CheckRun struct {
	ID         int
	RunID      string
	Phase      string
	Iteration  int
	CheckName  string
	Passed     bool
	ExitCode   int
	DurationMs int
	Summary    string
	Findings   string
	Timestamp  string
}

// CreateFixRun inserts a new fix run with no verdict yet.
func (d *DB) CreateFixRun(id string, task string, scope []string, agent string) error {
	_, err := d.conn.Exec(
		`INSERT INTO fix_runs (id, task, scope, agent) VALUES (?, ?, ?, ?)`,
		id, task, strings.Join(scope, ","), agent,
	)
	if err != nil {
		return fmt.Errorf("create fix run: %w", err)
	}
	return nil
}

// FinishFixRun records the final verdict and loop counters for a run.
func (d *DB) FinishFixRun(id string, verdict string, iterations int, extraGranted int) error {
	res, err := d.conn.Exec(
		`UPDATE fix_runs SET verdict = ?, iterations = ?, extra_granted = ?, finished_at = datetime('now') WHERE id = ?`,
		verdict, iterations, extraGranted, id,
	)
	if err != nil {
		return fmt.Errorf("finish fix run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("fix run %q not found", id)
	}
	return nil
}

// LogCheckRun inserts a check run record tied to a fix run.
func (d *DB) LogCheckRun(runID string, phase string, iteration int, checkName string, passed bool, exitCode int, durationMs int, summary string, findings string) error {
	_, err := d.conn.Exec(
		`INSERT INTO check_runs (run_id, phase, iteration, check_name, passed, exit_code, duration_ms, summary, findings)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, phase, iteration, checkName, passed, exitCode, durationMs, summary, findings,
	)
	if err != nil {
		return fmt.Errorf("log check run: %w", err)
	}
	return nil
}

// PriorFailures returns the names of checks that were failing at the end
// of the most recent finished fix run. Empty when there is no history or
// the last run ended clean.
func (d *DB) PriorFailures() ([]string, error) {
	var runID string
	err := d.conn.QueryRow(
		`SELECT id FROM fix_runs WHERE finished_at IS NOT NULL ORDER BY started_at DESC, rowid DESC LIMIT 1`,
	).Scan(&runID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find latest fix run: %w", err)
	}

	// Latest result per check within that run; failures only.
	rows, err := d.conn.Query(`
		SELECT cr.check_name
		FROM check_runs cr
		INNER JOIN (
			SELECT check_name, MAX(id) as max_id
			FROM check_runs
			WHERE run_id = ?
			GROUP BY check_name
		) latest ON cr.id = latest.max_id
		WHERE cr.passed = 0
		ORDER BY cr.check_name`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("get prior failures: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan prior failure: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// ListFixRuns returns all fix runs, most recent first.
func (d *DB) ListFixRuns() ([]FixRun, error) {
	rows, err := d.conn.Query(
		`SELECT id, task, scope, agent, verdict, iterations, extra_granted, started_at, finished_at
		 FROM fix_runs ORDER BY started_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("list fix runs: %w", err)
	}
	defer rows.Close()

	var runs []FixRun
	for rows.Next() {
		r, err := scanFixRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}
	return runs, rows.Err()
}

// GetFixRun returns a single fix run by ID, or nil if not found.
func (d *DB) GetFixRun(id string) (*FixRun, error) {
	rows, err := d.conn.Query(
		`SELECT id, task, scope, agent, verdict, iterations, extra_granted, started_at, finished_at
		 FROM fix_runs WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("get fix run: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	return scanFixRun(rows)
}

// GetCheckHistory returns all check runs for a fix run, oldest first.
func (d *DB) GetCheckHistory(runID string) ([]CheckRun, error) {
	rows, err := d.conn.Query(
		`SELECT id, run_id, phase, iteration, check_name, passed, exit_code, duration_ms, summary, findings, timestamp
		 FROM check_runs WHERE run_id = ? ORDER BY id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("get check history: %w", err)
	}
	defer rows.Close()

	var runs []CheckRun
	for rows.Next() {
		var r CheckRun
		var exitCode, durationMs sql.NullInt64
		var summary, findings sql.NullString
		if err := rows.Scan(&r.ID, &r.RunID, &r.Phase, &r.Iteration, &r.CheckName, &r.Passed, &exitCode, &durationMs, &summary, &findings, &r.Timestamp); err != nil {
			return nil, fmt.Errorf("scan check run: %w", err)
		}
		if exitCode.Valid {
			r.ExitCode = int(exitCode.Int64)
		}
		if durationMs.Valid {
			r.DurationMs = int(durationMs.Int64)
		}
		if summary.Valid {
			r.Summary = summary.String
		}
		if findings.Valid {
			r.Findings = findings.String
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// scanFixRun scans a fix_runs row from either a Row or Rows cursor.
func scanFixRun(rows *sql.Rows) (*FixRun, error) {
	var r FixRun
	var task, agent, verdict, scope, finishedAt sql.NullString
	if err := rows.Scan(&r.ID, &task, &scope, &agent, &verdict, &r.Iterations, &r.ExtraGranted, &r.StartedAt, &finishedAt); err != nil {
		return nil, fmt.Errorf("scan fix run: %w", err)
	}
	if task.Valid {
		r.Task = task.String
	}
	if agent.Valid {
		r.Agent = agent.String
	}
	if verdict.Valid {
		r.Verdict = verdict.String
	}
	if finishedAt.Valid {
		r.FinishedAt = finishedAt.String
	}
	if scope.Valid && scope.String != "" {
		r.Scope = strings.Split(scope.String, ",")
	}
	return &r, nil
}
