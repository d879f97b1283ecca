package activity

import (
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	d, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	if err := d.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return d
}

func TestMigrate_Idempotent(t *testing.T) {
	d := openTestDB(t)
	if err := d.Migrate(); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
}

func TestFixRunLifecycle(t *testing.T) {
	d := openTestDB(t)

	if err := d.CreateFixRun("run-1", "fix the build", []string{"build"}, "claude"); err != nil {
		t.Fatalf("create fix run: %v", err)
	}

	run, err := d.GetFixRun("run-1")
	if err != nil {
		t.Fatalf("get fix run: %v", err)
	}
	if run == nil {
		t.Fatal("expected fix run, got nil")
	}
	if run.Task != "fix the build" {
		t.Errorf("unexpected task: %q", run.Task)
	}
	if run.Verdict != "" {
		t.Errorf("expected empty verdict before finish, got %q", run.Verdict)
	}
	if run.FinishedAt != "" {
		t.Errorf("expected no finished_at before finish, got %q", run.FinishedAt)
	}

	if err := d.FinishFixRun("run-1", "success", 2, 0); err != nil {
		t.Fatalf("finish fix run: %v", err)
	}

	run, err = d.GetFixRun("run-1")
	if err != nil {
		t.Fatalf("get fix run: %v", err)
	}
	if run.Verdict != "success" {
		t.Errorf("expected verdict success, got %q", run.Verdict)
	}
	if run.Iterations != 2 {
		t.Errorf("expected 2 iterations, got %d", run.Iterations)
	}
	if run.FinishedAt == "" {
		t.Error("expected finished_at to be set")
	}
}

func TestFinishFixRun_NotFound(t *testing.T) {
	d := openTestDB(t)
	if err := d.FinishFixRun("ghost", "failed", 1, 0); err == nil {
		t.Fatal("expected error finishing unknown run")
	}
}

func TestGetFixRun_NotFound(t *testing.T) {
	d := openTestDB(t)
	run, err := d.GetFixRun("nope")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if run != nil {
		t.Errorf("expected nil for unknown run, got %+v", run)
	}
}

func TestCheckRunsAndHistory(t *testing.T) {
	d := openTestDB(t)

	if err := d.CreateFixRun("run-1", "", []string{"build", "lint"}, "claude"); err != nil {
		t.Fatal(err)
	}
	if err := d.LogCheckRun("run-1", "baseline", 0, "build", false, 1, 1200, "1 error", "{}"); err != nil {
		t.Fatal(err)
	}
	if err := d.LogCheckRun("run-1", "verify", 0, "build", true, 0, 900, "passed", "{}"); err != nil {
		t.Fatal(err)
	}

	history, err := d.GetCheckHistory("run-1")
	if err != nil {
		t.Fatalf("get check history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 check runs, got %d", len(history))
	}
	if history[0].Phase != "baseline" || history[1].Phase != "verify" {
		t.Errorf("history out of order: %q then %q", history[0].Phase, history[1].Phase)
	}
	if history[0].Passed {
		t.Error("expected baseline build to be recorded as failed")
	}
}

func TestPriorFailures(t *testing.T) {
	d := openTestDB(t)

	// No history yet.
	failures, err := d.PriorFailures()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if failures != nil {
		t.Errorf("expected nil with no history, got %v", failures)
	}

	if err := d.CreateFixRun("run-1", "", []string{"build", "lint", "test"}, "claude"); err != nil {
		t.Fatal(err)
	}
	// Build failed at baseline but recovered; lint and test stayed broken.
	_ = d.LogCheckRun("run-1", "baseline", 0, "build", false, 1, 100, "", "")
	_ = d.LogCheckRun("run-1", "baseline", 0, "lint", false, 1, 100, "", "")
	_ = d.LogCheckRun("run-1", "baseline", 0, "test", false, 1, 100, "", "")
	_ = d.LogCheckRun("run-1", "verify", 0, "build", true, 0, 100, "", "")
	_ = d.LogCheckRun("run-1", "verify", 0, "lint", false, 1, 100, "", "")
	_ = d.LogCheckRun("run-1", "verify", 0, "test", false, 1, 100, "", "")
	if err := d.FinishFixRun("run-1", "failed", 3, 0); err != nil {
		t.Fatal(err)
	}

	failures, err = d.PriorFailures()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(failures) != 2 {
		t.Fatalf("expected 2 prior failures, got %v", failures)
	}
	got := map[string]bool{}
	for _, f := range failures {
		got[f] = true
	}
	if !got["lint"] || !got["test"] {
		t.Errorf("expected lint and test, got %v", failures)
	}
	if got["build"] {
		t.Error("recovered build must not appear in prior failures")
	}
}

func TestPriorFailures_CleanRun(t *testing.T) {
	d := openTestDB(t)
	if err := d.CreateFixRun("run-1", "", []string{"build"}, "claude"); err != nil {
		t.Fatal(err)
	}
	_ = d.LogCheckRun("run-1", "verify", 0, "build", true, 0, 100, "", "")
	if err := d.FinishFixRun("run-1", "success", 1, 0); err != nil {
		t.Fatal(err)
	}

	failures, err := d.PriorFailures()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(failures) != 0 {
		t.Errorf("expected no failures after clean run, got %v", failures)
	}
}

func TestListFixRuns(t *testing.T) {
	d := openTestDB(t)
	_ = d.CreateFixRun("run-1", "first", []string{"build"}, "claude")
	_ = d.CreateFixRun("run-2", "second", []string{"lint"}, "codex")

	fixRuns, err := d.ListFixRuns()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fixRuns) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(fixRuns))
	}
}

func TestReset(t *testing.T) {
	d := openTestDB(t)
	_ = d.CreateFixRun("run-1", "", []string{"build"}, "claude")

	if err := d.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}
	fixRuns, err := d.ListFixRuns()
	if err != nil {
		t.Fatalf("list after reset: %v", err)
	}
	if len(fixRuns) != 0 {
		t.Errorf("expected empty table after reset, got %d runs", len(fixRuns))
	}
}
