package checks

import (
	"strings"
	"testing"
)

func TestGenericParser_Pass(t *testing.T) {
	p := &GenericParser{}
	result := p.Parse("build ok", "", 0)
	if !result.Passed {
		t.Error("expected passed=true")
	}
	if result.Summary != "passed (exit code 0)" {
		t.Errorf("unexpected summary: %q", result.Summary)
	}
	if result.Findings != "" {
		t.Errorf("expected empty findings on pass, got %v", result.Findings)
	}
}

func TestGenericParser_FailIncludesOutput(t *testing.T) {
	p := &GenericParser{}
	result := p.Parse("error: missing semicolon", "warning: deprecated", 2)
	if result.Passed {
		t.Error("expected passed=false")
	}
	findings, ok := result.Findings.(string)
	if !ok {
		t.Fatalf("expected string findings, got %T", result.Findings)
	}
	if !strings.Contains(findings, "missing semicolon") {
		t.Errorf("findings missing stdout content: %q", findings)
	}
	if !strings.Contains(findings, "deprecated") {
		t.Errorf("findings missing stderr content: %q", findings)
	}
}

func TestGenericParser_TruncatesLongOutputKeepingTail(t *testing.T) {
	p := &GenericParser{}
	long := strings.Repeat("x", 20000) + "FINAL ERROR"
	result := p.Parse(long, "", 1)
	findings := result.Findings.(string)
	if len(findings) > maxOutputLen+100 {
		t.Errorf("findings not truncated: %d bytes", len(findings))
	}
	if !strings.Contains(findings, "FINAL ERROR") {
		t.Error("truncation dropped the tail of the output")
	}
}

func TestESLintParser_ErrorsAndWarnings(t *testing.T) {
	stdout := `[
		{"filePath": "src/app.ts", "messages": [
			{"ruleId": "no-unused-vars", "severity": 2, "message": "x is unused", "line": 3, "column": 7},
			{"ruleId": "prefer-const", "severity": 1, "message": "use const", "line": 9, "column": 1,
			 "fix": {"range": [10, 20], "text": "const"}}
		]}
	]`
	p := &ESLintParser{}
	result := p.Parse(stdout, "", 1)

	if result.Passed {
		t.Error("expected passed=false with errors present")
	}
	res := result.Findings.(eslintResult)
	if res.Errors != 1 {
		t.Errorf("expected 1 error, got %d", res.Errors)
	}
	if res.Warnings != 1 {
		t.Errorf("expected 1 warning, got %d", res.Warnings)
	}
	if res.Fixable != 1 {
		t.Errorf("expected 1 fixable, got %d", res.Fixable)
	}
	if len(res.Findings) != 2 {
		t.Fatalf("expected 2 findings, got %d", len(res.Findings))
	}
	if res.Findings[0].Rule != "no-unused-vars" {
		t.Errorf("unexpected first rule: %q", res.Findings[0].Rule)
	}
}

func TestESLintParser_WarningsOnlyPasses(t *testing.T) {
	stdout := `[{"filePath": "a.ts", "messages": [
		{"ruleId": "prefer-const", "severity": 1, "message": "use const", "line": 1, "column": 1}
	]}]`
	p := &ESLintParser{}
	result := p.Parse(stdout, "", 0)
	if !result.Passed {
		t.Error("expected passed=true with warnings only")
	}
}

func TestESLintParser_MalformedJSON(t *testing.T) {
	p := &ESLintParser{}
	result := p.Parse("not json at all", "", 1)
	if result.Passed {
		t.Error("expected passed=false on malformed output with non-zero exit")
	}
	if !strings.Contains(result.Summary, "could not parse") {
		t.Errorf("unexpected summary: %q", result.Summary)
	}
}

func TestTypeScriptParser_ParsesDiagnostics(t *testing.T) {
	stdout := `src/auth.ts(42,5): error TS2345: Argument of type 'string' is not assignable.
src/db.ts(7,1): error TS2304: Cannot find name 'foo'.
some unrelated line`
	p := &TypeScriptParser{}
	result := p.Parse(stdout, "", 2)

	if result.Passed {
		t.Error("expected passed=false")
	}
	res := result.Findings.(tsResult)
	if res.Errors != 2 {
		t.Fatalf("expected 2 errors, got %d", res.Errors)
	}
	f := res.Findings[0]
	if f.File != "src/auth.ts" || f.Line != 42 || f.Column != 5 || f.Code != "TS2345" {
		t.Errorf("unexpected finding: %+v", f)
	}
}

func TestTypeScriptParser_CleanOutput(t *testing.T) {
	p := &TypeScriptParser{}
	result := p.Parse("", "", 0)
	if !result.Passed {
		t.Error("expected passed=true")
	}
	if result.Summary != "no errors" {
		t.Errorf("unexpected summary: %q", result.Summary)
	}
}

func TestVitestParser_Failures(t *testing.T) {
	stdout := `{
		"numTotalTests": 5, "numPassedTests": 3, "numFailedTests": 2, "numPendingTests": 0,
		"testResults": [
			{"name": "auth.test.ts", "status": "failed", "assertionResults": [
				{"fullName": "login rejects bad password", "status": "failed",
				 "failureMessages": ["expected 401, got 200"]},
				{"fullName": "login accepts good password", "status": "passed"}
			]}
		]
	}`
	p := &VitestParser{}
	result := p.Parse(stdout, "", 1)

	if result.Passed {
		t.Error("expected passed=false")
	}
	res := result.Findings.(vitestResult)
	if res.Failed != 2 {
		t.Errorf("expected 2 failed, got %d", res.Failed)
	}
	if len(res.Failures) != 1 {
		t.Fatalf("expected 1 failure detail, got %d", len(res.Failures))
	}
	if res.Failures[0].Error != "expected 401, got 200" {
		t.Errorf("unexpected failure message: %q", res.Failures[0].Error)
	}
}

func TestVitestParser_AllPass(t *testing.T) {
	stdout := `{"numTotalTests": 3, "numPassedTests": 3, "numFailedTests": 0, "numPendingTests": 0, "testResults": []}`
	p := &VitestParser{}
	result := p.Parse(stdout, "", 0)
	if !result.Passed {
		t.Error("expected passed=true")
	}
}
