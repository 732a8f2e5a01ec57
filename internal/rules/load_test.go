package rules

import (
	"os"
	"path/filepath"
	"testing"
)

func writeRules(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write rules file: %v", err)
	}
	return path
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	t.Parallel()

	tbl, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}
	if got, want := len(tbl.Taxonomy.Categories), len(Defaults().Taxonomy.Categories); got != want {
		t.Errorf("categories = %d, want %d", got, want)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	if _, err := Load("/nonexistent/rules.yaml"); err == nil {
		t.Fatal("Load(missing) = nil error")
	}
}

func TestLoad_OverlayReplacesWholeTable(t *testing.T) {
	t.Parallel()

	path := writeRules(t, `
taxonomy:
  fallback_id: MISC
  base_evidence:
    - "Transaction reference"
  categories:
    - id: PHISHING
      name: Phishing
      risk_score: 60
      keywords: ["phishing", "fake link"]
    - id: MISC
      name: Miscellaneous
      risk_score: 30
routing:
  rules:
    - category_id: PHISHING
      primary_assignee: Cyber Cell
      jurisdiction: State
    - category_id: MISC
      primary_assignee: General Desk
      jurisdiction: Local
  thresholds:
    - amount: 100000
      effect: "Bank nodal officer notification"
`)

	tbl, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(tbl.Taxonomy.Categories) != 2 {
		t.Fatalf("categories = %d, want 2 (whole-table replacement)", len(tbl.Taxonomy.Categories))
	}
	if tbl.Taxonomy.FallbackID != "MISC" {
		t.Errorf("fallback = %q, want MISC", tbl.Taxonomy.FallbackID)
	}
	// severity table untouched by the overlay
	if tbl.Severity.GoldenHourHours != Defaults().Severity.GoldenHourHours {
		t.Errorf("severity table changed by taxonomy-only overlay")
	}
}

func TestLoad_InvalidOverlayRejected(t *testing.T) {
	t.Parallel()

	path := writeRules(t, `
severity:
  weights:
    amount: 0.9
    time: 0.9
    type_risk: 0.1
    victim: 0.1
`)

	if _, err := Load(path); err == nil {
		t.Fatal("Load(bad weights) = nil error, want ConfigurationError")
	}
}
