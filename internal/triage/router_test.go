package triage

import (
	"reflect"
	"testing"
)

func TestRoute_CategoryAssignment(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)

	tests := []struct {
		name             string
		categoryID       string
		wantPrimary      string
		wantJurisdiction string
	}{
		{"digital arrest", "DIGITAL_ARREST", "Cyber Crime Cell", "State Cyber Cell"},
		{"upi fraud", "UPI_FRAUD", "Bank Nodal Officer", "District Cyber Cell"},
		{"investment fraud", "INVESTMENT_FRAUD", "Economic Offences Wing", "State EOW"},
		{"fallback category", "OTHER", "Cyber Crime Cell", "District Cyber Cell"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := e.Route(tt.categoryID, "HIGH", 0)
			if got.PrimaryAssignee != tt.wantPrimary {
				t.Errorf("PrimaryAssignee = %q, want %q", got.PrimaryAssignee, tt.wantPrimary)
			}
			if got.Jurisdiction != tt.wantJurisdiction {
				t.Errorf("Jurisdiction = %q, want %q", got.Jurisdiction, tt.wantJurisdiction)
			}
		})
	}
}

func TestRoute_UnknownCategoryUsesFallbackRule(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)

	got := e.Route("NO_SUCH_CATEGORY", "LOW", 0)
	want := e.Route("OTHER", "LOW", 0)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("unknown category routing = %+v, want fallback routing %+v", got, want)
	}
	if got.CategoryID != "OTHER" {
		t.Errorf("CategoryID = %q, want OTHER", got.CategoryID)
	}
}

func TestRoute_AmountThresholdsAdditive(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)

	tests := []struct {
		name      string
		amount    float64
		wantNotes int
	}{
		{"below all thresholds", 50_000, 0},
		{"at first threshold", 100_000, 1},
		{"between first and second", 300_000, 1},
		{"at second threshold", 500_000, 2},
		{"at third threshold", 1_000_000, 3},
		{"far above all", 10_000_000, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := e.Route("UPI_FRAUD", "HIGH", tt.amount)
			if len(got.AmountNotes) != tt.wantNotes {
				t.Errorf("amount %.0f: %d amount notes, want %d: %v", tt.amount, len(got.AmountNotes), tt.wantNotes, got.AmountNotes)
			}
		})
	}
}

func TestRoute_ThresholdsNeverChangeAssignment(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)

	small := e.Route("UPI_FRAUD", "LOW", 100)
	huge := e.Route("UPI_FRAUD", "CRITICAL", 50_000_000)
	if small.PrimaryAssignee != huge.PrimaryAssignee {
		t.Errorf("assignment changed with amount: %q vs %q", small.PrimaryAssignee, huge.PrimaryAssignee)
	}
	if small.Jurisdiction != huge.Jurisdiction {
		t.Errorf("jurisdiction changed with amount: %q vs %q", small.Jurisdiction, huge.Jurisdiction)
	}
	if !reflect.DeepEqual(small.EscalationPath, huge.EscalationPath) {
		t.Errorf("escalation path changed with amount: %v vs %v", small.EscalationPath, huge.EscalationPath)
	}
}

func TestRoute_Deterministic(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)

	first := e.Route("DIGITAL_ARREST", "CRITICAL", 750_000)
	for i := 0; i < 10; i++ {
		if got := e.Route("DIGITAL_ARREST", "CRITICAL", 750_000); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d: Route diverged: %+v vs %+v", i, got, first)
		}
	}
}
