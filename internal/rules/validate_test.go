package rules

import (
	"errors"
	"testing"
)

func TestDefaults_Valid(t *testing.T) {
	t.Parallel()

	if err := Defaults().Validate(); err != nil {
		t.Fatalf("Defaults().Validate() = %v, want nil", err)
	}
}

func TestValidate_WeightsMustSumToOne(t *testing.T) {
	t.Parallel()

	tbl := Defaults()
	tbl.Severity.Weights.Amount = 0.5

	err := tbl.Validate()
	if err == nil {
		t.Fatal("Validate() = nil, want weights error")
	}
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("error %v is not a *ConfigurationError", err)
	}
	if cfgErr.Table != "severity" {
		t.Errorf("Table = %q, want %q", cfgErr.Table, "severity")
	}
}

func TestValidate_BandsMustCoverZero(t *testing.T) {
	t.Parallel()

	tbl := Defaults()
	tbl.Severity.Bands[len(tbl.Severity.Bands)-1].MinScore = 10

	if err := tbl.Validate(); err == nil {
		t.Fatal("Validate() = nil, want lowest-band error")
	}
}

func TestValidate_BandsMustDescend(t *testing.T) {
	t.Parallel()

	tbl := Defaults()
	tbl.Severity.Bands[1].MinScore = 95 // above CRITICAL's 80

	if err := tbl.Validate(); err == nil {
		t.Fatal("Validate() = nil, want descending-bands error")
	}
}

func TestValidate_FallbackMustExist(t *testing.T) {
	t.Parallel()

	tbl := Defaults()
	tbl.Taxonomy.FallbackID = "NO_SUCH"

	if err := tbl.Validate(); err == nil {
		t.Fatal("Validate() = nil, want missing-fallback error")
	}
}

func TestValidate_FallbackKeywordsRejected(t *testing.T) {
	t.Parallel()

	tbl := Defaults()
	fb := tbl.Taxonomy.Fallback()
	fb.Keywords = []string{"something"}

	if err := tbl.Validate(); err == nil {
		t.Fatal("Validate() = nil, want fallback-keywords error")
	}
}

func TestValidate_RoutingUnknownCategory(t *testing.T) {
	t.Parallel()

	tbl := Defaults()
	tbl.Routing.Rules = append(tbl.Routing.Rules, RoutingRule{
		CategoryID:      "GHOST",
		PrimaryAssignee: "Nobody",
		Jurisdiction:    "Nowhere",
	})

	if err := tbl.Validate(); err == nil {
		t.Fatal("Validate() = nil, want unknown-category error")
	}
}

func TestValidate_ThresholdsMustAscend(t *testing.T) {
	t.Parallel()

	tbl := Defaults()
	tbl.Routing.Thresholds[2].Amount = 50_000

	if err := tbl.Validate(); err == nil {
		t.Fatal("Validate() = nil, want ascending-thresholds error")
	}
}

func TestValidate_DuplicatePolicyID(t *testing.T) {
	t.Parallel()

	tbl := Defaults()
	tbl.Policies.Policies = append(tbl.Policies.Policies, tbl.Policies.Policies[0])

	if err := tbl.Validate(); err == nil {
		t.Fatal("Validate() = nil, want duplicate-policy error")
	}
}

func TestValidate_TimeFloorRequired(t *testing.T) {
	t.Parallel()

	tbl := Defaults()
	tbl.Severity.TimeFloor = 0

	if err := tbl.Validate(); err == nil {
		t.Fatal("Validate() = nil, want time-floor error")
	}
}

func TestTaxonomy_Lookup(t *testing.T) {
	t.Parallel()

	tax := Defaults().Taxonomy
	if c, ok := tax.Lookup("UPI_FRAUD"); !ok || c.Name != "UPI Payment Fraud" {
		t.Errorf("Lookup(UPI_FRAUD) = %+v, %v", c, ok)
	}
	if _, ok := tax.Lookup("NO_SUCH"); ok {
		t.Error("Lookup(NO_SUCH) reported ok")
	}
	if fb := tax.Fallback(); fb == nil || fb.ID != "OTHER" {
		t.Errorf("Fallback() = %+v, want OTHER", fb)
	}
}
