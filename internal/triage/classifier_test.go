package triage

import (
	"reflect"
	"testing"

	"github.com/linnemanlabs/casetriage/internal/rules"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(rules.Defaults())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e
}

func TestClassify(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)

	tests := []struct {
		name         string
		text         string
		wantCategory string
	}{
		{
			name:         "digital arrest keywords",
			text:         "A man claiming to be a CBI officer said there is an arrest warrant against me",
			wantCategory: "DIGITAL_ARREST",
		},
		{
			name:         "upi fraud keywords",
			text:         "I scanned a QR code on PhonePe and money was debited via UPI",
			wantCategory: "UPI_FRAUD",
		},
		{
			name:         "otp scam keywords",
			text:         "Caller asked for the OTP saying my card blocked due to KYC update",
			wantCategory: "OTP_SCAM",
		},
		{
			name:         "remote app keywords",
			text:         "They made me install AnyDesk for screen share to fix my account",
			wantCategory: "REMOTE_APP",
		},
		{
			name:         "no keywords falls back",
			text:         "Someone hacked my social media profile and posted spam",
			wantCategory: "OTHER",
		},
		{
			name:         "case insensitive matching",
			text:         "DIGITAL ARREST threat over video call from police",
			wantCategory: "DIGITAL_ARREST",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := e.Classify(tt.text)
			if got.CategoryID != tt.wantCategory {
				t.Errorf("Classify(%q).CategoryID = %q, want %q", tt.text, got.CategoryID, tt.wantCategory)
			}
		})
	}
}

func TestClassify_OccurrenceCountingBeatsDistinctKeywords(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)

	// Two distinct OTP keywords vs a single UPI keyword repeated three
	// times: strength is total occurrences, so UPI wins 3 to 2.
	text := "otp and verification code were asked, but upi upi upi transfers went out"
	got := e.Classify(text)
	if got.CategoryID != "UPI_FRAUD" {
		t.Errorf("CategoryID = %q, want UPI_FRAUD (3 occurrences beat 2 distinct keywords)", got.CategoryID)
	}
}

func TestClassify_TieGoesToEarlierCategory(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)

	// One DIGITAL_ARREST occurrence vs one UPI_FRAUD occurrence.
	// DIGITAL_ARREST is declared first, so the tie resolves to it.
	got := e.Classify("received a court order claiming upi misuse")
	if got.CategoryID != "DIGITAL_ARREST" {
		t.Errorf("CategoryID = %q, want DIGITAL_ARREST on tie", got.CategoryID)
	}
}

func TestClassify_FallbackHasEmptyKeywordList(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)

	got := e.Classify("nothing matches this complaint text at all")
	if got.CategoryID != "OTHER" {
		t.Fatalf("CategoryID = %q, want OTHER", got.CategoryID)
	}
	if got.MatchedKeywords == nil || len(got.MatchedKeywords) != 0 {
		t.Errorf("MatchedKeywords = %#v, want empty non-nil list", got.MatchedKeywords)
	}
	if got.RiskScore != 40 {
		t.Errorf("RiskScore = %d, want 40", got.RiskScore)
	}
}

func TestClassify_MatchedKeywordsReported(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)

	got := e.Classify("digital arrest scam, they showed an arrest warrant")
	want := []string{"digital arrest", "arrest warrant"}
	if !reflect.DeepEqual(got.MatchedKeywords, want) {
		t.Errorf("MatchedKeywords = %v, want %v", got.MatchedKeywords, want)
	}
}

func TestClassify_Deterministic(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)

	text := "anydesk remote access and an otp request"
	first := e.Classify(text)
	for i := 0; i < 10; i++ {
		if got := e.Classify(text); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d: Classify diverged: %#v vs %#v", i, got, first)
		}
	}
}
