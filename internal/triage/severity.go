package triage

import (
	"math"
	"strings"

	"github.com/linnemanlabs/casetriage/internal/rules"
)

// Severity is the outcome of scoring a complaint's urgency.
type Severity struct {
	UrgencyScore        int        `json:"urgency_score"`
	SeverityBand        string     `json:"severity_band"`
	SeverityDescription string     `json:"severity_description,omitempty"`
	SLAHours            int        `json:"sla_hours"`
	GoldenHour          bool       `json:"golden_hour"`
	VictimFlagPresent   bool       `json:"victim_flag_present"`
	VictimFlags         []string   `json:"victim_flags,omitempty"`
	Trace               ScoreTrace `json:"trace"`
}

// ScoreSeverity computes the weighted urgency score and maps it to a
// severity band. Negative inputs are clamped to zero, never rejected -
// scoring must not block a downstream step.
func (e *Engine) ScoreSeverity(amount, hoursSince float64, typeRisk int, victimContext string) Severity {
	sev := &e.tables.Severity

	if amount < 0 {
		amount = 0
	}
	if hoursSince < 0 {
		hoursSince = 0
	}

	amountScore := amountSubScore(amount, sev.AmountSaturation)
	timeScore := e.timeSubScore(hoursSince)
	typeScore := math.Min(math.Max(float64(typeRisk), 0), 100)

	flagged, flags := e.victimFlags(victimContext)
	victimScore := sev.VictimBaseline
	if flagged {
		victimScore = 100
	}

	raw := sev.Weights.Amount*amountScore +
		sev.Weights.Time*timeScore +
		sev.Weights.TypeRisk*typeScore +
		sev.Weights.Victim*victimScore

	score := int(math.Round(math.Min(math.Max(raw, 0), 100)))

	band := e.bandFor(score)

	return Severity{
		UrgencyScore:        score,
		SeverityBand:        band.Name,
		SeverityDescription: band.Description,
		SLAHours:            band.SLAHours,
		GoldenHour:          hoursSince <= sev.GoldenHourHours,
		VictimFlagPresent:   flagged,
		VictimFlags:         flags,
		Trace: ScoreTrace{
			AmountScore: amountScore,
			TimeScore:   timeScore,
			TypeScore:   typeScore,
			VictimScore: victimScore,
			Raw:         raw,
		},
	}
}

func amountSubScore(amount, saturation float64) float64 {
	if amount <= 0 {
		return 0
	}
	return math.Min(amount/saturation, 1) * 100
}

// timeSubScore is monotonically non-increasing in hoursSince: a linear drop
// of GoldenDecay points across the golden-hour window, then exponential
// decay from TailStart toward TimeFloor.
func (e *Engine) timeSubScore(hoursSince float64) float64 {
	sev := &e.tables.Severity

	if hoursSince <= 0 {
		return 100
	}
	if hoursSince <= sev.GoldenHourHours {
		return 100 - (hoursSince/sev.GoldenHourHours)*sev.GoldenDecay
	}
	over := hoursSince - sev.GoldenHourHours
	decayed := sev.TailStart * math.Pow(sev.TailFactor, over/sev.TailPeriodHours)
	return math.Max(decayed, sev.TimeFloor)
}

func (e *Engine) victimFlags(victimContext string) (bool, []string) {
	if victimContext == "" {
		return false, nil
	}
	lower := strings.ToLower(victimContext)
	var matched []string
	for _, flag := range e.tables.Severity.VictimFlags {
		if strings.Contains(lower, flag) {
			matched = append(matched, flag)
		}
	}
	return len(matched) > 0, matched
}

// bandFor returns the first band (descending order) whose lower bound is at
// or below the score. Validation guarantees the lowest band covers 0.
func (e *Engine) bandFor(score int) *rules.Band {
	bands := e.tables.Severity.Bands
	for i := range bands {
		if score >= bands[i].MinScore {
			return &bands[i]
		}
	}
	return &bands[len(bands)-1]
}
