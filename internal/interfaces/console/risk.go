package console

import (
	"math"
	"strings"

	"github.com/VINAY-SANDA/CareTriage/internal/domain/triage"
)

// RiskBadge is the visual classification of a risk assessment: a severity
// icon, a human title, a named severity color and the score as a 0-100 bar.
type RiskBadge struct {
	Icon    string
	Title   string
	Color   string
	Percent int
}

var riskBadges = map[triage.RiskLevel]RiskBadge{
	triage.RiskLevelLow:      {Icon: "✅", Title: "Low Risk", Color: "green"},
	triage.RiskLevelMedium:   {Icon: "⚠️", Title: "Medium Risk", Color: "yellow"},
	triage.RiskLevelHigh:     {Icon: "⚠️", Title: "High Risk Detected", Color: "orange"},
	triage.RiskLevelCritical: {Icon: "🚨", Title: "Critical Risk", Color: "red"},
}

// PresentRisk maps an assessment onto its badge. Unrecognized levels fall
// back to the low-risk badge rather than failing the render.
func PresentRisk(risk triage.RiskAssessment) RiskBadge {
	badge, ok := riskBadges[risk.RiskLevel]
	if !ok {
		badge = riskBadges[triage.RiskLevelLow]
	}
	badge.Percent = scorePercent(risk.RiskScore)
	return badge
}

// scorePercent maps a [0,1] score linearly onto 0-100, clamping out-of-range
// values instead of propagating them into the bar width.
func scorePercent(score float64) int {
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return int(math.Round(score * 100))
}

// ScoreBar renders the badge's percentage as a fixed-width text gauge.
func (b RiskBadge) ScoreBar(width int) string {
	if width <= 0 {
		return ""
	}
	filled := b.Percent * width / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
