package engine

import (
	"regexp"
	"strings"

	"github.com/VINAY-SANDA/CareTriage/internal/domain/triage"
)

// clarificationQuestions are asked when a description yields no catalog match.
var clarificationQuestions = []string{
	"Could you describe your symptoms in more detail?",
	"How long have you been experiencing these symptoms?",
	"On a scale of 1-10, how would you rate the severity?",
}

// durationPattern picks a stated duration out of free text, e.g. "for 2 days".
var durationPattern = regexp.MustCompile(`(?:for|since|past|last)\s+(?:the\s+)?(\d+\s*(?:hour|day|week|month)s?)`)

// Extract finds catalog symptoms mentioned in free text. Severity and
// duration are judged once from the whole description and applied to every
// match. Only genuine matches are returned; Disambiguate is the total
// variant the analysis pipeline uses.
func (e *Engine) Extract(description string) []triage.StructuredSymptom {
	lowered := strings.ToLower(description)
	severity := classifySeverity(lowered)
	duration := extractDuration(lowered)

	var symptoms []triage.StructuredSymptom
	seen := make(map[string]bool)

	add := func(key, originalText string) {
		if seen[key] {
			return
		}
		seen[key] = true
		symptoms = append(symptoms, triage.StructuredSymptom{
			OriginalText: originalText,
			ClinicalTerm: symptomPhrase(key),
			ICD10Code:    symptomIndex[key].ICD10,
			BodySystem:   bodySystemFor(key),
			Severity:     severity,
			Duration:     duration,
		})
	}

	for _, entry := range symptomCatalog {
		phrase := symptomPhrase(entry.Key)
		if strings.Contains(lowered, phrase) {
			add(entry.Key, phrase)
		}
	}

	for _, group := range synonymGroups {
		for _, phrase := range group.Phrases {
			if strings.Contains(lowered, phrase) {
				add(group.Key, phrase)
				break
			}
		}
	}

	return symptoms
}

// Disambiguate is the total extraction used by the analysis pipeline: when
// nothing matches it falls back to a generic systemic complaint and asks for
// clarification instead of returning empty-handed.
func (e *Engine) Disambiguate(description string) triage.DisambiguationResult {
	symptoms := e.Extract(description)
	if len(symptoms) == 0 {
		return triage.DisambiguationResult{
			Symptoms: []triage.StructuredSymptom{{
				OriginalText: description,
				ClinicalTerm: "general discomfort",
				BodySystem:   "systemic",
				Severity:     triage.SeverityModerate,
			}},
			ClarificationNeeded:    true,
			ClarificationQuestions: clarificationQuestions,
			Confidence:             0.5,
		}
	}

	e.log.Debug().Int("symptom_count", len(symptoms)).Msg("symptoms extracted")
	return triage.DisambiguationResult{
		Symptoms:   symptoms,
		Confidence: 0.8,
	}
}

func extractDuration(lowered string) string {
	match := durationPattern.FindStringSubmatch(lowered)
	if match == nil {
		return ""
	}
	return strings.Join(strings.Fields(match[1]), " ")
}
