package engine

import (
	"strings"

	"github.com/VINAY-SANDA/CareTriage/internal/domain/triage"
)

// symptomEntry is one catalog row: a canonical symptom key with its ICD-10
// mapping and owning body system.
type symptomEntry struct {
	Key         string
	ICD10       string
	Description string
	System      string
}

// symptomCatalog lists every symptom the service recognizes. Scan order is
// part of the contract: extraction walks the catalog top to bottom, so the
// earlier entry becomes the primary complaint when several match.
var symptomCatalog = []symptomEntry{
	// Head and neurological
	{"headache", "R51", "Headache", "neurological"},
	{"migraine", "G43.9", "Migraine, unspecified", "neurological"},
	{"dizziness", "R42", "Dizziness and giddiness", "neurological"},
	{"vertigo", "R42", "Dizziness and giddiness", "neurological"},
	{"confusion", "R41.0", "Disorientation, unspecified", "neurological"},
	{"memory_loss", "R41.3", "Other amnesia", "neurological"},
	{"seizure", "R56.9", "Unspecified convulsions", "neurological"},
	{"fainting", "R55", "Syncope and collapse", "neurological"},

	// Respiratory
	{"cough", "R05", "Cough", "respiratory"},
	{"shortness_of_breath", "R06.0", "Dyspnea", "respiratory"},
	{"difficulty_breathing", "R06.0", "Dyspnea", "respiratory"},
	{"wheezing", "R06.2", "Wheezing", "respiratory"},
	{"chest_congestion", "R09.89", "Other specified symptoms involving respiratory system", "respiratory"},
	{"sore_throat", "J02.9", "Acute pharyngitis, unspecified", "respiratory"},
	{"runny_nose", "J00", "Acute nasopharyngitis", "respiratory"},

	// Cardiovascular
	{"chest_pain", "R07.9", "Chest pain, unspecified", "cardiovascular"},
	{"palpitations", "R00.2", "Palpitations", "cardiovascular"},
	{"rapid_heartbeat", "R00.0", "Tachycardia, unspecified", "cardiovascular"},
	{"slow_heartbeat", "R00.1", "Bradycardia, unspecified", "cardiovascular"},
	{"swelling_legs", "R60.0", "Localized edema", "cardiovascular"},
	{"high_blood_pressure", "R03.0", "Elevated blood pressure", "cardiovascular"},

	// Gastrointestinal
	{"abdominal_pain", "R10.9", "Unspecified abdominal pain", "gastrointestinal"},
	{"stomach_ache", "R10.9", "Unspecified abdominal pain", "gastrointestinal"},
	{"nausea", "R11.0", "Nausea", "gastrointestinal"},
	{"vomiting", "R11.1", "Vomiting", "gastrointestinal"},
	{"diarrhea", "R19.7", "Diarrhea, unspecified", "gastrointestinal"},
	{"constipation", "K59.0", "Constipation", "gastrointestinal"},
	{"bloating", "R14.0", "Abdominal distension", "gastrointestinal"},
	{"heartburn", "R12", "Heartburn", "gastrointestinal"},
	{"loss_of_appetite", "R63.0", "Anorexia", "gastrointestinal"},
	{"blood_in_stool", "K92.1", "Melena", "gastrointestinal"},

	// Musculoskeletal
	{"back_pain", "M54.9", "Dorsalgia, unspecified", "musculoskeletal"},
	{"joint_pain", "M25.50", "Pain in unspecified joint", "musculoskeletal"},
	{"muscle_pain", "M79.1", "Myalgia", "musculoskeletal"},
	{"neck_pain", "M54.2", "Cervicalgia", "musculoskeletal"},
	{"weakness", "R53.1", "Weakness", "musculoskeletal"},
	{"fatigue", "R53.83", "Other fatigue", "musculoskeletal"},

	// Skin
	{"rash", "R21", "Rash and other nonspecific skin eruption", "dermatological"},
	{"itching", "L29.9", "Pruritus, unspecified", "dermatological"},
	{"skin_swelling", "R22.9", "Localized swelling, unspecified", "dermatological"},
	{"bruising", "R23.3", "Spontaneous ecchymoses", "dermatological"},

	// General and systemic
	{"fever", "R50.9", "Fever, unspecified", "systemic"},
	{"chills", "R68.83", "Chills", "systemic"},
	{"night_sweats", "R61", "Generalized hyperhidrosis", "systemic"},
	{"weight_loss", "R63.4", "Abnormal weight loss", "systemic"},
	{"weight_gain", "R63.5", "Abnormal weight gain", "systemic"},
	{"malaise", "R53.81", "Other malaise", "systemic"},

	// Urological
	{"painful_urination", "R30.0", "Dysuria", "urological"},
	{"frequent_urination", "R35.0", "Frequency of micturition", "urological"},
	{"blood_in_urine", "R31.9", "Hematuria, unspecified", "urological"},

	// Eyes
	{"eye_pain", "H57.1", "Ocular pain", "ophthalmological"},
	{"blurred_vision", "H53.8", "Other visual disturbances", "ophthalmological"},
	{"eye_redness", "H57.8", "Other specified disorders of eye", "ophthalmological"},

	// Mental health
	{"anxiety", "F41.9", "Anxiety disorder, unspecified", "psychiatric"},
	{"depression", "F32.9", "Major depressive disorder, single episode", "psychiatric"},
	{"insomnia", "G47.0", "Insomnia", "psychiatric"},
	{"stress", "F43.9", "Reaction to severe stress, unspecified", "psychiatric"},
}

// symptomIndex resolves a canonical key to its catalog entry.
var symptomIndex = make(map[string]symptomEntry, len(symptomCatalog))

func init() {
	for _, entry := range symptomCatalog {
		symptomIndex[entry.Key] = entry
	}
}

// severityLadder orders indicator phrases from mild to critical. The first
// match anywhere in the ladder decides, so a description mixing grades keeps
// the mildest wording's grade.
var severityLadder = []struct {
	Level      triage.Severity
	Indicators []string
}{
	{triage.SeverityMild, []string{"slight", "minor", "little", "somewhat", "occasional", "mild", "light"}},
	{triage.SeverityModerate, []string{"moderate", "noticeable", "persistent", "recurring", "regular"}},
	{triage.SeveritySevere, []string{"severe", "intense", "extreme", "unbearable", "excruciating", "worst", "terrible", "awful"}},
	{triage.SeverityCritical, []string{"sudden onset", "cannot breathe", "crushing", "radiating", "losing consciousness", "unresponsive"}},
}

// redFlagKeys are symptoms that escalate on sight regardless of score.
var redFlagKeys = map[string]bool{
	"chest_pain":           true,
	"difficulty_breathing": true,
	"shortness_of_breath":  true,
	"seizure":              true,
	"fainting":             true,
	"blood_in_stool":       true,
	"blood_in_urine":       true,
	"confusion":            true,
	"severe_headache":      true,
	"high_fever":           true,
	"rapid_heartbeat":      true,
	"unresponsive":         true,
}

// synonymGroups map everyday phrasing onto catalog keys. Groups are scanned
// in order after direct catalog matches so a synonym never displaces a
// literal mention.
var synonymGroups = []struct {
	Key     string
	Phrases []string
}{
	{"headache", []string{"head hurts", "head pain", "head ache", "throbbing head", "splitting headache"}},
	{"stomach_ache", []string{"stomach hurts", "tummy ache", "belly pain", "abdominal discomfort", "stomach cramps"}},
	{"fever", []string{"temperature", "feeling hot", "burning up", "feverish", "high temperature"}},
	{"cough", []string{"coughing", "dry cough", "wet cough", "hacking cough", "persistent cough"}},
	{"shortness_of_breath", []string{"breathless", "can't breathe", "hard to breathe", "gasping", "out of breath", "breathing difficulty"}},
	{"chest_pain", []string{"chest hurts", "chest discomfort", "chest pressure", "chest tightness", "pain in chest"}},
	{"nausea", []string{"feeling sick", "queasy", "want to vomit", "upset stomach", "nauseated"}},
	{"vomiting", []string{"throwing up", "being sick", "puking", "regurgitating"}},
	{"diarrhea", []string{"loose stools", "watery stools", "running stomach", "loose motions"}},
	{"fatigue", []string{"tired", "exhausted", "no energy", "worn out", "drained", "lethargic"}},
	{"dizziness", []string{"dizzy", "light-headed", "unsteady", "room spinning", "woozy"}},
	{"back_pain", []string{"back hurts", "backache", "lower back pain", "upper back pain", "spine pain"}},
	{"sore_throat", []string{"throat pain", "throat hurts", "scratchy throat", "burning throat"}},
}

// SymptomKey canonicalizes a clinical term for catalog lookups.
func SymptomKey(term string) string {
	key := strings.ToLower(strings.TrimSpace(term))
	key = strings.ReplaceAll(key, " ", "_")
	return strings.ReplaceAll(key, "-", "_")
}

// symptomPhrase renders a catalog key as the phrase it matches in free text.
func symptomPhrase(key string) string {
	return strings.ReplaceAll(key, "_", " ")
}

// bodySystemFor returns the owning body system for a canonical key.
func bodySystemFor(key string) string {
	if entry, ok := symptomIndex[key]; ok {
		return entry.System
	}
	return "general"
}

// classifySeverity grades a whole description, defaulting to moderate when no
// indicator phrase appears.
func classifySeverity(description string) triage.Severity {
	lowered := strings.ToLower(description)
	for _, grade := range severityLadder {
		for _, indicator := range grade.Indicators {
			if strings.Contains(lowered, indicator) {
				return grade.Level
			}
		}
	}
	return triage.SeverityModerate
}

// IsRedFlag reports whether a clinical term demands urgent attention.
func IsRedFlag(term string) bool {
	return redFlagKeys[SymptomKey(term)]
}
