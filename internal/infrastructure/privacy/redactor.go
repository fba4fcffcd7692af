package privacy

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
)

// Mode controls how much patient-typed text reaches the logs.
type Mode string

const (
	// ModeDrop withholds patient text entirely.
	ModeDrop Mode = "drop"

	// ModeMask keeps clinical content readable but masks contact details
	// and identifiers. This is the default.
	ModeMask Mode = "mask"

	// ModePlain logs text verbatim. Local debugging only.
	ModePlain Mode = "plain"
)

// ParseMode maps a config string onto a Mode. Unknown values fall back to
// masking.
func ParseMode(s string) Mode {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeDrop:
		return ModeDrop
	case ModePlain:
		return ModePlain
	default:
		return ModeMask
	}
}

const droppedPlaceholder = "[patient text withheld]"

// Redactor prepares patient-typed text for logging. Symptom descriptions
// routinely carry phone numbers, email addresses and ID numbers alongside the
// clinical content; the redactor masks those before any log line is written.
//
// Masked identifiers keep a short salted hash so repeated values can still be
// correlated within one deployment without being reversible from the logs.
type Redactor struct {
	mode Mode
	salt string

	emailPattern      *regexp.Regexp
	phonePattern      *regexp.Regexp
	nationalIDPattern *regexp.Regexp
	ipPattern         *regexp.Regexp
}

// NewRedactor builds a redactor for the given mode. The salt scopes identifier
// hashes to one deployment; an empty salt is allowed.
func NewRedactor(mode Mode, salt string) *Redactor {
	return &Redactor{
		mode: mode,
		salt: salt,

		emailPattern: regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`),
		// Ten digits in 3-3-4 groups or the 5-5 grouping common for
		// mobile numbers.
		phonePattern: regexp.MustCompile(`\b(?:\d{3}[-.\s]?\d{3}[-.\s]?\d{4}|\d{5}[-.\s]\d{5})\b`),
		// Twelve-digit national health/citizen IDs, optionally grouped
		// in fours.
		nationalIDPattern: regexp.MustCompile(`\b\d{4}[-\s]?\d{4}[-\s]?\d{4}\b`),
		ipPattern:         regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`),
	}
}

// Text renders patient-typed text according to the redactor's mode. Empty
// input stays empty in every mode.
func (r *Redactor) Text(s string) string {
	if s == "" {
		return ""
	}

	switch r.mode {
	case ModeDrop:
		return droppedPlaceholder
	case ModePlain:
		return s
	default:
		return r.mask(s)
	}
}

func (r *Redactor) mask(s string) string {
	result := s

	// National IDs first so the phone pattern cannot consume part of a
	// grouped twelve-digit run.
	result = r.nationalIDPattern.ReplaceAllString(result, "[national-id]")

	result = r.emailPattern.ReplaceAllStringFunc(result, func(match string) string {
		return fmt.Sprintf("[email:%s]", r.hash(match))
	})
	result = r.phonePattern.ReplaceAllStringFunc(result, func(match string) string {
		return fmt.Sprintf("[phone:%s]", r.hash(match))
	})
	result = r.ipPattern.ReplaceAllStringFunc(result, func(match string) string {
		return fmt.Sprintf("[ip:%s]", r.hash(match))
	})

	return result
}

// hash returns the first eight hex characters of the salted SHA-256 of data.
func (r *Redactor) hash(data string) string {
	h := sha256.New()
	h.Write([]byte(data + r.salt))
	return hex.EncodeToString(h.Sum(nil))[:8]
}
