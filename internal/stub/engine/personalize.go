package engine

import (
	"fmt"
	"strings"

	"github.com/VINAY-SANDA/CareTriage/internal/domain/triage"
)

// vegetarianSwaps replaces non-vegetarian items in recommendation text.
var vegetarianSwaps = []struct {
	From, To string
}{
	{"chicken", "paneer or soy chunks"},
	{"fish", "omega-3 rich seeds (flax, chia) or walnuts"},
	{"meat", "legumes and pulses"},
	{"eggs", "paneer, tofu, or sprouted lentils"},
	{"beef", "mushrooms or jackfruit"},
	{"pork", "textured vegetable protein"},
}

var (
	exerciseAlternatives = []string{"yoga asanas", "morning walk in park", "surya namaskar", "pranayama", "evening walk after dinner"}
	stressRelievers      = []string{"pranayama", "Om chanting", "temple/spiritual visits", "devotional music", "early morning walks"}
)

// regionalStaples lists typical foods per region for dietary suggestions.
var regionalStaples = map[string][]string{
	"north_india":   {"roti", "dal", "sabzi", "paneer", "curd", "lassi"},
	"south_india":   {"rice", "sambar", "rasam", "idli", "dosa", "coconut chutney"},
	"east_india":    {"rice", "fish", "mustard oil dishes", "mishti doi"},
	"west_india":    {"roti", "dal", "dhokla", "thepla", "khichdi"},
	"central_india": {"roti", "dal", "bafla", "poha"},
}

// regionAliases maps common state and city names onto staple regions.
var regionAliases = map[string]string{
	"delhi":          "north_india",
	"punjab":         "north_india",
	"uttar_pradesh":  "north_india",
	"up":             "north_india",
	"haryana":        "north_india",
	"rajasthan":      "north_india",
	"tamil_nadu":     "south_india",
	"tn":             "south_india",
	"karnataka":      "south_india",
	"kerala":         "south_india",
	"andhra_pradesh": "south_india",
	"ap":             "south_india",
	"telangana":      "south_india",
	"west_bengal":    "east_india",
	"wb":             "east_india",
	"odisha":         "east_india",
	"assam":          "east_india",
	"maharashtra":    "west_india",
	"gujarat":        "west_india",
	"goa":            "west_india",
	"madhya_pradesh": "central_india",
	"mp":             "central_india",
	"chhattisgarh":   "central_india",
}

// Personalize adapts recommendation wording to the caller's dietary and
// cultural preferences. A nil prefs falls back to the service defaults.
func Personalize(recommendations []string, prefs *triage.UserPreferences) []triage.PersonalizedRecommendation {
	if prefs == nil {
		defaults := triage.DefaultUserPreferences()
		prefs = &defaults
	}

	personalized := make([]triage.PersonalizedRecommendation, 0, len(recommendations))
	for _, rec := range recommendations {
		personalized = append(personalized, adaptRecommendation(rec, prefs))
	}
	return personalized
}

// adaptRecommendation applies the cultural alignment rules in order; each
// rule rewrites from the original wording, so the last matching rule wins.
func adaptRecommendation(rec string, prefs *triage.UserPreferences) triage.PersonalizedRecommendation {
	lowered := strings.ToLower(rec)
	adapted := rec
	notes := ""

	if containsAny(lowered, "meat", "chicken", "fish", "egg", "beef", "pork") && prefersVegetarian(prefs) {
		adapted = makeVegetarian(rec)
		notes = "Adapted for vegetarian diet preference"
	}

	if containsAny(lowered, "exercise", "workout", "gym", "fitness") {
		adapted = fmt.Sprintf("%s Consider Indian alternatives like %s.", rec, strings.Join(exerciseAlternatives[:3], ", "))
		notes = "Adapted to include traditional Indian exercise options"
	}

	if containsAny(lowered, "stress", "anxiety", "relax", "mental") {
		adapted = fmt.Sprintf("%s You might also try %s.", rec, strings.Join(stressRelievers[:3], ", "))
		notes = "Adapted with culturally relevant stress management techniques"
	}

	if containsAny(lowered, "diet", "eat", "food", "nutrition") {
		if foods := regionalFoods(prefs.Region); len(foods) > 0 {
			adapted = fmt.Sprintf("%s Regional options include: %s.", rec, strings.Join(foods, ", "))
		}
	}

	return triage.PersonalizedRecommendation{
		OriginalRecommendation: rec,
		AdaptedRecommendation:  adapted,
		CulturalNotes:          notes,
	}
}

func prefersVegetarian(prefs *triage.UserPreferences) bool {
	for _, d := range prefs.DietaryPreferences {
		if d == "vegetarian" || d == "veg" {
			return true
		}
	}
	return false
}

func makeVegetarian(rec string) string {
	result := rec
	for _, swap := range vegetarianSwaps {
		if strings.Contains(strings.ToLower(result), swap.From) {
			result = strings.ReplaceAll(result, swap.From, swap.To)
			result = strings.ReplaceAll(result, capitalize(swap.From), swap.To)
		}
	}
	return result
}

// regionalFoods returns up to three staple foods for a region, falling back
// to north Indian staples for unknown regions.
func regionalFoods(region string) []string {
	key := strings.ToLower(strings.TrimSpace(region))
	key = strings.ReplaceAll(key, " ", "_")
	key = strings.ReplaceAll(key, "-", "_")

	if alias, ok := regionAliases[key]; ok {
		key = alias
	}
	foods, ok := regionalStaples[key]
	if !ok {
		foods = regionalStaples["north_india"]
	}
	if len(foods) > 3 {
		foods = foods[:3]
	}
	return foods
}

func containsAny(text string, terms ...string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}

func capitalize(word string) string {
	if word == "" {
		return word
	}
	return strings.ToUpper(word[:1]) + word[1:]
}
