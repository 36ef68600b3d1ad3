// Package geo folds free-text citizenship values onto the country names
// used by the world map and computes per-country wealth shares.
package geo

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const (
	UnitedStates  = "United States"
	UnitedKingdom = "United Kingdom"
	Unknown       = "Unknown"
)

var aliases = map[string]string{
	"united states":            UnitedStates,
	"usa":                      UnitedStates,
	"u.s.":                     UnitedStates,
	"us":                       UnitedStates,
	"united states of america": UnitedStates,
	"united kingdom":           UnitedKingdom,
	"uk":                       UnitedKingdom,
	"great britain":            UnitedKingdom,
	"england":                  UnitedKingdom,
	"russia":                   "Russia",
	"russian federation":       "Russia",
	"china":                    "China",
	"hong kong":                "China",
	"taiwan":                   "Taiwan",
	"uae":                      "United Arab Emirates",
	"united arab emirates":     "United Arab Emirates",
	"canada":                   "Canada",
	"germany":                  "Germany",
	"france":                   "France",
	"india":                    "India",
	"japan":                    "Japan",
	"brazil":                   "Brazil",
	"australia":                "Australia",
	"switzerland":              "Switzerland",
	"italy":                    "Italy",
	"spain":                    "Spain",
	"mexico":                   "Mexico",
	"south korea":              "South Korea",
	"korea":                    "South Korea",
	"republic of korea":        "South Korea",
	"saudi arabia":             "Saudi Arabia",
	"singapore":                "Singapore",
	"netherlands":              "Netherlands",
	"the netherlands":          "Netherlands",
	"sweden":                   "Sweden",
	"turkey":                   "Turkey",
	"turkiye":                  "Turkey",
	"indonesia":                "Indonesia",
	"israel":                   "Israel",
	"thailand":                 "Thailand",
	"ireland":                  "Ireland",
	"norway":                   "Norway",
	"denmark":                  "Denmark",
	"belgium":                  "Belgium",
	"austria":                  "Austria",
	"philippines":              "Philippines",
	"the philippines":          "Philippines",
	"malaysia":                 "Malaysia",
	"chile":                    "Chile",
	"colombia":                 "Colombia",
	"egypt":                    "Egypt",
	"finland":                  "Finland",
	"greece":                   "Greece",
	"portugal":                 "Portugal",
	"argentina":                "Argentina",
	"south africa":             "South Africa",
	"new zealand":              "New Zealand",
	"czech republic":           "Czech Republic",
	"czechia":                  "Czech Republic",
	"poland":                   "Poland",
	"hungary":                  "Hungary",
	"vietnam":                  "Vietnam",
	"peru":                     "Peru",
	"qatar":                    "Qatar",
	"kuwait":                   "Kuwait",
	"morocco":                  "Morocco",
	"ukraine":                  "Ukraine",
	"romania":                  "Romania",
	"kazakhstan":               "Kazakhstan",
	"nigeria":                  "Nigeria",
	"pakistan":                 "Pakistan",
	"bangladesh":               "Bangladesh",
	"algeria":                  "Algeria",
	"venezuela":                "Venezuela",
	"iraq":                     "Iraq",
	"iran":                     "Iran",
	"syria":                    "Syria",
	"libya":                    "Libya",
	"jordan":                   "Jordan",
	"lebanon":                  "Lebanon",
	"oman":                     "Oman",
	"bahrain":                  "Bahrain",
	"cyprus":                   "Cyprus",
	"iceland":                  "Iceland",
	"luxembourg":               "Luxembourg",
	"monaco":                   "Monaco",
	"liechtenstein":            "Liechtenstein",
	"andorra":                  "Andorra",
	"san marino":               "San Marino",
	"vatican city":             "Vatican City",
	"malta":                    "Malta",
	"estonia":                  "Estonia",
	"latvia":                   "Latvia",
	"lithuania":                "Lithuania",
	"belarus":                  "Belarus",
	"moldova":                  "Moldova",
	"slovakia":                 "Slovakia",
	"slovenia":                 "Slovenia",
	"croatia":                  "Croatia",
	"bosnia":                   "Bosnia and Herzegovina",
	"bosnia and herzegovina":   "Bosnia and Herzegovina",
	"serbia":                   "Serbia",
	"montenegro":               "Montenegro",
	"north macedonia":          "North Macedonia",
	"macedonia":                "North Macedonia",
	"albania":                  "Albania",
	"bulgaria":                 "Bulgaria",
}

// Fold lowercases s, strips diacritics and collapses whitespace.
func Fold(s string) string {
	decomposed := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Normalize maps a citizenship value to its canonical country name. Names
// missing from the table pass through trimmed; blank names become Unknown.
func Normalize(country string) string {
	folded := Fold(country)
	if folded == "" {
		return Unknown
	}
	if canonical, ok := aliases[folded]; ok {
		return canonical
	}
	if strings.Contains(folded, "america") {
		return UnitedStates
	}
	return strings.TrimSpace(country)
}
