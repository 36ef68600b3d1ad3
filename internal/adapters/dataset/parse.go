package dataset

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/okian/fortuna/internal/domain/model"
)

// Column names of the yearly billionaire CSV exports.
const (
	colFullName     = "full_name"
	colFirstName    = "first_name"
	colLastName     = "last_name"
	colAge          = "age"
	colNetWorth     = "net_worth"
	colIndustries   = "business_industries"
	colCategory     = "business_category"
	colSelfMade     = "self_made"
	colYear         = "year"
	colTitle        = "position_in_organization"
	colOrganization = "organization_name"
	colResidence    = "city_of_residence"
	colCitizenship  = "country_of_citizenship"
	colGender       = "gender"
	colWealthStatus = "wealth_status"
)

var netWorthPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*B`)

// ParseNetWorth extracts the leading amount of a "12.3 B" string.
// Anything without a billions amount parses as 0.
func ParseNetWorth(raw string) float64 {
	m := netWorthPattern.FindStringSubmatch(raw)
	if m == nil {
		return 0
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	return v
}

// ParseIndustries splits "['A', 'B']" style lists; any other non-empty value
// is a single industry.
func ParseIndustries(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if !strings.HasPrefix(raw, "[") || !strings.HasSuffix(raw, "]") {
		return []string{raw}
	}
	parts := strings.Split(raw[1:len(raw)-1], ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.Trim(strings.TrimSpace(p), `'"`)
		p = strings.ReplaceAll(p, "&#38;", "&")
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseDigits accepts only unsigned decimal integers.
func parseDigits(raw string) *int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, r := range raw {
		if r < '0' || r > '9' {
			return nil
		}
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &v
}

// Row maps one CSV row, keyed by header, to a record.
func Row(row map[string]string) model.Billionaire {
	industries := ParseIndustries(row[colIndustries])

	name := strings.TrimSpace(row[colFullName])
	if name == "" {
		name = strings.TrimSpace(row[colFirstName] + " " + row[colLastName])
	}

	industry := row[colCategory]
	if industry == "" {
		industry = model.UnknownIndustry
		if len(industries) > 0 {
			industry = industries[0]
		}
	}

	return model.Billionaire{
		Name:           name,
		Age:            parseDigits(row[colAge]),
		NetWorth:       ParseNetWorth(row[colNetWorth]),
		Industry:       industry,
		SourceOfWealth: strings.Join(industries, ", "),
		Title:          row[colTitle],
		Organization:   row[colOrganization],
		IsSelfMade:     strings.EqualFold(strings.TrimSpace(row[colSelfMade]), "true"),
		Residence:      row[colResidence],
		Citizenship:    row[colCitizenship],
		Gender:         row[colGender],
		Year:           parseDigits(row[colYear]),
		WealthStatus:   row[colWealthStatus],
	}
}

// sanitize clamps values the layout cannot use and reports how many records
// were touched.
func sanitize(records []model.Billionaire) int {
	clamped := 0
	for i := range records {
		nw := records[i].NetWorth
		if nw < 0 || math.IsNaN(nw) || math.IsInf(nw, 0) {
			records[i].NetWorth = 0
			clamped++
		}
		if records[i].Industry == "" {
			records[i].Industry = model.UnknownIndustry
		}
	}
	return clamped
}
