// Package model contains domain models passed between layers.
package model

import "strconv"

// UnknownIndustry labels records whose source carried no industry.
const UnknownIndustry = "Unknown"

// Billionaire is one billionaire record for one observation year.
// Field names on the wire mirror the dashboard's original JSON payload.
type Billionaire struct {
	Name           string  `json:"name"`
	Age            *int    `json:"age"`
	NetWorth       float64 `json:"netWorth"` // USD billions
	Industry       string  `json:"industry"`
	SourceOfWealth string  `json:"sourceOfWealth,omitempty"`
	Title          string  `json:"title,omitempty"`
	Organization   string  `json:"organization,omitempty"`
	IsSelfMade     bool    `json:"isSelfMade"`
	Residence      string  `json:"residence,omitempty"`
	Citizenship    string  `json:"citizenship"`
	Gender         string  `json:"gender,omitempty"`
	Year           *int    `json:"year"`
	WealthStatus   string  `json:"wealthStatus,omitempty"`
}

// HasAge reports whether the record carries an age.
func (b Billionaire) HasAge() bool { return b.Age != nil }

// HasYear reports whether the record carries an observation year.
func (b Billionaire) HasYear() bool { return b.Year != nil }

// AgeValue returns the age, or 0 when absent.
func (b Billionaire) AgeValue() int {
	if b.Age == nil {
		return 0
	}
	return *b.Age
}

// YearValue returns the observation year, or 0 when absent.
func (b Billionaire) YearValue() int {
	if b.Year == nil {
		return 0
	}
	return *b.Year
}

// Key identifies the (entity, year) pair a record belongs to.
func (b Billionaire) Key() string {
	if b.Year == nil {
		return b.Name
	}
	return b.Name + "|" + strconv.Itoa(*b.Year)
}

// IntPtr is a small helper for optional integer fields.
func IntPtr(v int) *int { return &v }
