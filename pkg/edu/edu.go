package edu

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// UnknownSchoolName is displayed when a signup carries no school name.
const UnknownSchoolName = "Unknown School"

var eduEmailPattern = regexp.MustCompile(`(?i)^[^\s@]+@[^\s@]+\.edu$`)

var schoolAbbreviations = map[string]string{
	"MIT":         "Massachusetts Institute of Technology",
	"NYU":         "New York University",
	"USC":         "University of Southern California",
	"UCLA":        "University of California, Los Angeles",
	"UC BERKELEY": "University of California, Berkeley",
}

var upper = cases.Upper(language.Und)

// IsEduEmail reports whether email has exactly one @ and ends in .edu.
func IsEduEmail(email string) bool {
	return eduEmailPattern.MatchString(email)
}

// ExtractSchoolDomain returns the lower-cased part of email between the first and second @.
func ExtractSchoolDomain(email string) string {
	parts := strings.Split(email, "@")
	if len(parts) < 2 {
		return ""
	}

	return strings.ToLower(parts[1])
}

// NormalizeEmail trims surrounding whitespace and lower-cases the address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// FormatSchoolName expands well-known abbreviations and falls back to UnknownSchoolName.
func FormatSchoolName(name string) string {
	if name == "" {
		return UnknownSchoolName
	}

	if expanded, ok := schoolAbbreviations[upper.String(name)]; ok {
		return expanded
	}

	return name
}
