package edu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsEduEmail(t *testing.T) {
	cases := []struct {
		email string
		want  bool
	}{
		{"a@b.edu", true},
		{"Jane.Doe@MIT.EDU", true},
		{"student@cs.stanford.edu", true},
		{"a@b.com", false},
		{"a.edu", false},
		{"", false},
		{"a@b@c.edu", false},
		{"a b@c.edu", false},
		{"a@b.edu.com", false},
		{"@b.edu", false},
		{"a@.edu", false},
	}

	for _, tc := range cases {
		t.Run(tc.email, func(t *testing.T) {
			assert.Equal(t, tc.want, IsEduEmail(tc.email))
		})
	}
}

func TestExtractSchoolDomain(t *testing.T) {
	assert.Equal(t, "mit.edu", ExtractSchoolDomain("x@mit.edu"))
	assert.Equal(t, "mit.edu", ExtractSchoolDomain("x@MIT.Edu"))
	assert.Equal(t, "", ExtractSchoolDomain("noat"))
	assert.Equal(t, "", ExtractSchoolDomain("trailing@"))
	assert.Equal(t, "mit.edu", ExtractSchoolDomain("x@MIT.edu@evil.edu"))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "ada@mit.edu", NormalizeEmail("  Ada@MIT.edu \n"))
}

func TestFormatSchoolName(t *testing.T) {
	assert.Equal(t, "Massachusetts Institute of Technology", FormatSchoolName("MIT"))
	assert.Equal(t, "Massachusetts Institute of Technology", FormatSchoolName("mit"))
	assert.Equal(t, "University of California, Berkeley", FormatSchoolName("uc berkeley"))
	assert.Equal(t, "Random U", FormatSchoolName("Random U"))
	assert.Equal(t, "Unknown School", FormatSchoolName(""))
}
