package edu

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed universities.yaml
var defaultDirectoryYAML []byte

// School is a known university and the email domains its students use.
type School struct {
	ID      string   `yaml:"id"`
	Name    string   `yaml:"name"`
	Domains []string `yaml:"domains"`
}

type directoryFile struct {
	Schools []School `yaml:"schools"`
}

// Directory resolves school domains to known universities.
type Directory struct {
	byDomain map[string]School
	schools  int
}

// NewDefaultDirectory loads the directory shipped with the binary.
func NewDefaultDirectory() (*Directory, error) {
	return ParseDirectory(defaultDirectoryYAML)
}

// LoadDirectory reads a directory from a YAML file on disk.
func LoadDirectory(path string) (*Directory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read school directory %q: %w", path, err)
	}

	return ParseDirectory(data)
}

// ParseDirectory builds a directory from YAML. A domain claimed by two schools is an error.
func ParseDirectory(data []byte) (*Directory, error) {
	var file directoryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse school directory: %w", err)
	}

	dir := &Directory{byDomain: make(map[string]School)}

	for _, school := range file.Schools {
		if strings.TrimSpace(school.ID) == "" {
			return nil, fmt.Errorf("parse school directory: school %q has no id", school.Name)
		}

		for _, domain := range school.Domains {
			domain = strings.ToLower(strings.TrimSpace(domain))
			if domain == "" {
				continue
			}

			if other, exists := dir.byDomain[domain]; exists {
				return nil, fmt.Errorf("parse school directory: domain %q claimed by %q and %q", domain, other.ID, school.ID)
			}

			dir.byDomain[domain] = school
		}
		dir.schools++
	}

	return dir, nil
}

// Lookup finds the school owning domain, walking up to parent domains
// so that cs.mit.edu resolves to mit.edu.
func (d *Directory) Lookup(domain string) (School, bool) {
	if d == nil {
		return School{}, false
	}

	domain = strings.ToLower(strings.TrimSpace(domain))

	for domain != "" {
		if school, ok := d.byDomain[domain]; ok {
			return school, true
		}

		i := strings.Index(domain, ".")
		if i < 0 {
			break
		}
		domain = domain[i+1:]
	}

	return School{}, false
}

// Len returns the number of schools in the directory.
func (d *Directory) Len() int {
	if d == nil {
		return 0
	}
	return d.schools
}

// KnownDomains returns every domain mapped by the directory.
func (d *Directory) KnownDomains() []string {
	if d == nil {
		return nil
	}

	domains := make([]string, 0, len(d.byDomain))
	for domain := range d.byDomain {
		domains = append(domains, domain)
	}

	return domains
}
