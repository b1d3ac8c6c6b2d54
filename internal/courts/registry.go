package courts

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed courts.yaml
var defaultTables []byte

// Registry holds the compiled court-name tables. It is immutable once built
// and safe to share between goroutines.
type Registry struct {
	exact      map[string]exactEntry
	districts  map[string]string
	stateNames []string // district keys, longest first for prefix matching
	directions map[string]string
	circuits   map[string]string
	states     map[string][]rule
	fallback   []rule
}

type exactEntry struct {
	ID           string
	Jurisdiction string
}

type rule struct {
	patterns []*regexp.Regexp
	court    string
}

func (r rule) matches(name string) bool {
	for _, p := range r.patterns {
		if !p.MatchString(name) {
			return false
		}
	}
	return true
}

type tableFile struct {
	FederalExact []struct {
		Name         string `yaml:"name"`
		ID           string `yaml:"id"`
		Jurisdiction string `yaml:"jurisdiction"`
	} `yaml:"federal_exact"`
	Districts  map[string]string      `yaml:"districts"`
	Directions map[string]string      `yaml:"directions"`
	Circuits   map[string]string      `yaml:"circuits"`
	States     map[string][]ruleEntry `yaml:"states"`
	Fallback   []ruleEntry            `yaml:"fallback"`
}

type ruleEntry struct {
	Patterns []string `yaml:"patterns"`
	Court    string   `yaml:"court"`
}

// DefaultRegistry builds a registry from the tables compiled into the binary.
func DefaultRegistry() (*Registry, error) {
	return LoadRegistry(defaultTables)
}

// LoadRegistryFile builds a registry from a YAML file on disk.
func LoadRegistryFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &RegistryError{Message: fmt.Sprintf("failed to read %s", path), Cause: err}
	}
	return LoadRegistry(data)
}

// LoadRegistry parses and compiles YAML court tables.
func LoadRegistry(data []byte) (*Registry, error) {
	var tf tableFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return nil, &RegistryError{Message: "failed to parse court tables", Cause: err}
	}

	reg := &Registry{
		exact:      make(map[string]exactEntry, len(tf.FederalExact)),
		districts:  make(map[string]string, len(tf.Districts)),
		directions: make(map[string]string, len(tf.Directions)),
		circuits:   make(map[string]string, len(tf.Circuits)),
		states:     make(map[string][]rule, len(tf.States)),
	}

	for _, e := range tf.FederalExact {
		if e.ID == "" {
			return nil, &RegistryError{Message: fmt.Sprintf("federal court %q has no id", e.Name)}
		}
		reg.exact[normalizeName(e.Name)] = exactEntry{ID: e.ID, Jurisdiction: e.Jurisdiction}
	}
	for name, code := range tf.Districts {
		key := normalizeName(name)
		reg.districts[key] = code
		reg.stateNames = append(reg.stateNames, key)
	}
	sort.Slice(reg.stateNames, func(i, j int) bool {
		if len(reg.stateNames[i]) != len(reg.stateNames[j]) {
			return len(reg.stateNames[i]) > len(reg.stateNames[j])
		}
		return reg.stateNames[i] < reg.stateNames[j]
	})
	for word, letter := range tf.Directions {
		reg.directions[strings.ToLower(word)] = letter
	}
	for ordinal, code := range tf.Circuits {
		reg.circuits[normalizeName(ordinal)] = code
	}
	for state, entries := range tf.States {
		rules, err := compileRules(entries)
		if err != nil {
			return nil, &RegistryError{Message: fmt.Sprintf("bad rule for %s", state), Cause: err}
		}
		reg.states[strings.ToLower(state)] = rules
	}
	fallback, err := compileRules(tf.Fallback)
	if err != nil {
		return nil, &RegistryError{Message: "bad fallback rule", Cause: err}
	}
	reg.fallback = fallback

	return reg, nil
}

func compileRules(entries []ruleEntry) ([]rule, error) {
	rules := make([]rule, 0, len(entries))
	for _, e := range entries {
		if e.Court == "" || len(e.Patterns) == 0 {
			return nil, fmt.Errorf("rule needs a court and at least one pattern")
		}
		r := rule{court: e.Court}
		for _, p := range e.Patterns {
			re, err := regexp.Compile(`(?i)` + p)
			if err != nil {
				return nil, err
			}
			r.patterns = append(r.patterns, re)
		}
		rules = append(rules, r)
	}
	return rules, nil
}

// lookupState finds the district code prefix for the state that rest starts
// with, so trailing words such as "at Brooklyn" are tolerated.
func (reg *Registry) lookupState(rest string) (string, bool) {
	if code, ok := reg.districts[rest]; ok {
		return code, true
	}
	for _, name := range reg.stateNames {
		if strings.HasPrefix(rest, name+" ") {
			return reg.districts[name], true
		}
	}
	return "", false
}

var (
	nameReplacer = strings.NewReplacer(".", " ", ",", " ", ";", " ", "’", "'", " ", " ")
	spaceRe      = regexp.MustCompile(`\s+`)
)

// normalizeName lower-cases a court name, drops periods and commas, collapses
// whitespace and spells every "United States" variant as "us".
func normalizeName(s string) string {
	s = strings.ToLower(s)
	s = nameReplacer.Replace(s)
	s = " " + strings.TrimSpace(spaceRe.ReplaceAllString(s, " ")) + " "
	s = strings.ReplaceAll(s, " united states of america ", " us ")
	s = strings.ReplaceAll(s, " united states ", " us ")
	s = strings.ReplaceAll(s, " u s ", " us ")
	return strings.TrimSpace(s)
}
