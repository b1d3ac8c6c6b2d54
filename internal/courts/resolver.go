package courts

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jonathan/corpus-merge/internal/types"
)

// Stage names the matching stage that produced a result
type Stage string

// Resolution stages, in the order they are tried
const (
	StageFederalExact     Stage = "federal_exact"
	StageBankruptcy       Stage = "federal_bankruptcy"
	StageFederalDistrict  Stage = "federal_district"
	StageFederalAppellate Stage = "federal_appellate"
	StageState            Stage = "state"
	StageFallback         Stage = "fallback"
	StageUnresolved       Stage = "unresolved"
)

// Result is the outcome of resolving a court name. An unresolved result has
// an empty CourtID.
type Result struct {
	CourtID      string `json:"court_id,omitempty"`
	Jurisdiction string `json:"jurisdiction,omitempty"`
	Stage        Stage  `json:"stage"`
}

// Resolved reports whether a canonical court was found
func (r Result) Resolved() bool {
	return r.CourtID != ""
}

// Bankruptcy reports whether the resolved court is a bankruptcy court
func (r Result) Bankruptcy() bool {
	return r.Jurisdiction == types.JurisdictionFederalBankruptcy
}

var unresolved = Result{Stage: StageUnresolved}

var (
	districtRe       = regexp.MustCompile(`^(?:(\S+) )?(?:district|dist|d) of (.+)$`)
	districtPrefixRe = regexp.MustCompile(`^(?:us )?(?:district court )?(?:for )?(?:the )?`)
	bankruptcyRe     = regexp.MustCompile(`^(?:us )?bankruptcy court (?:for |of )?(?:the )?(.+)$`)
	appellateRe      = regexp.MustCompile(`^(?:us )?(?:circuit court of appeals|court of appeals|circuit court) (?:for|of) the (.+?) circuit$`)
)

// Resolver maps court-name strings to canonical court codes
type Resolver struct {
	reg *Registry
}

// NewResolver creates a resolver over the given tables
func NewResolver(reg *Registry) *Resolver {
	return &Resolver{reg: reg}
}

// Resolve runs the staged match for a court name and an optional source path
// hint. The first stage that matches wins. Resolve never fails; a name that
// nothing recognizes yields an unresolved result.
func (r *Resolver) Resolve(name, path string) Result {
	norm := normalizeName(name)
	if norm == "" {
		return unresolved
	}

	if e, ok := r.reg.exact[norm]; ok {
		return Result{CourtID: e.ID, Jurisdiction: e.Jurisdiction, Stage: StageFederalExact}
	}
	if id, ok := r.matchBankruptcy(norm); ok {
		return Result{CourtID: id, Jurisdiction: types.JurisdictionFederalBankruptcy, Stage: StageBankruptcy}
	}
	if id, ok := r.matchDistrict(norm); ok {
		return Result{CourtID: id, Jurisdiction: types.JurisdictionFederalDistrict, Stage: StageFederalDistrict}
	}
	if id, ok := r.matchAppellate(norm); ok {
		return Result{CourtID: id, Jurisdiction: types.JurisdictionFederalAppellate, Stage: StageFederalAppellate}
	}
	if id, ok := r.matchState(norm, path); ok {
		return Result{CourtID: id, Jurisdiction: types.JurisdictionState, Stage: StageState}
	}
	for _, rl := range r.reg.fallback {
		if rl.matches(norm) {
			return Result{CourtID: rl.court, Jurisdiction: types.JurisdictionState, Stage: StageFallback}
		}
	}
	return unresolved
}

// MatchFederalDistrict resolves "<Direction> District of <State>" names.
func (r *Resolver) MatchFederalDistrict(name string) (string, bool) {
	return r.matchDistrict(normalizeName(name))
}

// MatchFederalAppellate resolves "Court of Appeals for the <Ordinal> Circuit"
// and the older "Circuit Court for the <Ordinal> Circuit" names.
func (r *Resolver) MatchFederalAppellate(name string) (string, bool) {
	return r.matchAppellate(normalizeName(name))
}

func (r *Resolver) matchDistrict(norm string) (string, bool) {
	prefix, ok := r.districtParts(norm)
	if !ok {
		return "", false
	}
	return prefix + "d", true
}

func (r *Resolver) matchBankruptcy(norm string) (string, bool) {
	m := bankruptcyRe.FindStringSubmatch(norm)
	if m == nil {
		return "", false
	}
	prefix, ok := r.districtParts(m[1])
	if !ok {
		return "", false
	}
	return prefix + "b", true
}

// districtParts returns the state prefix plus direction letter. A leading
// word that is not a known direction is dropped and the plain district is
// used.
func (r *Resolver) districtParts(norm string) (string, bool) {
	rest := districtPrefixRe.ReplaceAllString(norm, "")
	m := districtRe.FindStringSubmatch(rest)
	if m == nil {
		return "", false
	}
	state, ok := r.reg.lookupState(m[2])
	if !ok {
		return "", false
	}
	return state + r.reg.directions[m[1]], true
}

func (r *Resolver) matchAppellate(norm string) (string, bool) {
	m := appellateRe.FindStringSubmatch(norm)
	if m == nil {
		return "", false
	}
	code, ok := r.reg.circuits[m[1]]
	return code, ok
}

func (r *Resolver) matchState(norm, path string) (string, bool) {
	rules := r.reg.states[stateFromPath(path, r.reg.states)]
	for _, rl := range rules {
		if rl.matches(norm) {
			return rl.court, true
		}
	}
	return "", false
}

// stateFromPath returns the first path segment naming a state with rules,
// e.g. "new_jersey" in "new_jersey/supreme_court_opinions/documents/x.xml".
func stateFromPath(path string, states map[string][]rule) string {
	if path == "" {
		return ""
	}
	segments := strings.FieldsFunc(filepath.ToSlash(path), func(c rune) bool { return c == '/' })
	for _, seg := range segments {
		seg = strings.ToLower(seg)
		if _, ok := states[seg]; ok {
			return seg
		}
	}
	return ""
}
