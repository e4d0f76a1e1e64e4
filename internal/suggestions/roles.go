package suggestions

import (
	"sort"

	"github.com/jonathan/resume-evaluator/internal/scoring"
	"github.com/jonathan/resume-evaluator/internal/types"
)

// roleOverlap is a role with the number of its keywords recognized in the resume
type roleOverlap struct {
	name    string
	overlap int
}

// Roles ranks the role table by keyword overlap with the matched keyword and skill evidence.
// Ties keep declaration order, roles without overlap are dropped and at most
// MaxSuggestedRoles names are returned. Without any overlap the fallback role is returned.
func (g *Generator) Roles(subScores []types.SubScore) []string {
	present := make(map[string]bool)
	for _, s := range subScores {
		if s.Name != types.ScorerKeywords && s.Name != types.ScorerSkills {
			continue
		}
		for _, term := range s.Matched {
			present[scoring.CanonicalTerm(term)] = true
		}
	}

	ranked := make([]roleOverlap, 0, len(g.rules.Roles))
	for _, role := range g.rules.Roles {
		count := 0
		for _, kw := range scoring.CanonicalTerms(role.Keywords) {
			if present[kw] {
				count++
			}
		}
		if count > 0 {
			ranked = append(ranked, roleOverlap{name: role.Name, overlap: count})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].overlap > ranked[j].overlap
	})

	if len(ranked) > g.rules.MaxSuggestedRoles {
		ranked = ranked[:g.rules.MaxSuggestedRoles]
	}
	if len(ranked) == 0 {
		return []string{g.rules.FallbackRole}
	}

	names := make([]string, len(ranked))
	for i, r := range ranked {
		names[i] = r.name
	}
	return names
}
