// Package persona selects which analysis surface to display for an event.
package persona

import (
	"strings"

	"github.com/refsight/refsight/internal/domain/model"
)

// Match is the outcome of a resolution. Exact is false when the resolver
// fell back to an arbitrary surface so the caller can warn the user that
// another persona's analysis is on screen.
type Match struct {
	Surface *model.AnalysisSurface
	Exact   bool
}

// Resolve picks the surface for the requested persona. Order: first surface
// whose tag equals the persona (case-insensitive), then first whose tag
// contains it, then surfaces[0]. Returns a nil surface only when the input
// is empty. The fallback trades occasional wrong-persona display for never
// showing an empty panel.
func Resolve(surfaces []model.AnalysisSurface, persona model.PersonaTag) Match {
	if len(surfaces) == 0 {
		return Match{}
	}

	want := strings.ToLower(strings.TrimSpace(string(persona)))
	for i := range surfaces {
		if strings.ToLower(strings.TrimSpace(surfaces[i].Persona)) == want {
			return Match{Surface: &surfaces[i], Exact: true}
		}
	}
	if want != "" {
		for i := range surfaces {
			if strings.Contains(strings.ToLower(surfaces[i].Persona), want) {
				return Match{Surface: &surfaces[i], Exact: true}
			}
		}
	}
	return Match{Surface: &surfaces[0], Exact: false}
}
