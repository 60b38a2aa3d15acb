package model

import "strings"

// PersonaTag identifies one of the four analytical viewpoints over an event.
type PersonaTag string

// The four personas the dashboard renders.
const (
	PersonaReferee PersonaTag = "referee"
	PersonaCoach   PersonaTag = "coach"
	PersonaPlayer  PersonaTag = "player"
	PersonaLeague  PersonaTag = "league"
)

// Personas lists the known persona tags in display order.
func Personas() []PersonaTag {
	return []PersonaTag{PersonaReferee, PersonaCoach, PersonaPlayer, PersonaLeague}
}

// KnownPersona reports whether the given string names one of the four
// personas, ignoring case.
func KnownPersona(s string) bool {
	switch PersonaTag(strings.ToLower(strings.TrimSpace(s))) {
	case PersonaReferee, PersonaCoach, PersonaPlayer, PersonaLeague:
		return true
	default:
		return false
	}
}

// AspectNote is a typed remark attached to an analysis surface. It replaces
// the loose metadata object the backend sends alongside surfaces.
type AspectNote struct {
	Aspect  string
	Comment string
}

// AnalysisSurface is a persona-tagged scored interpretation of one event.
// The backend may produce duplicates or omissions per persona; resolution
// order is the resolver's concern, not the model's.
type AnalysisSurface struct {
	ID             string
	EventID        string
	Persona        string // raw tag as produced upstream, e.g. "Head Coach"
	Scores         map[string]float64
	Interpretation string
	Notes          []AspectNote
}
