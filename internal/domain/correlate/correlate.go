// Package correlate resolves the clip generated for a given event.
package correlate

import (
	"github.com/refsight/refsight/internal/domain/model"
)

// ResolveClip returns the id of the clip marker anchored to eventID, or ""
// when no clip exists yet. When the data carries more than one clip for the
// same anchor the first in marker order wins; that is a weak tie-break over
// an upstream anomaly, not a correctness claim.
func ResolveClip(markers []model.Marker, eventID string) string {
	if eventID == "" {
		return ""
	}
	for _, m := range markers {
		if m.Kind != model.KindClip || m.Clip == nil {
			continue
		}
		if m.Clip.EventAnchorID == eventID {
			return m.Clip.ID
		}
	}
	return ""
}
