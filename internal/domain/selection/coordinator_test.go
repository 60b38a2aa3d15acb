package selection_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	model "github.com/refsight/refsight/internal/domain/model"
	selection "github.com/refsight/refsight/internal/domain/selection"
	. "github.com/smartystreets/goconvey/convey"
)

// staticProvider serves a fixed marker set per game.
type staticProvider struct {
	mu      sync.Mutex
	byGame  map[string][]model.Marker
	failAll bool
}

func (p *staticProvider) Markers(_ context.Context, gameID string) ([]model.Marker, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failAll {
		return nil, errors.New("markers unavailable")
	}
	return p.byGame[gameID], nil
}

func gameMarkers() map[string][]model.Marker {
	return map[string][]model.Marker{
		"g1": {
			model.NewEventMarker(model.EventMarker{ID: "e1", EventType: model.EventFoul, Timestamp: 10, HasClip: true}),
			model.NewClipMarker(model.ClipMarker{ID: "c1", Start: 8, End: 12, EventAnchorID: "e1"}),
			model.NewEventMarker(model.EventMarker{ID: "e2", EventType: model.EventGoal, Timestamp: 40}),
		},
		"g2": {
			model.NewEventMarker(model.EventMarker{ID: "e9", EventType: model.EventPenalty, Timestamp: 5, HasClip: true}),
			model.NewClipMarker(model.ClipMarker{ID: "c9", Start: 3, End: 7, EventAnchorID: "e9"}),
		},
	}
}

func TestCoordinator(t *testing.T) {
	Convey("Given a coordinator over two games", t, func() {
		ctx := context.Background()
		provider := &staticProvider{byGame: gameMarkers()}
		coord := selection.New(provider, selection.WithInitialGame("g1"))

		Convey("When selecting an event with a clip", func() {
			st := coord.SelectEvent(ctx, "e1")

			Convey("Then the anchored clip is paired in the same transition", func() {
				So(st.SelectedEvent, ShouldEqual, "e1")
				So(st.SelectedClip, ShouldEqual, "c1")
				So(st.ManualClipMode, ShouldBeFalse)
			})
		})

		Convey("When selecting an event without a clip", func() {
			coord.SelectEvent(ctx, "e1")
			st := coord.SelectEvent(ctx, "e2")

			Convey("Then the previous event's clip does not linger", func() {
				So(st.SelectedEvent, ShouldEqual, "e2")
				So(st.SelectedClip, ShouldEqual, "")
			})
		})

		Convey("When switching games", func() {
			coord.SelectEvent(ctx, "e1")
			coord.Hover(ctx, "e2")
			st := coord.SelectGame(ctx, "g2")

			Convey("Then every other selection axis resets", func() {
				So(st.GameID, ShouldEqual, "g2")
				So(st.SelectedEvent, ShouldEqual, "")
				So(st.SelectedClip, ShouldEqual, "")
				So(st.HoveredEvent, ShouldEqual, "")
			})

			Convey("And events of the new game correlate against the new marker set", func() {
				next := coord.SelectEvent(ctx, "e9")
				So(next.SelectedClip, ShouldEqual, "c9")
			})
		})

		Convey("When hovering", func() {
			before := coord.SelectEvent(ctx, "e1")
			st := coord.Hover(ctx, "e2")

			Convey("Then selection and clip are untouched", func() {
				So(st.HoveredEvent, ShouldEqual, "e2")
				So(st.SelectedEvent, ShouldEqual, before.SelectedEvent)
				So(st.SelectedClip, ShouldEqual, before.SelectedClip)
			})

			Convey("And clearing the hover works with an empty id", func() {
				cleared := coord.Hover(ctx, "")
				So(cleared.HoveredEvent, ShouldEqual, "")
			})
		})

		Convey("When selecting a clip manually", func() {
			st := coord.SelectClip(ctx, "c1")

			Convey("Then manual mode is flagged and the event is untouched", func() {
				So(st.SelectedClip, ShouldEqual, "c1")
				So(st.ManualClipMode, ShouldBeTrue)
			})

			Convey("And a later event selection leaves manual mode", func() {
				next := coord.SelectEvent(ctx, "e1")
				So(next.ManualClipMode, ShouldBeFalse)
				So(next.SelectedClip, ShouldEqual, "c1")
			})
		})

		Convey("When the marker provider fails", func() {
			provider.failAll = true
			st := coord.SelectEvent(ctx, "e1")

			Convey("Then the event selects with no clip rather than erroring", func() {
				So(st.SelectedEvent, ShouldEqual, "e1")
				So(st.SelectedClip, ShouldEqual, "")
			})
		})

		Convey("When many SelectEvent calls race", func() {
			var wg sync.WaitGroup
			for i := 0; i < 50; i++ {
				wg.Add(1)
				id := "e1"
				if i%2 == 1 {
					id = "e2"
				}
				go func(eventID string) {
					defer wg.Done()
					coord.SelectEvent(ctx, eventID)
				}(id)
			}
			wg.Wait()
			st := coord.Snapshot()

			Convey("Then the final pairing is internally consistent", func() {
				switch st.SelectedEvent {
				case "e1":
					So(st.SelectedClip, ShouldEqual, "c1")
				case "e2":
					So(st.SelectedClip, ShouldEqual, "")
				default:
					So(st.SelectedEvent, ShouldBeIn, []string{"e1", "e2"})
				}
			})
		})
	})
}
