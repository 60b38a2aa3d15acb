package timeline_test

import (
	"testing"

	model "github.com/refsight/refsight/internal/domain/model"
	timeline "github.com/refsight/refsight/internal/domain/timeline"
	. "github.com/smartystreets/goconvey/convey"
)

func conf(v float64) *float64 { return &v }

func sampleMarkers() []model.Marker {
	return []model.Marker{
		model.NewEventMarker(model.EventMarker{
			ID: "e1", EventType: model.EventFoul, Timestamp: 10,
			Confidence: conf(0.9), HasClip: true,
			Detail: model.EventDetail{FoulType: "holding", Team: "home"},
		}),
		model.NewClipMarker(model.ClipMarker{
			ID: "c1", Start: 8, End: 12, Duration: 4, EventAnchorID: "e1",
		}),
		model.NewEventMarker(model.EventMarker{
			ID: "e2", EventType: model.EventGoal, Timestamp: 40,
		}),
		model.NewEventMarker(model.EventMarker{
			ID: "e3", EventType: model.EventFoul, Timestamp: 70,
			Confidence: conf(0.55),
			Detail:     model.EventDetail{FoulType: "tripping", Team: "away"},
		}),
		model.NewEventMarker(model.EventMarker{
			ID: "e4", EventType: model.EventOffside, Timestamp: -5,
		}),
	}
}

func ids(markers []model.Marker) []string {
	out := make([]string, 0, len(markers))
	for _, m := range markers {
		out = append(out, m.ID())
	}
	return out
}

func TestFilter(t *testing.T) {
	Convey("Given a mixed marker set", t, func() {
		markers := sampleMarkers()

		Convey("When filtering with empty criteria", func() {
			got := timeline.Filter(markers, timeline.Criteria{})

			Convey("Then all well-formed events pass, clips and malformed markers do not", func() {
				So(ids(got), ShouldResemble, []string{"e1", "e2", "e3"})
			})
		})

		Convey("When filtering by event type", func() {
			var c timeline.Criteria
			c.ToggleEventType(model.EventFoul)
			got := timeline.Filter(markers, c)

			Convey("Then only fouls remain, in input order", func() {
				So(ids(got), ShouldResemble, []string{"e1", "e3"})
			})
		})

		Convey("When filtering by foul type", func() {
			var c timeline.Criteria
			c.ToggleFoulType("holding")
			got := timeline.Filter(markers, c)

			Convey("Then events without a foul type are excluded", func() {
				So(ids(got), ShouldResemble, []string{"e1"})
			})
		})

		Convey("When filtering by time range", func() {
			var c timeline.Criteria
			c.SetTimeRange(30, 80)
			got := timeline.Filter(markers, c)

			Convey("Then bounds are inclusive", func() {
				So(ids(got), ShouldResemble, []string{"e2", "e3"})
			})
		})

		Convey("When filtering by minimum confidence", func() {
			var c timeline.Criteria
			c.SetMinConfidence(0.8)
			got := timeline.Filter(markers, c)

			Convey("Then low-confidence events drop out but unscored events stay", func() {
				So(ids(got), ShouldResemble, []string{"e1", "e2"})
			})
		})

		Convey("When filtering the spec scenario at 0.95 confidence", func() {
			scenario := []model.Marker{
				model.NewEventMarker(model.EventMarker{
					ID: "e1", EventType: model.EventFoul, Timestamp: 10, Confidence: conf(0.9),
				}),
				model.NewClipMarker(model.ClipMarker{
					ID: "c1", EventAnchorID: "e1", Start: 8, End: 12,
				}),
			}
			var c timeline.Criteria
			c.SetMinConfidence(0.95)

			Convey("Then the result is empty", func() {
				So(timeline.Filter(scenario, c), ShouldBeEmpty)
			})
		})

		Convey("When combining axes", func() {
			var c timeline.Criteria
			c.ToggleEventType(model.EventFoul)
			c.SetTimeRange(0, 30)
			got := timeline.Filter(markers, c)

			Convey("Then axes AND together", func() {
				So(ids(got), ShouldResemble, []string{"e1"})
			})
		})

		Convey("When applying the same criteria twice", func() {
			var c timeline.Criteria
			c.ToggleEventType(model.EventFoul)
			c.SetMinConfidence(0.5)
			once := timeline.Filter(markers, c)
			twice := timeline.Filter(once, c)

			Convey("Then filtering is idempotent", func() {
				So(twice, ShouldResemble, once)
			})
		})

		Convey("When raising min confidence with unscored events present", func() {
			for _, min := range []float64{0.1, 0.5, 0.9, 1.0} {
				var c timeline.Criteria
				c.SetMinConfidence(min)
				got := timeline.Filter(markers, c)

				Convey("Then e2 (no confidence) survives min="+floatLabel(min), func() {
					So(ids(got), ShouldContain, "e2")
				})
			}
		})
	})
}

func floatLabel(v float64) string {
	switch {
	case v >= 1.0:
		return "1.0"
	case v >= 0.9:
		return "0.9"
	case v >= 0.5:
		return "0.5"
	default:
		return "0.1"
	}
}

func TestCriteriaToggles(t *testing.T) {
	Convey("Given empty criteria", t, func() {
		var c timeline.Criteria
		So(c.Empty(), ShouldBeTrue)

		Convey("When toggling an event type twice", func() {
			c.ToggleEventType(model.EventFoul)
			So(c.EventTypes, ShouldContainKey, model.EventFoul)
			c.ToggleEventType(model.EventFoul)

			Convey("Then the constraint is fully dropped", func() {
				So(c.EventTypes, ShouldBeNil)
				So(c.Empty(), ShouldBeTrue)
			})
		})

		Convey("When toggling two foul types and removing one", func() {
			c.ToggleFoulType("holding")
			c.ToggleFoulType("tripping")
			c.ToggleFoulType("holding")

			Convey("Then the other member remains", func() {
				So(c.FoulTypes, ShouldContainKey, "tripping")
				So(c.FoulTypes, ShouldHaveLength, 1)
			})
		})

		Convey("When setting min confidence out of range", func() {
			c.SetMinConfidence(1.7)

			Convey("Then the value is clamped into [0,1]", func() {
				So(*c.MinConfidence, ShouldEqual, 1.0)
			})
		})

		Convey("When resetting populated criteria", func() {
			c.ToggleEventType(model.EventGoal)
			c.SetTimeRange(0, 90)
			c.SetMinConfidence(0.3)
			c.Reset()

			Convey("Then every axis is cleared", func() {
				So(c.Empty(), ShouldBeTrue)
			})
		})

		Convey("When cloning criteria", func() {
			c.ToggleEventType(model.EventGoal)
			c.SetMinConfidence(0.3)
			clone := c.Clone()
			c.ToggleEventType(model.EventGoal)
			c.ClearMinConfidence()

			Convey("Then the clone is unaffected by later mutation", func() {
				So(clone.EventTypes, ShouldContainKey, model.EventGoal)
				So(*clone.MinConfidence, ShouldEqual, 0.3)
			})
		})
	})
}
