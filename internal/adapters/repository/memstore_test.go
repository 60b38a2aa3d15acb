package repository_test

import (
	"context"
	"errors"
	"testing"

	repository "github.com/refsight/refsight/internal/adapters/repository"
	model "github.com/refsight/refsight/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func markerSet(prefix string, n int) []model.Marker {
	out := make([]model.Marker, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, model.NewEventMarker(model.EventMarker{
			ID:        prefix + string(rune('a'+i)),
			EventType: model.EventFoul,
			Timestamp: float64(i),
		}))
	}
	return out
}

func TestMemStoreMarkers(t *testing.T) {
	Convey("Given an empty store", t, func() {
		ctx := context.Background()
		store := repository.NewMemStore()

		Convey("When reading a game never committed", func() {
			_, err := store.Markers(ctx, "g1")

			Convey("Then ErrGameNotFound is returned", func() {
				So(errors.Is(err, repository.ErrGameNotFound), ShouldBeTrue)
			})
		})

		Convey("When committing a marker set with duplicate ids", func() {
			markers := []model.Marker{
				model.NewEventMarker(model.EventMarker{ID: "e1", EventType: model.EventFoul, Timestamp: 10}),
				model.NewEventMarker(model.EventMarker{ID: "e1", EventType: model.EventGoal, Timestamp: 20}),
				model.NewClipMarker(model.ClipMarker{ID: "c1", Start: 8, End: 12, EventAnchorID: "e1"}),
				model.NewClipMarker(model.ClipMarker{ID: "", Start: 1, End: 2}),
			}
			n, err := store.ReplaceMarkers(ctx, "g1", markers)

			Convey("Then duplicates and id-less markers are dropped, first wins", func() {
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 2)
				got, err := store.Markers(ctx, "g1")
				So(err, ShouldBeNil)
				So(got, ShouldHaveLength, 2)
				So(got[0].Event.EventType, ShouldEqual, model.EventFoul)
				So(got[1].ID(), ShouldEqual, "c1")
			})
		})

		Convey("When replacing a committed set", func() {
			_, _ = store.ReplaceMarkers(ctx, "g1", markerSet("x", 3))
			before, _ := store.Markers(ctx, "g1")
			_, _ = store.ReplaceMarkers(ctx, "g1", markerSet("y", 1))

			Convey("Then earlier read results are unaffected copies", func() {
				So(before, ShouldHaveLength, 3)
				after, _ := store.Markers(ctx, "g1")
				So(after, ShouldHaveLength, 1)
			})
		})

		Convey("When exceeding the game bound", func() {
			bounded := repository.NewMemStore(repository.WithMaxGames(2))
			_, _ = bounded.ReplaceMarkers(ctx, "g1", markerSet("a", 1))
			_, _ = bounded.ReplaceMarkers(ctx, "g2", markerSet("b", 1))
			// Touch g1 so g2 becomes the eviction candidate.
			_, _ = bounded.Markers(ctx, "g1")
			_, _ = bounded.ReplaceMarkers(ctx, "g3", markerSet("c", 1))

			Convey("Then the least-recently-touched game is evicted", func() {
				So(bounded.GameCount(ctx), ShouldEqual, 2)
				_, err := bounded.Markers(ctx, "g2")
				So(errors.Is(err, repository.ErrGameNotFound), ShouldBeTrue)
				_, err = bounded.Markers(ctx, "g1")
				So(err, ShouldBeNil)
			})
		})

		Convey("When counting markers across games", func() {
			_, _ = store.ReplaceMarkers(ctx, "g1", markerSet("a", 3))
			_, _ = store.ReplaceMarkers(ctx, "g2", markerSet("b", 2))

			So(store.GameCount(ctx), ShouldEqual, 2)
			So(store.MarkerCount(ctx), ShouldEqual, 5)
		})
	})
}

func TestMemStoreSurfacesAndJobs(t *testing.T) {
	Convey("Given an empty store", t, func() {
		ctx := context.Background()
		store := repository.NewMemStore()

		Convey("When reading surfaces for an unfetched event", func() {
			_, fetched := store.Surfaces(ctx, "e1")

			Convey("Then the store reports it as unfetched", func() {
				So(fetched, ShouldBeFalse)
			})
		})

		Convey("When committing an empty surface list", func() {
			store.ReplaceSurfaces(ctx, "e1", nil)
			got, fetched := store.Surfaces(ctx, "e1")

			Convey("Then fetched-with-zero-surfaces is distinguishable", func() {
				So(fetched, ShouldBeTrue)
				So(got, ShouldBeEmpty)
			})
		})

		Convey("When committing surfaces", func() {
			store.ReplaceSurfaces(ctx, "e1", []model.AnalysisSurface{
				{ID: "s1", EventID: "e1", Persona: "referee"},
			})
			got, fetched := store.Surfaces(ctx, "e1")

			So(fetched, ShouldBeTrue)
			So(got, ShouldHaveLength, 1)
			So(got[0].ID, ShouldEqual, "s1")
		})

		Convey("When committing a job snapshot", func() {
			store.ReplaceJobs(ctx, []model.IngestionJob{
				{ID: "j1", GameID: "g1", Status: model.JobProcessing},
			})
			jobs := store.Jobs(ctx)

			So(jobs, ShouldHaveLength, 1)
			So(jobs[0].Status, ShouldEqual, model.JobProcessing)

			Convey("And a later snapshot fully replaces it", func() {
				store.ReplaceJobs(ctx, nil)
				So(store.Jobs(ctx), ShouldBeEmpty)
			})
		})
	})
}
