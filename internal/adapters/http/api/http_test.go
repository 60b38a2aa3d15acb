package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/refsight/refsight/internal/adapters/http/api"
	"github.com/refsight/refsight/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

// mockDeps implements the full Dependencies bundle over in-memory state.
type mockDeps struct {
	selection   types.SelectionView
	filters     types.FilterView
	timeline    []types.TimelineEntry
	timelineErr error
	surfaces    map[string]types.SurfaceView
	analysisErr error
	jobs        []types.JobView
}

func (m *mockDeps) SelectGame(ctx context.Context, gameID string) types.SelectionView {
	m.selection = types.SelectionView{GameID: gameID}
	return m.selection
}

func (m *mockDeps) SelectEvent(ctx context.Context, eventID string) types.SelectionView {
	m.selection.SelectedEvent = eventID
	m.selection.SelectedClip = ""
	for _, e := range m.timeline {
		if e.ID == eventID && e.HasClip {
			m.selection.SelectedClip = "clip-" + eventID
		}
	}
	return m.selection
}

func (m *mockDeps) SelectClip(ctx context.Context, clipID string) types.SelectionView {
	m.selection.SelectedClip = clipID
	m.selection.ManualClip = clipID != ""
	return m.selection
}

func (m *mockDeps) Hover(ctx context.Context, eventID string) types.SelectionView {
	m.selection.HoveredEvent = eventID
	return m.selection
}

func (m *mockDeps) Selection(ctx context.Context) types.SelectionView {
	return m.selection
}

func (m *mockDeps) Timeline(ctx context.Context, limit int) ([]types.TimelineEntry, error) {
	if m.timelineErr != nil {
		return nil, m.timelineErr
	}
	if limit > 0 && limit < len(m.timeline) {
		return m.timeline[:limit], nil
	}
	return m.timeline, nil
}

func (m *mockDeps) ToggleEventType(ctx context.Context, eventType string) types.FilterView {
	m.filters.EventTypes = toggleValue(m.filters.EventTypes, eventType)
	return m.filters
}

func (m *mockDeps) ToggleFoulType(ctx context.Context, foulType string) types.FilterView {
	m.filters.FoulTypes = toggleValue(m.filters.FoulTypes, foulType)
	return m.filters
}

func (m *mockDeps) SetTimeRange(ctx context.Context, min, max float64) types.FilterView {
	m.filters.TimeMin = &min
	m.filters.TimeMax = &max
	return m.filters
}

func (m *mockDeps) SetMinConfidence(ctx context.Context, min float64) types.FilterView {
	m.filters.MinConfidence = &min
	return m.filters
}

func (m *mockDeps) ClearFilters(ctx context.Context) types.FilterView {
	m.filters = types.FilterView{}
	return m.filters
}

func (m *mockDeps) Filters(ctx context.Context) types.FilterView {
	return m.filters
}

func (m *mockDeps) Analysis(ctx context.Context, eventID, persona string) (types.SurfaceView, error) {
	if m.analysisErr != nil {
		return types.SurfaceView{}, m.analysisErr
	}
	if v, ok := m.surfaces[eventID]; ok {
		return v, nil
	}
	return types.SurfaceView{}, errors.New("analysis not found")
}

func (m *mockDeps) Jobs(ctx context.Context) []types.JobView {
	return m.jobs
}

func (m *mockDeps) GetStats() map[string]interface{} {
	return map[string]interface{}{"started": true}
}

func toggleValue(set []string, v string) []string {
	for i, s := range set {
		if s == v {
			return append(set[:i], set[i+1:]...)
		}
	}
	return append(set, v)
}

func newTestServer(deps *mockDeps) *httptest.Server {
	srv := api.NewServer(deps, deps, 100)
	mux := http.NewServeMux()
	srv.Register(context.Background(), mux)
	return httptest.NewServer(mux)
}

func postJSON(t *testing.T, url, body string) (*http.Response, []byte) {
	t.Helper()
	res, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer res.Body.Close()
	var buf [4096]byte
	n, _ := res.Body.Read(buf[:])
	return res, buf[:n]
}

func getJSON(t *testing.T, url string, v any) *http.Response {
	t.Helper()
	res, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer res.Body.Close()
	if v != nil {
		_ = json.NewDecoder(res.Body).Decode(v)
	}
	return res
}

func sampleTimeline() []types.TimelineEntry {
	c := 0.9
	return []types.TimelineEntry{
		{ID: "e1", EventType: "foul", Timestamp: 10, HasClip: true, Confidence: &c, FoulType: "tripping"},
		{ID: "e2", EventType: "goal", Timestamp: 40},
	}
}

func TestGameSelection(t *testing.T) {
	Convey("Given the API server", t, func() {
		deps := &mockDeps{timeline: sampleTimeline()}
		ts := newTestServer(deps)
		defer ts.Close()

		Convey("When selecting a game", func() {
			res, body := postJSON(t, ts.URL+"/games/select", `{"game_id": "g1"}`)

			Convey("Then the reset snapshot is returned", func() {
				So(res.StatusCode, ShouldEqual, http.StatusOK)
				var view types.SelectionView
				So(json.Unmarshal(body, &view), ShouldBeNil)
				So(view.GameID, ShouldEqual, "g1")
				So(view.SelectedEvent, ShouldBeEmpty)
			})
		})

		Convey("When the game id is missing", func() {
			res, _ := postJSON(t, ts.URL+"/games/select", `{}`)

			Convey("Then the request is rejected", func() {
				So(res.StatusCode, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the body is not JSON", func() {
			res, _ := postJSON(t, ts.URL+"/games/select", `{garbage`)

			Convey("Then the request is rejected", func() {
				So(res.StatusCode, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When using GET on a POST route", func() {
			res := getJSON(t, ts.URL+"/games/select", nil)

			Convey("Then it is not found", func() {
				So(res.StatusCode, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestTimelineEndpoint(t *testing.T) {
	Convey("Given the API server", t, func() {
		deps := &mockDeps{timeline: sampleTimeline()}
		ts := newTestServer(deps)
		defer ts.Close()

		Convey("When fetching the timeline", func() {
			var entries []types.TimelineEntry
			res := getJSON(t, ts.URL+"/timeline", &entries)

			Convey("Then all entries are returned", func() {
				So(res.StatusCode, ShouldEqual, http.StatusOK)
				So(entries, ShouldHaveLength, 2)
				So(entries[0].ID, ShouldEqual, "e1")
				So(entries[0].FoulType, ShouldEqual, "tripping")
			})
		})

		Convey("When limiting the timeline", func() {
			var entries []types.TimelineEntry
			res := getJSON(t, ts.URL+"/timeline?limit=1", &entries)

			Convey("Then only that many entries return", func() {
				So(res.StatusCode, ShouldEqual, http.StatusOK)
				So(entries, ShouldHaveLength, 1)
			})
		})

		Convey("When the limit is invalid", func() {
			res := getJSON(t, ts.URL+"/timeline?limit=zero", nil)
			So(res.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the limit exceeds the maximum", func() {
			res := getJSON(t, ts.URL+"/timeline?limit=101", nil)
			So(res.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the service fails", func() {
			deps.timelineErr = errors.New("boom")
			res := getJSON(t, ts.URL+"/timeline", nil)
			So(res.StatusCode, ShouldEqual, http.StatusInternalServerError)
		})
	})
}

func TestSelectionEndpoints(t *testing.T) {
	Convey("Given the API server", t, func() {
		deps := &mockDeps{timeline: sampleTimeline()}
		ts := newTestServer(deps)
		defer ts.Close()
		postJSON(t, ts.URL+"/games/select", `{"game_id": "g1"}`)

		Convey("When selecting an event with a clip", func() {
			res, body := postJSON(t, ts.URL+"/selection/event", `{"event_id": "e1"}`)

			Convey("Then the clip is in the same response", func() {
				So(res.StatusCode, ShouldEqual, http.StatusOK)
				var view types.SelectionView
				So(json.Unmarshal(body, &view), ShouldBeNil)
				So(view.SelectedEvent, ShouldEqual, "e1")
				So(view.SelectedClip, ShouldEqual, "clip-e1")
			})
		})

		Convey("When selecting a clip manually", func() {
			res, body := postJSON(t, ts.URL+"/selection/clip", `{"clip_id": "c9"}`)

			Convey("Then manual mode is flagged", func() {
				So(res.StatusCode, ShouldEqual, http.StatusOK)
				var view types.SelectionView
				So(json.Unmarshal(body, &view), ShouldBeNil)
				So(view.SelectedClip, ShouldEqual, "c9")
				So(view.ManualClip, ShouldBeTrue)
			})
		})

		Convey("When hovering an event", func() {
			res, body := postJSON(t, ts.URL+"/selection/hover", `{"event_id": "e2"}`)

			So(res.StatusCode, ShouldEqual, http.StatusOK)
			var view types.SelectionView
			So(json.Unmarshal(body, &view), ShouldBeNil)
			So(view.HoveredEvent, ShouldEqual, "e2")
		})

		Convey("When reading the selection", func() {
			postJSON(t, ts.URL+"/selection/event", `{"event_id": "e1"}`)
			var view types.SelectionView
			res := getJSON(t, ts.URL+"/selection", &view)

			So(res.StatusCode, ShouldEqual, http.StatusOK)
			So(view.SelectedEvent, ShouldEqual, "e1")
		})

		Convey("When using an unknown transition kind", func() {
			res, _ := postJSON(t, ts.URL+"/selection/teleport", `{}`)
			So(res.StatusCode, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestFilterEndpoints(t *testing.T) {
	Convey("Given the API server", t, func() {
		deps := &mockDeps{timeline: sampleTimeline()}
		ts := newTestServer(deps)
		defer ts.Close()

		Convey("When toggling an event type", func() {
			res, body := postJSON(t, ts.URL+"/filters/toggle", `{"axis": "event_type", "value": "foul"}`)

			Convey("Then the criteria include it", func() {
				So(res.StatusCode, ShouldEqual, http.StatusOK)
				var view types.FilterView
				So(json.Unmarshal(body, &view), ShouldBeNil)
				So(view.EventTypes, ShouldResemble, []string{"foul"})
			})

			Convey("And toggling again removes it", func() {
				_, body := postJSON(t, ts.URL+"/filters/toggle", `{"axis": "event_type", "value": "foul"}`)
				var view types.FilterView
				So(json.Unmarshal(body, &view), ShouldBeNil)
				So(view.EventTypes, ShouldBeEmpty)
			})
		})

		Convey("When setting a time range", func() {
			res, body := postJSON(t, ts.URL+"/filters/toggle", `{"axis": "time_range", "min": 10, "max": 50}`)

			So(res.StatusCode, ShouldEqual, http.StatusOK)
			var view types.FilterView
			So(json.Unmarshal(body, &view), ShouldBeNil)
			So(*view.TimeMin, ShouldEqual, 10)
			So(*view.TimeMax, ShouldEqual, 50)
		})

		Convey("When the range is inverted", func() {
			res, _ := postJSON(t, ts.URL+"/filters/toggle", `{"axis": "time_range", "min": 50, "max": 10}`)
			So(res.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the axis is unknown", func() {
			res, _ := postJSON(t, ts.URL+"/filters/toggle", `{"axis": "color", "value": "red"}`)
			So(res.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When clearing filters", func() {
			postJSON(t, ts.URL+"/filters/toggle", `{"axis": "event_type", "value": "foul"}`)
			req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/filters", nil)
			res, err := http.DefaultClient.Do(req)

			So(err, ShouldBeNil)
			defer res.Body.Close()
			So(res.StatusCode, ShouldEqual, http.StatusOK)
			var view types.FilterView
			_ = json.NewDecoder(res.Body).Decode(&view)
			So(view.EventTypes, ShouldBeEmpty)
		})

		Convey("When reading filters", func() {
			postJSON(t, ts.URL+"/filters/toggle", `{"axis": "foul_type", "value": "holding"}`)
			var view types.FilterView
			res := getJSON(t, ts.URL+"/filters", &view)

			So(res.StatusCode, ShouldEqual, http.StatusOK)
			So(view.FoulTypes, ShouldResemble, []string{"holding"})
		})
	})
}

func TestAnalysisEndpoint(t *testing.T) {
	Convey("Given the API server", t, func() {
		deps := &mockDeps{
			surfaces: map[string]types.SurfaceView{
				"e1": {ID: "s1", EventID: "e1", Persona: "referee", Exact: true},
			},
		}
		ts := newTestServer(deps)
		defer ts.Close()

		Convey("When requesting an event's analysis", func() {
			var view types.SurfaceView
			res := getJSON(t, ts.URL+"/events/e1/analysis?persona=referee", &view)

			Convey("Then the resolved surface is returned", func() {
				So(res.StatusCode, ShouldEqual, http.StatusOK)
				So(view.ID, ShouldEqual, "s1")
				So(view.Exact, ShouldBeTrue)
			})
		})

		Convey("When the event has no analysis", func() {
			res := getJSON(t, ts.URL+"/events/e9/analysis", nil)
			So(res.StatusCode, ShouldEqual, http.StatusNotFound)
		})

		Convey("When the upstream fails", func() {
			deps.analysisErr = errors.New("upstream fetch failed")
			res := getJSON(t, ts.URL+"/events/e1/analysis", nil)
			So(res.StatusCode, ShouldEqual, http.StatusBadGateway)
		})

		Convey("When the path is malformed", func() {
			res := getJSON(t, ts.URL+"/events/e1/details", nil)
			So(res.StatusCode, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestJobsEndpoint(t *testing.T) {
	Convey("Given the API server", t, func() {
		deps := &mockDeps{
			jobs: []types.JobView{
				{ID: "j1", GameID: "g1", Status: "generating_clips", Progress: 85, Stage: "Extracting video clips..."},
				{ID: "j2", GameID: "g2", Status: "failed", Progress: 0, Stage: "Failed"},
			},
		}
		ts := newTestServer(deps)
		defer ts.Close()

		Convey("When fetching jobs", func() {
			var views []types.JobView
			res := getJSON(t, ts.URL+"/jobs", &views)

			Convey("Then locally derived progress is served", func() {
				So(res.StatusCode, ShouldEqual, http.StatusOK)
				So(views, ShouldHaveLength, 2)
				So(views[0].Progress, ShouldEqual, 85)
				So(views[0].Stage, ShouldEqual, "Extracting video clips...")
				So(views[1].Progress, ShouldEqual, 0)
			})
		})
	})
}

func TestStatsAndHealth(t *testing.T) {
	Convey("Given the API server", t, func() {
		deps := &mockDeps{}
		ts := newTestServer(deps)
		defer ts.Close()

		Convey("When fetching stats", func() {
			var stats map[string]interface{}
			res := getJSON(t, ts.URL+"/stats", &stats)

			So(res.StatusCode, ShouldEqual, http.StatusOK)
			So(stats["started"], ShouldBeTrue)
		})

		Convey("When fetching health metrics", func() {
			res := getJSON(t, ts.URL+"/healthz", nil)
			So(res.StatusCode, ShouldEqual, http.StatusOK)
		})

		Convey("When fetching the dashboard", func() {
			res, err := http.Get(ts.URL + "/dashboard")
			So(err, ShouldBeNil)
			defer res.Body.Close()
			So(res.StatusCode, ShouldEqual, http.StatusOK)
			So(res.Header.Get("Content-Type"), ShouldContainSubstring, "text/html")
		})
	})
}
