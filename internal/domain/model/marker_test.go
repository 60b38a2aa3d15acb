package model_test

import (
	"testing"

	model "github.com/refsight/refsight/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestMarker(t *testing.T) {
	convey.Convey("Given an event marker", t, func() {
		conf := 0.92
		m := model.NewEventMarker(model.EventMarker{
			ID:         "e1",
			EventType:  model.EventFoul,
			Timestamp:  10,
			Confidence: &conf,
			HasClip:    true,
			Detail:     model.EventDetail{FoulType: "holding", Team: "home"},
		})

		convey.Convey("Then the union exposes the event variant", func() {
			convey.So(m.Kind, convey.ShouldEqual, model.KindEvent)
			convey.So(m.Event, convey.ShouldNotBeNil)
			convey.So(m.Clip, convey.ShouldBeNil)
			convey.So(m.ID(), convey.ShouldEqual, "e1")
			convey.So(m.Timestamp(), convey.ShouldEqual, 10.0)
			convey.So(m.Valid(), convey.ShouldBeTrue)
		})

		convey.Convey("When the timestamp is negative", func() {
			m.Event.Timestamp = -1

			convey.Convey("Then the marker is malformed", func() {
				convey.So(m.Valid(), convey.ShouldBeFalse)
			})
		})
	})

	convey.Convey("Given a clip marker", t, func() {
		m := model.NewClipMarker(model.ClipMarker{
			ID:            "c1",
			Start:         8,
			End:           12,
			Duration:      4,
			EventAnchorID: "e1",
		})

		convey.Convey("Then the union exposes the clip variant", func() {
			convey.So(m.Kind, convey.ShouldEqual, model.KindClip)
			convey.So(m.ID(), convey.ShouldEqual, "c1")
			convey.So(m.Timestamp(), convey.ShouldEqual, 8.0)
			convey.So(m.Valid(), convey.ShouldBeTrue)
		})

		convey.Convey("When start exceeds end", func() {
			m.Clip.Start = 13

			convey.Convey("Then the marker is malformed", func() {
				convey.So(m.Valid(), convey.ShouldBeFalse)
			})
		})
	})

	convey.Convey("Given a zero-value marker", t, func() {
		var m model.Marker

		convey.Convey("Then it is malformed and has no id", func() {
			convey.So(m.Valid(), convey.ShouldBeFalse)
			convey.So(m.ID(), convey.ShouldEqual, "")
			convey.So(m.Timestamp(), convey.ShouldEqual, 0.0)
		})
	})
}

func TestPersonas(t *testing.T) {
	convey.Convey("Given the persona tag set", t, func() {
		convey.Convey("Then all four personas are known", func() {
			convey.So(model.Personas(), convey.ShouldHaveLength, 4)
			for _, p := range model.Personas() {
				convey.So(model.KnownPersona(string(p)), convey.ShouldBeTrue)
			}
		})

		convey.Convey("Then matching ignores case and padding", func() {
			convey.So(model.KnownPersona(" Referee "), convey.ShouldBeTrue)
			convey.So(model.KnownPersona("COACH"), convey.ShouldBeTrue)
			convey.So(model.KnownPersona("broadcaster"), convey.ShouldBeFalse)
			convey.So(model.KnownPersona(""), convey.ShouldBeFalse)
		})
	})
}
