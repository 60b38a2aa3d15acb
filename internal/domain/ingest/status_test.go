package ingest_test

import (
	"testing"

	ingest "github.com/refsight/refsight/internal/domain/ingest"
	model "github.com/refsight/refsight/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestStatusTable(t *testing.T) {
	Convey("Given the status mapping table", t, func() {
		Convey("Then every pipeline status is mapped", func() {
			for _, s := range ingest.PipelineOrder() {
				So(ingest.Known(s), ShouldBeTrue)
				So(ingest.Stage(s), ShouldNotBeEmpty)
			}
		})

		Convey("Then the required progress values hold", func() {
			So(ingest.Progress(model.JobQueued), ShouldEqual, 0)
			So(ingest.Progress(model.JobDownloading), ShouldEqual, 20)
			So(ingest.Progress(model.JobUploading), ShouldEqual, 30)
			So(ingest.Progress(model.JobProcessing), ShouldEqual, 50)
			So(ingest.Progress(model.JobProcessingSkillDNA), ShouldEqual, 70)
			So(ingest.Progress(model.JobGeneratingClips), ShouldEqual, 85)
			So(ingest.Progress(model.JobCompleted), ShouldEqual, 100)
		})

		Convey("Then progress is monotonic in pipeline order except failed", func() {
			order := ingest.PipelineOrder()
			last := -1
			for _, s := range order {
				if s == model.JobFailed {
					continue
				}
				p := ingest.Progress(s)
				So(p, ShouldBeGreaterThanOrEqualTo, last)
				last = p
			}
		})

		Convey("Then failed reports zero, not the failure-point progress", func() {
			So(ingest.Progress(model.JobFailed), ShouldEqual, 0)
		})

		Convey("Then generating_clips carries the clip extraction stage text", func() {
			So(ingest.Stage(model.JobGeneratingClips), ShouldEqual, "Extracting video clips...")
		})

		Convey("Then unknown statuses degrade instead of crashing", func() {
			So(ingest.Progress(model.JobStatus("resharding")), ShouldEqual, 0)
			So(ingest.Stage(model.JobStatus("resharding")), ShouldEqual, "Unknown")
			So(ingest.Known(model.JobStatus("resharding")), ShouldBeFalse)
		})

		Convey("Then only completed and failed are terminal", func() {
			So(ingest.Terminal(model.JobCompleted), ShouldBeTrue)
			So(ingest.Terminal(model.JobFailed), ShouldBeTrue)
			So(ingest.Terminal(model.JobGeneratingClips), ShouldBeFalse)
			So(ingest.Terminal(model.JobQueued), ShouldBeFalse)
		})
	})
}
