package service_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	service "capsight/internal/app"
	"capsight/internal/domain/schema"
	"capsight/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

const sampleJSON = `[
	{"period_start":"2025-09-01","period_end":"2025-09-30","domain":"Awareness","band":"emerging","count":10,"context_tag":"education"},
	{"period_start":"2025-09-01","period_end":"2025-09-30","domain":"Awareness","band":"embedded","count":5,"context_tag":"policy"},
	{"period_start":"2025-10-01","period_end":"2025-10-31","domain":"Ethics, Equity & Impact","band":"developing","count":7,"context_tag":"education"}
]`

func newStartedService(t *testing.T) *service.Service {
	t.Helper()
	svc := service.New(service.WithNotesDir(t.TempDir()))
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("failed to start service: %v", err)
	}
	return svc
}

func TestServiceLifecycle(t *testing.T) {
	convey.Convey("Given a new service", t, func() {
		ctx := context.Background()
		svc := service.New(service.WithNotesDir(t.TempDir()))

		convey.Convey("When started", func() {
			err := svc.Start(ctx)

			convey.Convey("Then it starts cleanly and reports no dataset", func() {
				convey.So(err, convey.ShouldBeNil)
				_, err := svc.Dataset(ctx)
				convey.So(errors.Is(err, service.ErrNoDataset), convey.ShouldBeTrue)
				convey.So(svc.Notes(), convey.ShouldNotBeNil)
			})

			convey.Convey("Then starting again is a no-op", func() {
				convey.So(svc.Start(ctx), convey.ShouldBeNil)
			})

			svc.Stop()
		})
	})
}

func TestServiceLoadDataset(t *testing.T) {
	convey.Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := newStartedService(t)
		defer svc.Stop()

		convey.Convey("When loading a valid JSON dataset", func() {
			ds, err := svc.LoadDataset(ctx, "upload.json", []byte(sampleJSON))

			convey.Convey("Then the dataset replaces any prior state", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(ds.ID, convey.ShouldNotBeEmpty)
				convey.So(ds.SourceName, convey.ShouldEqual, "upload.json")
				convey.So(len(ds.Rows), convey.ShouldEqual, 3)
			})

			convey.Convey("Then the summary reflects the rows", func() {
				summary, err := svc.Summary(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(summary.Dataset.TotalCount, convey.ShouldEqual, 22.0)
				convey.So(len(summary.Dataset.Periods), convey.ShouldEqual, 2)
				convey.So(summary.Dataset.Contexts, convey.ShouldResemble, []string{"education", "policy"})
				convey.So(summary.Label, convey.ShouldEqual, "N = 22 · Periods = 2 · Aggregated · No identifiers")
			})

			convey.Convey("Then the view resets to defaults", func() {
				view := svc.View(ctx)
				convey.So(view.Mode, convey.ShouldEqual, service.ModeOverview)
				convey.So(view.Interpretation, convey.ShouldEqual, service.InterpretationDescriptive)
				convey.So(view.Context, convey.ShouldBeEmpty)
			})
		})

		convey.Convey("When loading an invalid dataset after a valid one", func() {
			_, err := svc.LoadDataset(ctx, "upload.json", []byte(sampleJSON))
			convey.So(err, convey.ShouldBeNil)

			_, err = svc.LoadDataset(ctx, "bad.json", []byte(`{"schema_version":"2.0","rows":[]}`))

			convey.Convey("Then the load fails and the prior dataset is cleared", func() {
				convey.So(err, convey.ShouldNotBeNil)
				_, err := svc.Dataset(ctx)
				convey.So(errors.Is(err, service.ErrNoDataset), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the upload exceeds the size cap", func() {
			capped := service.New(
				service.WithNotesDir(t.TempDir()),
				service.WithMaxUploadBytes(8),
			)
			convey.So(capped.Start(ctx), convey.ShouldBeNil)
			defer capped.Stop()

			_, err := capped.LoadDataset(ctx, "upload.json", []byte(sampleJSON))

			convey.Convey("Then the load is rejected", func() {
				convey.So(errors.Is(err, service.ErrUploadTooLarge), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When clearing the dataset", func() {
			_, err := svc.LoadDataset(ctx, "upload.json", []byte(sampleJSON))
			convey.So(err, convey.ShouldBeNil)

			svc.ClearDataset(ctx)

			convey.Convey("Then reads report no dataset", func() {
				_, err := svc.Summary(ctx)
				convey.So(errors.Is(err, service.ErrNoDataset), convey.ShouldBeTrue)
			})
		})
	})
}

func TestServiceLoadDemo(t *testing.T) {
	convey.Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := newStartedService(t)
		defer svc.Stop()

		convey.Convey("When loading the baseline demo", func() {
			ds, err := svc.LoadDemo(ctx, "baseline")

			convey.Convey("Then rows and derived views are available", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(ds.SourceName, convey.ShouldEqual, "demo:baseline")
				convey.So(len(ds.Rows), convey.ShouldBeGreaterThan, 0)

				dists, err := svc.Distributions(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(len(dists), convey.ShouldEqual, len(schema.Domains()))

				series, err := svc.TrendSeries(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(len(series), convey.ShouldEqual, 2)
			})
		})

		convey.Convey("When loading the uneven demo", func() {
			_, err := svc.LoadDemo(ctx, "uneven")
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then at least one signal is derived", func() {
				signals, err := svc.Signals(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(len(signals), convey.ShouldBeGreaterThan, 0)
			})
		})

		convey.Convey("When requesting an unknown variant", func() {
			_, err := svc.LoadDemo(ctx, "spiral")

			convey.Convey("Then the load fails", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestServiceView(t *testing.T) {
	convey.Convey("Given a service with a loaded dataset", t, func() {
		ctx := context.Background()
		svc := newStartedService(t)
		defer svc.Stop()

		_, err := svc.LoadDataset(ctx, "upload.json", []byte(sampleJSON))
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("When setting a valid view with a known context", func() {
			err := svc.SetView(ctx, service.ViewState{
				Mode:           service.ModeSignals,
				Interpretation: service.InterpretationReflective,
				Context:        "education",
			})

			convey.Convey("Then the view is stored and filters reads", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(svc.View(ctx).Context, convey.ShouldEqual, "education")

				summary, err := svc.Summary(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(summary.Filtered.TotalCount, convey.ShouldEqual, 17.0)
				convey.So(summary.Dataset.TotalCount, convey.ShouldEqual, 22.0)
			})
		})

		convey.Convey("When setting an invalid mode", func() {
			err := svc.SetView(ctx, service.ViewState{
				Mode:           "gallery",
				Interpretation: service.InterpretationDescriptive,
			})

			convey.So(errors.Is(err, service.ErrInvalidViewMode), convey.ShouldBeTrue)
		})

		convey.Convey("When setting an invalid interpretation", func() {
			err := svc.SetView(ctx, service.ViewState{
				Mode:           service.ModeOverview,
				Interpretation: "narrative",
			})

			convey.So(errors.Is(err, service.ErrInvalidInterpretation), convey.ShouldBeTrue)
		})

		convey.Convey("When setting an unknown context", func() {
			err := svc.SetView(ctx, service.ViewState{
				Mode:           service.ModeOverview,
				Interpretation: service.InterpretationDescriptive,
				Context:        "finance",
			})

			convey.So(errors.Is(err, service.ErrUnknownContext), convey.ShouldBeTrue)
		})
	})
}

func TestServiceStats(t *testing.T) {
	convey.Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := newStartedService(t)
		defer svc.Stop()

		convey.Convey("When no dataset is loaded", func() {
			stats := svc.GetStats()

			convey.So(stats["started"], convey.ShouldBeTrue)
			convey.So(stats["hasDataset"], convey.ShouldBeFalse)
		})

		convey.Convey("When a dataset is loaded", func() {
			_, err := svc.LoadDataset(ctx, "upload.json", []byte(sampleJSON))
			convey.So(err, convey.ShouldBeNil)

			stats := svc.GetStats()

			convey.So(stats["hasDataset"], convey.ShouldBeTrue)
			convey.So(stats["rows"], convey.ShouldEqual, 3)
			convey.So(stats["periods"], convey.ShouldEqual, 2)
		})
	})
}
