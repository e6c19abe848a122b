package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsOptions(t *testing.T) {
	Convey("Given metrics options", t, func() {
		Convey("When creating options", func() {
			namespaceOpt := WithNamespace("test-namespace")
			subsystemOpt := WithSubsystem("test-subsystem")
			histogramBucketsOpt := WithHistogramBuckets([]float64{0.1, 0.5, 1.0})
			registryOpt := WithPrometheusRegistry(prometheus.NewRegistry())

			Convey("Then they should be valid functions", func() {
				So(namespaceOpt, ShouldNotBeNil)
				So(subsystemOpt, ShouldNotBeNil)
				So(histogramBucketsOpt, ShouldNotBeNil)
				So(registryOpt, ShouldNotBeNil)
			})
		})
	})
}

func TestManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a fresh registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test-namespace"),
				WithSubsystem("test-subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with nil histogram buckets", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithHistogramBuckets(nil), WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given metrics recording", t, func() {
		Convey("When recording tracker metrics", func() {
			Convey("Then it should record new spots", func() {
				So(func() {
					RecordNewTop50Spot()
					RecordNewTop8Spot()
					RecordRankImprovement()
				}, ShouldNotPanic)
			})

			Convey("And it should record consumed activities", func() {
				So(func() {
					RecordActivitiesSeen(0)
					RecordActivitiesSeen(51)
				}, ShouldNotPanic)
			})

			Convey("And it should record baseline fetches", func() {
				So(func() {
					RecordBaselineFetch()
					RecordBaselineFetch()
				}, ShouldNotPanic)
			})
		})

		Convey("When recording poll cycle metrics", func() {
			Convey("Then it should record cycles and failures", func() {
				So(func() {
					RecordPollCycle()
					RecordPollFailure()
					RecordPollDuration(12.5)
					RecordPollDuration(0.0)
				}, ShouldNotPanic)
			})
		})

		Convey("When updating state gauges", func() {
			Convey("Then it should accept any values", func() {
				So(func() {
					UpdateTrackedTitles(3, 1)
					UpdateTrackedTitles(0, 0)
					UpdateLifetimeTotals(101, 21)
					UpdateRunCount(1)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording upstream API metrics", func() {
			Convey("Then it should record requests with labels", func() {
				So(func() {
					RecordAPIRequest("recent_activity", "200")
					RecordAPIRequest("get_scores", "429")
					RecordAPIRequestDuration("recent_activity", 85.0)
					RecordAPIRequestDuration("", 0.0)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording store and HTTP metrics", func() {
			Convey("Then it should record errors and requests", func() {
				So(func() {
					RecordStoreError()
					RecordHTTPRequest("/healthz", "GET", "200")
					RecordHTTPRequest("/status", "GET", "503")
					RecordHTTPRequestDuration("/status", "GET", "200", 2.5)
				}, ShouldNotPanic)
			})
		})
	})
}

func TestMetricsConcurrency(t *testing.T) {
	Convey("Given metrics concurrency", t, func() {
		Convey("When recording metrics concurrently", func() {
			done := make(chan bool, 10)

			for i := 0; i < 10; i++ {
				go func() {
					for j := 0; j < 100; j++ {
						RecordNewTop50Spot()
						RecordActivitiesSeen(1)
						RecordPollDuration(float64(j))
						RecordAPIRequest("recent_activity", "200")
					}
					done <- true
				}()
			}

			for i := 0; i < 10; i++ {
				<-done
			}

			Convey("Then it should handle concurrent access without panics", func() {
				So(true, ShouldBeTrue) // If we get here, no panics occurred
			})
		})
	})
}

func TestRegistryExposure(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When the registry is requested", func() {
			registry := GetRegistry()

			Convey("Then the backing registry is returned", func() {
				So(registry, ShouldNotBeNil)
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
			})
		})
	})
}
