package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsOptions(t *testing.T) {
	Convey("Given metrics options", t, func() {
		Convey("When creating options", func() {
			namespaceOpt := WithNamespace("test-namespace")
			subsystemOpt := WithSubsystem("test-subsystem")
			metricPrefixOpt := WithMetricPrefix("test-prefix")
			histogramBucketsOpt := WithHistogramBuckets([]float64{0.1, 0.5, 1.0})
			metricsEnabledOpt := WithMetricsEnabled(true)
			refreshIntervalOpt := WithRefreshInterval(5 * time.Second)
			customLabelsOpt := WithCustomLabels(map[string]string{"env": "test"})

			Convey("Then they should be valid functions", func() {
				So(namespaceOpt, ShouldNotBeNil)
				So(subsystemOpt, ShouldNotBeNil)
				So(metricPrefixOpt, ShouldNotBeNil)
				So(histogramBucketsOpt, ShouldNotBeNil)
				So(metricsEnabledOpt, ShouldNotBeNil)
				So(refreshIntervalOpt, ShouldNotBeNil)
				So(customLabelsOpt, ShouldNotBeNil)
			})
		})
	})
}

func TestManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
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
				WithMetricPrefix("test-prefix"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithMetricsEnabled(true),
				WithRefreshInterval(10*time.Second),
				WithCustomLabels(map[string]string{"env": "test", "version": "1.0"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given metrics recording", t, func() {
		Convey("When recording ingestion metrics", func() {
			Convey("Then it should record sample counters", func() {
				So(func() {
					RecordSampleIngested()
					RecordSampleDuplicate()
					RecordSampleAccepted()
					RecordSampleRejected()
				}, ShouldNotPanic)
			})

			Convey("And it should record confidence scores", func() {
				So(func() {
					RecordConfidenceScore(0.1)
					RecordConfidenceScore(0.57)
					RecordConfidenceScore(0.955)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording decision metrics", func() {
			Convey("Then it should record decisions by mode", func() {
				So(func() {
					RecordDecision("NONE")
					RecordDecision("RECORDED")
					RecordDecision("AGED")
				}, ShouldNotPanic)
			})

			Convey("And it should record fallbacks by reason", func() {
				So(func() {
					RecordFallback("missing_base_age_fallback_recorded")
					RecordFallback("delta_dim_mismatch_fallback_recorded")
				}, ShouldNotPanic)
			})

			Convey("And it should record decision latency", func() {
				So(func() {
					RecordDecisionLatency(1.0)
					RecordDecisionLatency(12.5)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording HTTP metrics", func() {
			So(func() {
				RecordHTTPRequest("samples", "POST", "202")
				RecordHTTPRequestDuration("samples", "POST", "202", 3.2)
				RecordErrorByEndpoint("playback", "GET", "client_error")
			}, ShouldNotPanic)
		})

		Convey("When updating gauges", func() {
			So(func() {
				UpdateQueueSize(42)
				UpdateQueueCapacity(10000)
				UpdateQueueUtilization(0.0042)
				UpdateWorkerCount(8)
				UpdateTotalUsers(100)
				UpdateTotalVersions(450)
				UpdateSystemMemoryUsage(1 << 20)
				UpdateSystemGoroutineCount(32)
			}, ShouldNotPanic)
		})

		Convey("When recording storage metrics", func() {
			So(func() {
				RecordRegistryReadLatency(0.5)
				RecordRegistryWriteLatency(1.5)
				RecordRegistryError()
			}, ShouldNotPanic)
		})
	})
}

func TestGetRegistry(t *testing.T) {
	Convey("Given the global registry", t, func() {
		Convey("When fetching it", func() {
			registry := GetRegistry()

			Convey("Then it should gather the service metrics", func() {
				So(registry, ShouldNotBeNil)
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
			})
		})
	})
}
