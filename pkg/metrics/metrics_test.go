package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a private registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "screener")
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test_ns"),
				WithSubsystem("test_sub"),
				WithMetricPrefix("pre"),
				WithLatencyBuckets([]float64{0.1, 0.5, 1.0}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithRegistry(registry),
			)
			manager.sessionResets.Inc()

			families, err := registry.Gather()

			Convey("Then metric names carry namespace, subsystem and prefix", func() {
				So(err, ShouldBeNil)
				names := map[string]bool{}
				for _, f := range families {
					names[f.GetName()] = true
				}
				So(names["test_ns_test_sub_pre_session_resets_total"], ShouldBeTrue)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics", t, func() {
		Convey("When recording document outcomes", func() {
			before := testutil.ToFloat64(globalManager.documentsProcessed.WithLabelValues("ok"))
			RecordDocumentProcessed("ok")
			RecordDocumentProcessed("ok")

			Convey("Then the labelled counter advances", func() {
				after := testutil.ToFloat64(globalManager.documentsProcessed.WithLabelValues("ok"))
				So(after-before, ShouldEqual, 2)
			})
		})

		Convey("When recording a failed document", func() {
			okBefore := testutil.ToFloat64(globalManager.documentsProcessed.WithLabelValues("ok"))
			errBefore := testutil.ToFloat64(globalManager.documentsProcessed.WithLabelValues("error"))
			RecordDocumentProcessed("error")

			Convey("Then only the error label advances", func() {
				So(testutil.ToFloat64(globalManager.documentsProcessed.WithLabelValues("error"))-errBefore, ShouldEqual, 1)
				So(testutil.ToFloat64(globalManager.documentsProcessed.WithLabelValues("ok")), ShouldEqual, okBefore)
			})
		})

		Convey("When recording analytics degradation", func() {
			before := testutil.ToFloat64(globalManager.analyticsDegraded.WithLabelValues("projection"))
			RecordAnalyticsDegraded("projection")

			Convey("Then the step counter advances", func() {
				after := testutil.ToFloat64(globalManager.analyticsDegraded.WithLabelValues("projection"))
				So(after-before, ShouldEqual, 1)
			})
		})

		Convey("When updating gauges", func() {
			UpdateSessionsActive(7)
			UpdateQueueSize(3)
			UpdateWorkerCount(4)

			Convey("Then they hold the last value", func() {
				So(testutil.ToFloat64(globalManager.sessionsActive), ShouldEqual, 7)
				So(testutil.ToFloat64(globalManager.queueSize), ShouldEqual, 3)
				So(testutil.ToFloat64(globalManager.workerCount), ShouldEqual, 4)
			})
		})

		Convey("When recording the remaining series", func() {
			So(func() {
				RecordExtractionLatency(12)
				RecordExtractionError("timeout")
				RecordScoringLatency(3)
				RecordBatchSize(5)
				RecordSessionReset()
				RecordHTTPRequest("process", "POST", "200")
				RecordHTTPRequestDuration("process", "POST", "200", 9)
				UpdateQueueCapacity(10)
				UpdateQueueUtilization(0.3)
				RecordQueueEnqueue()
				RecordQueueDequeue()
				RecordQueueEnqueueError()
				RecordQueueProcessingLatency(1)
				UpdateWorkerMessagesPerSecond(2.5)
				RecordWorkerProcessingLatency(4)
				RecordWorkerError()
				RecordWorkerPanic()
				RecordErrorByComponent("worker", "extract")
				RecordErrorByType("extract", "medium")
				RecordErrorByEndpoint("process", "POST", "client_error")
				RecordErrorLatency("http", "client_error", 2)
				UpdateSystemMemoryUsage(1024)
				UpdateSystemGoroutineCount(12)
				RecordSystemGCPauseTime(0.2)
			}, ShouldNotPanic)
		})

		Convey("Then the registry is exposed", func() {
			So(GetRegistry(), ShouldNotBeNil)
		})
	})
}
