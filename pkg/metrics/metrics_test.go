package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	. "github.com/smartystreets/goconvey/convey"
)

func value(m prometheus.Metric) float64 {
	var out dto.Metric
	if err := m.Write(&out); err != nil {
		return -1
	}
	switch {
	case out.Counter != nil:
		return out.Counter.GetValue()
	case out.Gauge != nil:
		return out.Gauge.GetValue()
	}
	return -1
}

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it uses the service namespace", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "fortuna")
				So(manager.subsystem, ShouldEqual, "dashboard")
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test_namespace"),
				WithSubsystem("test_subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)
			manager.layoutRuns.WithLabelValues("scatter", "animated", "converged").Inc()

			Convey("Then metrics are registered under the custom names", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				var found bool
				for _, f := range families {
					if f.GetName() == "test_namespace_test_subsystem_layout_runs_total" {
						found = true
						So(f.GetMetric()[0].GetLabel()[0].GetName(), ShouldEqual, "env")
					}
				}
				So(found, ShouldBeTrue)
				So(manager.histogramBuckets, ShouldResemble, []float64{0.1, 0.5, 1.0})
			})
		})

		Convey("When options carry empty values", func() {
			manager := NewManager(WithNamespace(""), WithSubsystem(""), WithHistogramBuckets(nil), WithPrometheusRegistry(prometheus.NewRegistry()))

			Convey("Then the defaults are kept", func() {
				So(manager.namespace, ShouldEqual, "fortuna")
				So(len(manager.histogramBuckets), ShouldBeGreaterThan, 0)
			})
		})
	})
}

func TestGlobalRecorders(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording layout metrics", func() {
			before := value(globalManager.layoutRuns.WithLabelValues("industry", "batched", "converged"))
			RecordLayoutRun("industry", "batched", "converged")
			RecordLayoutTicks("industry", 120)
			RecordLayoutDuration("industry", "batched", 12.5)

			Convey("Then the run counter increases", func() {
				after := value(globalManager.layoutRuns.WithLabelValues("industry", "batched", "converged"))
				So(after-before, ShouldEqual, 1)
			})
		})

		Convey("When tracking animations and stream clients", func() {
			IncActiveAnimations()
			IncStreamClients()
			RecordStreamFrame()

			Convey("Then the gauges move symmetrically", func() {
				active := value(globalManager.activeAnimations)
				DecActiveAnimations()
				So(value(globalManager.activeAnimations), ShouldEqual, active-1)
				clients := value(globalManager.streamClients)
				DecStreamClients()
				So(value(globalManager.streamClients), ShouldEqual, clients-1)
			})
		})

		Convey("When recording dataset and store metrics", func() {
			RecordDatasetLoad("success", 42)
			UpdateDatasetRecords(2600)
			RecordDatasetRecordsClamped(2)
			UpdateRankStoreRecords(2600)
			RecordRankStoreUpdateLatency(0.01)
			RecordRankStoreQueryLatency(0.02)
			RecordAggregationLatency("industry", 1.5)

			Convey("Then the gauges hold the latest values", func() {
				So(value(globalManager.datasetRecords), ShouldEqual, 2600)
				So(value(globalManager.rankStoreRecords), ShouldEqual, 2600)
			})
		})

		Convey("When recording HTTP, error and system metrics", func() {
			RecordHTTPRequest("/api/views", "GET", "200")
			RecordHTTPRequestDuration("/api/views", "GET", "200", 3)
			RecordErrorByComponent("api", "not_found")
			RecordErrorByType("not_found", "low")
			RecordErrorByEndpoint("/api/rank", "GET", "not_found")
			UpdateSystemMemoryUsage(1024)
			UpdateSystemGoroutineCount(12)
			RecordSystemGCPauseTime(0.3)

			Convey("Then the registry exposes them", func() {
				families, err := GetRegistry().Gather()
				So(err, ShouldBeNil)
				var names []string
				for _, f := range families {
					names = append(names, f.GetName())
				}
				joined := strings.Join(names, ",")
				So(joined, ShouldContainSubstring, "fortuna_dashboard_http_requests_total")
				So(joined, ShouldContainSubstring, "fortuna_dashboard_errors_by_component_total")
				So(joined, ShouldContainSubstring, "fortuna_dashboard_system_goroutine_count")
			})
		})
	})
}
