package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options on a private registry", func() {
			manager := NewManager(WithPrometheusRegistry(prometheus.NewRegistry()))

			Convey("Then defaults are applied", func() {
				So(manager, ShouldNotBeNil)
				So(manager.Enabled(), ShouldBeTrue)
				So(manager.RefreshInterval(), ShouldEqual, defaultRefreshInterval)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test_namespace"),
				WithSubsystem("test_subsystem"),
				WithMetricPrefix("pfx_"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithMetricsEnabled(false),
				WithRefreshInterval(3*time.Second),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)
			manager.contactsTotal.Set(7)

			Convey("Then metric names and labels reflect the options", func() {
				So(manager.Enabled(), ShouldBeFalse)
				So(manager.RefreshInterval(), ShouldEqual, 3*time.Second)

				families, err := registry.Gather()
				So(err, ShouldBeNil)
				var found bool
				for _, mf := range families {
					if mf.GetName() == "test_namespace_test_subsystem_pfx_contacts_total" {
						found = true
						So(mf.GetMetric()[0].GetGauge().GetValue(), ShouldEqual, 7.0)
						So(mf.GetMetric()[0].GetLabel()[0].GetName(), ShouldEqual, "env")
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When options receive empty values", func() {
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithMetricPrefix(""),
				WithHistogramBuckets(nil),
				WithRefreshInterval(-1*time.Second),
				WithCustomLabels(nil),
				WithPrometheusRegistry(prometheus.NewRegistry()),
			)

			Convey("Then defaults are kept", func() {
				So(manager.namespace, ShouldEqual, "addressbook")
				So(manager.subsystem, ShouldEqual, "api")
				So(manager.histogramBuckets, ShouldResemble, prometheus.DefBuckets)
				So(manager.RefreshInterval(), ShouldEqual, defaultRefreshInterval)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording contact operations", func() {
			// vec families are only gathered once a child exists
			RecordContactOperation("create", "ok")
			before, err := Value("addressbook_api_contact_operations_total", map[string]string{"operation": "create", "outcome": "ok"})
			So(err, ShouldBeNil)

			RecordContactOperation("create", "ok")
			RecordContactOperation("create", "ok")
			RecordContactOperation("get", "not_found")

			Convey("Then the counter grows by the recorded amount", func() {
				after, err := Value("addressbook_api_contact_operations_total", map[string]string{"operation": "create", "outcome": "ok"})
				So(err, ShouldBeNil)
				So(after-before, ShouldEqual, 2.0)
			})
		})

		Convey("When setting gauges", func() {
			UpdateContactsTotal(3)
			UpdateContactsNextID(4)

			Convey("Then the latest value is exposed", func() {
				total, err := Value("addressbook_api_contacts_total", nil)
				So(err, ShouldBeNil)
				So(total, ShouldEqual, 3.0)

				next, err := Value("addressbook_api_contacts_next_id", nil)
				So(err, ShouldBeNil)
				So(next, ShouldEqual, 4.0)
			})
		})

		Convey("When recording HTTP, error and system metrics", func() {
			So(func() {
				RecordHTTPRequest("/api/contacts", "GET", "200")
				RecordHTTPRequestDuration("/api/contacts", "GET", "200", 1.5)
				RecordHTTPPanic()
				RecordStoreLatency("list", 0.01)
				RecordInterestCalculation("number")
				RecordInterestCalculation("nan")
				RecordUserEcho()
				RecordErrorByComponent("http", "not_found")
				RecordErrorByType("not_found", "medium")
				RecordErrorByEndpoint("/api/contacts/{id}", "GET", "not_found")
				RecordErrorLatency("http", "not_found", 0.2)
				UpdateSystemMemoryUsage(1024 * 1024)
				UpdateSystemGoroutineCount(12)
				RecordSystemGCPauseTime(0.3)
				UpdateUptime(90 * time.Second)
			}, ShouldNotPanic)

			Convey("Then histogram sample counts are observable", func() {
				count, err := Value("addressbook_api_http_request_duration_milliseconds", map[string]string{"endpoint": "/api/contacts"})
				So(err, ShouldBeNil)
				So(count, ShouldBeGreaterThanOrEqualTo, 1.0)
			})
		})

		Convey("When asking for an unknown metric", func() {
			_, err := Value("addressbook_api_nope", nil)

			Convey("Then ErrObserveFailed is returned", func() {
				So(errors.Is(err, ErrObserveFailed), ShouldBeTrue)
			})
		})
	})
}

func TestMetricsConcurrency(t *testing.T) {
	Convey("Given metrics recorded from many goroutines", t, func() {
		done := make(chan bool, 10)
		for i := 0; i < 10; i++ {
			go func() {
				for j := 0; j < 100; j++ {
					RecordContactOperation("list", "ok")
					UpdateContactsTotal(j)
					RecordHTTPRequest("/api", "GET", "200")
				}
				done <- true
			}()
		}
		for i := 0; i < 10; i++ {
			<-done
		}

		Convey("Then no panics occurred", func() {
			So(true, ShouldBeTrue)
		})
	})
}
