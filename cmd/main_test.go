package main

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/okian/addressbook/internal/adapters/http/site"
	app "github.com/okian/addressbook/internal/app"
	"github.com/okian/addressbook/internal/config"
	"github.com/okian/addressbook/pkg/logger"
	"github.com/okian/addressbook/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	_ = logger.SetLevelString("error")
}

func TestMainConfiguration(t *testing.T) {
	convey.Convey("Given PORT and prefixed variables in the environment", t, func() {
		t.Setenv("PORT", "8081")
		t.Setenv("ADDRESSBOOK_LOG_FORMAT", "json")

		convey.Convey("Then configuration should be loadable", func() {
			cfg, err := config.Load(context.Background())
			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.Addr(), convey.ShouldEqual, ":8081")
			convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
		})
	})
}

func TestMainHandler(t *testing.T) {
	convey.Convey("Given the fully wired handler behind a test server", t, func() {
		ctx := context.Background()
		svc := app.New()
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()

		handler, err := newHandler(ctx, config.New(), svc)
		convey.So(err, convey.ShouldBeNil)
		ts := httptest.NewServer(handler)
		defer ts.Close()

		convey.Convey("When creating and reading a contact over HTTP", func() {
			resp, err := http.Post(ts.URL+"/api/contacts", "application/json", strings.NewReader(`{"name":"Ana"}`))
			convey.So(err, convey.ShouldBeNil)
			defer resp.Body.Close()
			convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusCreated)

			get, err := http.Get(ts.URL + "/api/contacts/1")
			convey.So(err, convey.ShouldBeNil)
			defer get.Body.Close()

			convey.Convey("Then the stored contact is returned", func() {
				var c map[string]any
				convey.So(json.NewDecoder(get.Body).Decode(&c), convey.ShouldBeNil)
				convey.So(c, convey.ShouldResemble, map[string]any{"id": "1", "name": "Ana"})
			})
		})

		convey.Convey("When requesting the docs, metrics and the site", func() {
			convey.Convey("Then every surface answers", func() {
				for _, path := range []string{"/", "/api", "/api-docs", "/openapi.yaml", "/healthz", "/stats"} {
					resp, err := http.Get(ts.URL + path)
					convey.So(err, convey.ShouldBeNil)
					_ = resp.Body.Close()
					convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
					convey.So(resp.Header.Get("X-Request-Id"), convey.ShouldNotBeEmpty)
				}
			})
		})

		convey.Convey("When requesting an unknown path", func() {
			resp, err := http.Get(ts.URL + "/nope")
			convey.So(err, convey.ShouldBeNil)
			_ = resp.Body.Close()

			convey.Convey("Then 404 is returned", func() {
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusNotFound)
			})
		})

		convey.Convey("When a known path is called with an unrouted method", func() {
			convey.Convey("Then the site answers 404 rather than 405", func() {
				for _, path := range []string{"/api", "/api/contacts/1", "/api-docs"} {
					resp, err := http.Post(ts.URL+path, "application/json", strings.NewReader(`{}`))
					convey.So(err, convey.ShouldBeNil)
					_ = resp.Body.Close()
					convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusNotFound)
				}
			})
		})

		convey.Convey("When the API path is spelled loosely", func() {
			resp, err := http.Get(ts.URL + "/API/contacts/")
			convey.So(err, convey.ShouldBeNil)
			_ = resp.Body.Close()

			convey.Convey("Then the contact list is served", func() {
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
			})
		})
	})

	convey.Convey("Given a static directory that does not exist", t, func() {
		cfg := config.New()
		cfg.StaticDir = filepath.Join(t.TempDir(), "missing")

		convey.Convey("Then the handler cannot be built", func() {
			_, err := newHandler(context.Background(), cfg, app.New())
			convey.So(errors.Is(err, site.ErrStaticDir), convey.ShouldBeTrue)
		})
	})
}

func TestMainRun(t *testing.T) {
	convey.Convey("Given a server on an ephemeral port", t, func() {
		cfg := config.New()
		cfg.Host = "127.0.0.1"
		cfg.Port = 0

		convey.Convey("When the context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan error, 1)
			go func() { done <- run(ctx, cfg) }()

			time.Sleep(50 * time.Millisecond)
			cancel()

			convey.Convey("Then run shuts down cleanly", func() {
				select {
				case err := <-done:
					convey.So(err, convey.ShouldBeNil)
				case <-time.After(5 * time.Second):
					t.Fatal("run did not return after cancel")
				}
			})
		})
	})

	convey.Convey("Given a port that is already taken", t, func() {
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		convey.So(err, convey.ShouldBeNil)
		defer ln.Close()

		cfg := config.New()
		cfg.Host = "127.0.0.1"
		cfg.Port = ln.Addr().(*net.TCPAddr).Port

		convey.Convey("Then run reports the listen error", func() {
			err := run(context.Background(), cfg)
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(err.Error(), convey.ShouldContainSubstring, "listen on")
		})
	})
}

func TestMainApplicationComponents(t *testing.T) {
	convey.Convey("Given main application components", t, func() {
		convey.Convey("When testing system metrics updater", func() {
			convey.Convey("Then it should return once the context ends", func() {
				ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
				defer cancel()

				convey.So(func() {
					startSystemMetricsUpdater(ctx)
				}, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When testing service metrics updater", func() {
			svc := app.New()

			convey.Convey("Then it should return once the context ends", func() {
				ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
				defer cancel()

				convey.So(func() {
					startServiceMetricsUpdater(ctx, svc)
				}, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When testing system metrics update", func() {
			convey.Convey("Then it should update metrics without panicking", func() {
				convey.So(func() {
					updateSystemMetrics()
				}, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When updating service metrics for a started service", func() {
			svc := app.New()
			convey.So(svc.Start(context.Background()), convey.ShouldBeNil)
			defer svc.Stop()
			updateServiceMetrics(svc)

			convey.Convey("Then the next id gauge is published", func() {
				v, err := metrics.Value("addressbook_api_contacts_next_id", nil)
				convey.So(err, convey.ShouldBeNil)
				convey.So(v, convey.ShouldBeGreaterThanOrEqualTo, 1.0)
			})
		})

		convey.Convey("When creating a metrics manager on a private registry", func() {
			manager := metrics.NewManager(metrics.WithPrometheusRegistry(prometheus.NewRegistry()))

			convey.Convey("Then it is usable", func() {
				convey.So(manager, convey.ShouldNotBeNil)
			})
		})
	})
}
