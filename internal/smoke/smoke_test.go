package smoke

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/addressbook/internal/adapters/http/api"
	service "github.com/okian/addressbook/internal/app"
	"github.com/okian/addressbook/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	_ = logger.SetLevelString("error")
}

// newServer starts the real API over a fresh service.
func newServer() (*httptest.Server, *service.Service) {
	svc := service.New()
	if err := svc.Start(context.Background()); err != nil {
		panic(err)
	}
	mux := http.NewServeMux()
	api.NewServer(svc, svc).Register(context.Background(), mux)
	return httptest.NewServer(api.Handler(mux)), svc
}

func TestRun(t *testing.T) {
	Convey("Given a running address book", t, func() {
		ts, svc := newServer()
		defer ts.Close()
		defer svc.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		Convey("When the smoke test runs with a burst", func() {
			cfg := &Config{BaseURL: ts.URL, Contacts: 200, Workers: 8, Timeout: 5 * time.Second}
			stats, err := Run(ctx, cfg)

			Convey("Then every scenario and the burst pass", func() {
				So(err, ShouldBeNil)
				So(stats.ScenariosPassed, ShouldEqual, 4)
				So(stats.BurstSuccessful, ShouldEqual, 200)
				So(stats.BurstFailed, ShouldEqual, 0)
				// Bo plus the burst; Ana was deleted
				So(svc.GetStats()["totalContacts"], ShouldEqual, 201)
			})
		})

		Convey("When the smoke test runs twice against the same server", func() {
			cfg := &Config{BaseURL: ts.URL, Contacts: 10, Workers: 2, Timeout: 5 * time.Second}
			_, err := Run(ctx, cfg)
			So(err, ShouldBeNil)
			_, err = Run(ctx, cfg)

			Convey("Then the second run does not depend on fresh ids", func() {
				So(err, ShouldBeNil)
			})
		})
	})
}

func TestRunFailures(t *testing.T) {
	Convey("Given a server that is unreachable", t, func() {
		ts := httptest.NewServer(http.NotFoundHandler())
		url := ts.URL
		ts.Close()

		Convey("Then the health check fails", func() {
			_, err := Run(context.Background(), &Config{BaseURL: url, Timeout: time.Second, Workers: 1})
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "health check")
		})
	})

	Convey("Given a server that reuses ids", t, func() {
		mux := http.NewServeMux()
		mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {})
		mux.HandleFunc("POST /api/contacts", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"message":"Contact created successfully","contact":{"id":"1","name":"Ana"}}`))
		})
		ts := httptest.NewServer(mux)
		defer ts.Close()

		Convey("Then the create scenario reports a verification error", func() {
			_, err := Run(context.Background(), &Config{BaseURL: ts.URL, Timeout: time.Second, Workers: 1})
			So(errors.Is(err, ErrVerification), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "create scenario")
		})
	})
}

func TestVerifyBurst(t *testing.T) {
	Convey("Given burst ids", t, func() {
		ts, svc := newServer()
		defer ts.Close()
		defer svc.Stop()
		client := newHTTPClient(ts.URL, time.Second)
		cfg := &Config{Contacts: 2}

		Convey("When an id repeats", func() {
			err := verifyBurst(context.Background(), client, cfg, "run", []string{"1", "1"}, 0)

			Convey("Then verification fails", func() {
				So(errors.Is(err, ErrVerification), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "assigned twice")
			})
		})

		Convey("When fewer creates succeeded than requested", func() {
			err := verifyBurst(context.Background(), client, cfg, "run", []string{"1"}, 0)

			Convey("Then verification fails", func() {
				So(errors.Is(err, ErrVerification), ShouldBeTrue)
			})
		})
	})
}

func TestSetupLogging(t *testing.T) {
	Convey("Given a log file path", t, func() {
		path := filepath.Join(t.TempDir(), "smoke.log")
		defer func() { _ = logger.Init(); _ = logger.SetLevelString("error") }()

		Convey("Then logging is set up", func() {
			So(SetupLogging(path, true), ShouldBeNil)
		})
	})

	Convey("Given a log file in a missing directory", t, func() {
		path := filepath.Join(t.TempDir(), "missing", "smoke.log")

		Convey("Then setup fails", func() {
			So(SetupLogging(path, false), ShouldNotBeNil)
		})
	})
}
