package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	err := Init()
	if err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		if err := Sync(); err != nil {
			t.Errorf("failed to sync logger: %v", err)
		}
	}()

	if Get() == nil {
		t.Fatal("logger is nil after initialization")
	}

	Named("test").Info(context.Background(), "test message", String("k", "v"))
}

func TestLoggerJSONOutput(t *testing.T) {
	Convey("Given a logger writing JSON into a buffer", t, func() {
		var buf bytes.Buffer
		So(InitWithOptions(Options{Format: "json", Output: &buf}), ShouldBeNil)
		defer func() { _ = Init() }()

		ctx := context.Background()

		Convey("When logging with fields", func() {
			Get().Info(ctx, "contact created", String("id", "1"), Int("total", 3), Error(errors.New("boom")))

			var line map[string]any
			So(json.Unmarshal(buf.Bytes(), &line), ShouldBeNil)

			Convey("Then message, fields and source are present", func() {
				So(line["msg"], ShouldEqual, "contact created")
				So(line["id"], ShouldEqual, "1")
				So(line["total"], ShouldEqual, 3.0)
				So(line["error"], ShouldEqual, "boom")
				So(line["source"], ShouldContainSubstring, "logger_test.go")
			})
		})

		Convey("When the level is raised to warn", func() {
			So(SetLevelString("warn"), ShouldBeNil)
			Get().Info(ctx, "hidden")
			Get().Warn(ctx, "shown")

			Convey("Then only the warn line is written", func() {
				So(buf.String(), ShouldNotContainSubstring, "hidden")
				So(buf.String(), ShouldContainSubstring, "shown")
			})
		})

		Convey("When using a named logger", func() {
			Named("store").Info(ctx, "grouped", String("op", "create"))

			Convey("Then fields are nested under the name", func() {
				So(strings.Contains(buf.String(), `"store":{`), ShouldBeTrue)
			})
		})
	})
}

func TestLoggerOptions(t *testing.T) {
	Convey("Given logger options", t, func() {
		Convey("When the format is unknown", func() {
			err := InitWithOptions(Options{Format: "xml"})

			Convey("Then init fails", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "unknown log format")
			})
		})

		Convey("When parsing levels", func() {
			So(SetLevelString("debug"), ShouldBeNil)
			So(SetLevelString("WARNING"), ShouldBeNil)
			So(SetLevelString(""), ShouldBeNil)
			So(SetLevelString("verbose"), ShouldNotBeNil)
		})
	})
}
