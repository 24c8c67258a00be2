package site

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/addressbook/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func serve(mux *http.ServeMux, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestSiteHandler(t *testing.T) {
	Convey("Given the embedded site", t, func() {
		ctx := context.Background()
		mux := http.NewServeMux()
		So(Register(ctx, mux, ""), ShouldBeNil)

		Convey("Then / serves the index page", func() {
			w := serve(mux, "GET", "/")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldContainSubstring, "text/html")
			So(w.Body.String(), ShouldContainSubstring, "Address Book")
		})

		Convey("And unknown paths are 404", func() {
			So(serve(mux, "GET", "/some-asset").Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("And non-GET methods are 404", func() {
			So(serve(mux, "POST", "/").Code, ShouldEqual, http.StatusNotFound)
			So(serve(mux, "DELETE", "/index.html").Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestSiteHandlerWithDir(t *testing.T) {
	Convey("Given a static directory on disk", t, func() {
		dir := t.TempDir()
		So(os.WriteFile(filepath.Join(dir, "hello.txt"), []byte("hi"), 0o600), ShouldBeNil)

		mux := http.NewServeMux()
		So(Register(context.Background(), mux, dir), ShouldBeNil)

		Convey("Then its files are served", func() {
			w := serve(mux, "GET", "/hello.txt")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldEqual, "hi")
		})

		Convey("And the embedded page is not", func() {
			So(serve(mux, "GET", "/index.html").Code, ShouldEqual, http.StatusNotFound)
		})
	})

	Convey("Given a static directory that does not exist", t, func() {
		err := Register(context.Background(), http.NewServeMux(), filepath.Join(t.TempDir(), "missing"))

		Convey("Then registration fails", func() {
			So(errors.Is(err, ErrStaticDir), ShouldBeTrue)
		})
	})

	Convey("Given a file instead of a directory", t, func() {
		file := filepath.Join(t.TempDir(), "file")
		So(os.WriteFile(file, nil, 0o600), ShouldBeNil)
		err := Register(context.Background(), http.NewServeMux(), file)

		Convey("Then registration fails", func() {
			So(errors.Is(err, ErrStaticDir), ShouldBeTrue)
		})
	})
}

func TestSiteHandlerWithNilMux(t *testing.T) {
	Convey("Given a nil mux", t, func() {
		Convey("Then registering panics", func() {
			So(func() {
				_ = Register(context.Background(), nil, "")
			}, ShouldPanic)
		})
	})
}
