package probe

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/fortuna/internal/adapters/http/api"
	service "github.com/okian/fortuna/internal/app"
	"github.com/okian/fortuna/internal/domain/force"
	"github.com/okian/fortuna/internal/domain/model"
	"github.com/okian/fortuna/pkg/logger"
)

func person(name, industry, country string, worth float64, selfMade bool, age, year int) model.Billionaire {
	return model.Billionaire{
		Name:        name,
		Industry:    industry,
		Citizenship: country,
		NetWorth:    worth,
		IsSelfMade:  selfMade,
		Age:         model.IntPtr(age),
		Year:        model.IntPtr(year),
	}
}

func liveServer() (*httptest.Server, func()) {
	svc := service.New(
		service.WithRecords([]model.Billionaire{
			person("Ann", "Tech", "United States", 5, true, 40, 2000),
			person("Ben", "Tech", "USA", 3, true, 55, 2000),
			person("Cal", "Finance", "Germany", 10, false, 70, 2000),
			person("Ann", "Tech", "United States", 8, true, 41, 2001),
			person("Dee", "Fashion", "France", 12, false, 62, 2001),
		}),
		service.WithLogger(logger.Nop()),
		service.WithSimulationOptions(force.WithMaxTicks(20)),
		service.WithFrameInterval(time.Millisecond),
	)
	if err := svc.Start(context.Background()); err != nil {
		panic(err)
	}
	mux := http.NewServeMux()
	api.NewServer(svc, svc).Register(context.Background(), mux)
	srv := httptest.NewServer(mux)
	return srv, func() {
		srv.Close()
		svc.Stop()
	}
}

func probeConfig(base string) *Config {
	return &Config{BaseURL: base, TopN: 10, Workers: 3, Timeout: 5 * time.Second, Stream: true, Logger: logger.Nop()}
}

func TestRun(t *testing.T) {
	Convey("Given a running fortuna server", t, func() {
		srv, stop := liveServer()
		defer stop()

		Convey("When probing it", func() {
			stats, err := Run(context.Background(), probeConfig(srv.URL))

			Convey("Then every check passes", func() {
				So(err, ShouldBeNil)
				So(stats.ViewsListed, ShouldEqual, 7)
				So(stats.LayoutsOK, ShouldEqual, 5)
				So(stats.LayoutsFailed, ShouldEqual, 0)
				So(stats.RanksChecked, ShouldEqual, 4)
				So(stats.RankMismatches, ShouldEqual, 0)
				So(stats.StreamFrames, ShouldEqual, 20)
				So(stats.Duration, ShouldBeGreaterThan, 0)
			})
		})
	})

	Convey("Given an unhealthy server", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		_, err := Run(context.Background(), probeConfig(srv.URL))

		So(errors.Is(err, ErrUnhealthy), ShouldBeTrue)
	})

	Convey("Given a server whose rich list disagrees with rank lookups", t, func() {
		mux := http.NewServeMux()
		mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {})
		mux.HandleFunc("GET /api/views", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`[{"id":"map","layout":false}]`))
		})
		mux.HandleFunc("GET /api/richest", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`[{"rank":1,"name":"Ann","netWorth":9},{"rank":2,"name":"Ben","netWorth":4}]`))
		})
		mux.HandleFunc("GET /api/rank/{name}", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"rank":3}`))
		})
		mux.HandleFunc("GET /api/map", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`[{"key":"France","share":100}]`))
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		cfg := probeConfig(srv.URL)
		cfg.Stream = false
		stats, err := Run(context.Background(), cfg)

		So(errors.Is(err, ErrInconsistent), ShouldBeTrue)
		So(stats.RankMismatches, ShouldEqual, 2)
	})
}

func TestVerification(t *testing.T) {
	Convey("Given rich list checks", t, func() {
		Convey("Dense ranks in worth order pass", func() {
			So(verifyRichList([]entry{
				{Rank: 1, NetWorth: 9}, {Rank: 2, NetWorth: 4}, {Rank: 2, NetWorth: 4}, {Rank: 3, NetWorth: 1},
			}), ShouldBeNil)
			So(verifyRichList(nil), ShouldBeNil)
		})

		Convey("Disorder, gaps and split ties fail", func() {
			cases := [][]entry{
				{{Rank: 2, NetWorth: 9}},
				{{Rank: 1, NetWorth: 1}, {Rank: 2, NetWorth: 9}},
				{{Rank: 1, NetWorth: 9}, {Rank: 3, NetWorth: 4}},
				{{Rank: 1, NetWorth: 9}, {Rank: 2, NetWorth: 9}},
			}
			for _, c := range cases {
				So(errors.Is(verifyRichList(c), ErrInconsistent), ShouldBeTrue)
			}
		})
	})

	Convey("Given share checks", t, func() {
		So(verifyShares([]share{{Share: 60}, {Share: 40}}), ShouldBeNil)
		So(verifyShares(nil), ShouldBeNil)
		So(errors.Is(verifyShares([]share{{Share: 60}}), ErrInconsistent), ShouldBeTrue)
	})

	Convey("Given layout checks", t, func() {
		So(verifyLayout(layout{State: "converged", Bubbles: []bubble{{X: 1, Y: 2, R: 3}}}), ShouldBeNil)
		So(verifyLayout(layout{State: "cancelled"}), ShouldNotBeNil)
	})
}

func TestStatusError(t *testing.T) {
	Convey("Given a non-200 reply", t, func() {
		err := error(&StatusError{Path: "/api/layout/age", Status: 422, Code: "empty_view"})

		So(errors.Is(err, ErrStatus), ShouldBeTrue)
		So(isEmptyView(err), ShouldBeTrue)
		So(err.Error(), ShouldEqual, "unexpected status: GET /api/layout/age: 422 empty_view")
		So(isEmptyView(&StatusError{Status: 404, Code: "unknown_view"}), ShouldBeFalse)
	})

	Convey("Given base URLs", t, func() {
		So(newHTTPClient("http://host:9080/", time.Second).wsURL("/x"), ShouldEqual, "ws://host:9080/x")
		So(newHTTPClient("https://host", time.Second).wsURL("/x"), ShouldEqual, "wss://host/x")
	})
}
