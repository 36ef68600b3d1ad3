package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/fortuna/internal/adapters/http/api"
	"github.com/okian/fortuna/internal/adapters/repository"
	service "github.com/okian/fortuna/internal/app"
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

func fixture() []model.Billionaire {
	return []model.Billionaire{
		person("Ann", "Tech", "United States", 5, true, 40, 2000),
		person("Ben", "Tech", "USA", 3, true, 55, 2000),
		person("Cal", "Finance", "Germany", 10, false, 70, 2000),
		person("Ann", "Tech", "United States", 8, true, 41, 2001),
		person("Dee", "Fashion", "France", 12, false, 62, 2001),
	}
}

func writeDataset(dir string) string {
	data, err := json.Marshal(fixture())
	if err != nil {
		panic(err)
	}
	path := filepath.Join(dir, "billionaires.json")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		panic(err)
	}
	return path
}

func run(args ...string) (string, string, int) {
	var stdout, stderr bytes.Buffer
	code := Execute(context.Background(), args, &stdout, &stderr)
	return stdout.String(), stderr.String(), code
}

func TestCommands(t *testing.T) {
	Convey("Given a dataset file", t, func() {
		data := writeDataset(t.TempDir())

		Convey("When printing the version", func() {
			out, _, code := run("version")

			So(code, ShouldEqual, 0)
			So(out, ShouldStartWith, "fortuna-layout dev")
		})

		Convey("When computing a layout", func() {
			out, _, code := run("layout", "scatter", "--data", data, "--width", "400", "--height", "300")

			Convey("Then the converged bubbles are printed", func() {
				So(code, ShouldEqual, 0)
				var res service.LayoutResult
				So(json.Unmarshal([]byte(out), &res), ShouldBeNil)
				So(len(res.Bubbles), ShouldEqual, 5)
				So(res.Canvas.Width, ShouldEqual, 400)
				So(res.State, ShouldEqual, "converged")
			})
		})

		Convey("When asking for a view without a layout", func() {
			_, stderr, code := run("layout", "map", "--data", data)

			So(code, ShouldEqual, 1)
			So(stderr, ShouldContainSubstring, "view has no layout")
		})

		Convey("When aggregating by country", func() {
			out, _, code := run("aggregate", "--data", data, "--by", "country", "--limit", "1")

			So(code, ShouldEqual, 0)
			var aggs []model.Aggregate
			So(json.Unmarshal([]byte(out), &aggs), ShouldBeNil)
			So(len(aggs), ShouldEqual, 1)
			So(aggs[0].Key, ShouldEqual, "United States")
			So(aggs[0].TotalWealth, ShouldEqual, 16)
		})

		Convey("When summarising one year of self-made fortunes", func() {
			out, _, code := run("summary", "--data", data, "--year", "2000", "--wealth", "selfmade")

			So(code, ShouldEqual, 0)
			var sum service.Summary
			So(json.Unmarshal([]byte(out), &sum), ShouldBeNil)
			So(sum.Total.Count, ShouldEqual, 2)
			So(sum.Total.TotalWealth, ShouldEqual, 8)
		})

		Convey("When writing the rich list to a file", func() {
			path := filepath.Join(t.TempDir(), "richest.json")
			out, _, code := run("richest", "--data", data, "--year", "2000", "--limit", "2", "--out", path)

			So(code, ShouldEqual, 0)
			So(out, ShouldBeEmpty)
			raw, err := os.ReadFile(path)
			So(err, ShouldBeNil)
			var entries []repository.Entry
			So(json.Unmarshal(raw, &entries), ShouldBeNil)
			So(len(entries), ShouldEqual, 2)
			So(entries[0].Name, ShouldEqual, "Cal")
			So(entries[1].Name, ShouldEqual, "Ann")
		})

		Convey("When flags are invalid", func() {
			cases := [][]string{
				{"summary", "--data", data, "--year", "soon"},
				{"aggregate", "--data", data, "--by", "zodiac"},
				{"richest", "--data", data, "--limit", "0"},
				{"summary", "--data", filepath.Join(t.TempDir(), "missing")},
				{"layout", "--data", data},
			}
			for _, args := range cases {
				_, stderr, code := run(args...)
				So(code, ShouldEqual, 1)
				So(stderr, ShouldStartWith, "Error:")
			}
		})
	})
}

func TestProbeCommand(t *testing.T) {
	Convey("Given a running server", t, func() {
		svc := service.New(service.WithRecords(fixture()), service.WithLogger(logger.Nop()))
		So(svc.Start(context.Background()), ShouldBeNil)
		defer svc.Stop()
		mux := http.NewServeMux()
		api.NewServer(svc, svc).Register(context.Background(), mux)
		srv := httptest.NewServer(mux)
		defer srv.Close()

		Convey("When probing it without a stream", func() {
			out, _, code := run("probe", "--url", srv.URL, "--stream=false", "--workers", "2", "--top", "3")

			Convey("Then the statistics are printed", func() {
				So(code, ShouldEqual, 0)
				var stats map[string]any
				So(json.Unmarshal([]byte(out), &stats), ShouldBeNil)
				So(stats["ranksChecked"], ShouldEqual, float64(3))
				So(stats["layoutsFailed"], ShouldEqual, float64(0))
			})
		})
	})
}

func TestParseYear(t *testing.T) {
	Convey("Given year flags", t, func() {
		for _, raw := range []string{"", "all", " ALL "} {
			y, err := parseYear(raw)
			So(err, ShouldBeNil)
			So(y, ShouldBeNil)
		}
		y, err := parseYear("2024")
		So(err, ShouldBeNil)
		So(*y, ShouldEqual, 2024)
	})
}
