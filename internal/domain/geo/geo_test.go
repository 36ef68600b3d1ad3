package geo_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/fortuna/internal/domain/geo"
	"github.com/okian/fortuna/internal/domain/model"
)

func TestNormalize(t *testing.T) {
	Convey("Given citizenship spellings", t, func() {
		Convey("Then US and UK variants collapse", func() {
			So(geo.Normalize("USA"), ShouldEqual, geo.UnitedStates)
			So(geo.Normalize("u.s."), ShouldEqual, geo.UnitedStates)
			So(geo.Normalize("United States of America"), ShouldEqual, geo.UnitedStates)
			So(geo.Normalize("Great Britain"), ShouldEqual, geo.UnitedKingdom)
			So(geo.Normalize("england"), ShouldEqual, geo.UnitedKingdom)
		})

		Convey("Then aliases ignore case, spacing and diacritics", func() {
			So(geo.Normalize("  Hong   Kong "), ShouldEqual, "China")
			So(geo.Normalize("Türkiye"), ShouldEqual, "Turkey")
			So(geo.Normalize("Czechia"), ShouldEqual, "Czech Republic")
		})

		Convey("Then unknown names pass through and blanks become Unknown", func() {
			So(geo.Normalize(" Eswatini "), ShouldEqual, "Eswatini")
			So(geo.Normalize(""), ShouldEqual, geo.Unknown)
		})

		Convey("Then folding strips combining marks", func() {
			So(geo.Fold("Curaçao"), ShouldEqual, "curacao")
		})
	})
}

func TestShares(t *testing.T) {
	Convey("Given records from several countries", t, func() {
		points := []model.Billionaire{
			{Citizenship: "USA", NetWorth: 50},
			{Citizenship: "United States", NetWorth: 25},
			{Citizenship: "France", NetWorth: 20},
			{Citizenship: "Hong Kong", NetWorth: 5},
		}
		shares := geo.Shares(points)

		Convey("Then shares are grouped, ranked and sum to 100", func() {
			So(len(shares), ShouldEqual, 3)
			So(shares[0].Key, ShouldEqual, geo.UnitedStates)
			So(shares[0].Share, ShouldAlmostEqual, 75, 1e-9)
			var total float64
			for _, s := range shares {
				total += s.Share
			}
			So(total, ShouldAlmostEqual, 100, 1e-9)
		})

		Convey("Then map names resolve to shares", func() {
			s, ok := geo.MatchShare("France", shares)
			So(ok, ShouldBeTrue)
			So(s.Share, ShouldAlmostEqual, 20, 1e-9)

			s, ok = geo.MatchShare("United States of America", shares)
			So(ok, ShouldBeTrue)
			So(s.Key, ShouldEqual, geo.UnitedStates)

			s, ok = geo.MatchShare("People's Republic of China", shares)
			So(ok, ShouldBeTrue)
			So(s.Key, ShouldEqual, "China")

			_, ok = geo.MatchShare("Chad", shares)
			So(ok, ShouldBeFalse)
		})
	})
}
