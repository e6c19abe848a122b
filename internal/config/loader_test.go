package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hikaya/spotwatch/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLoadFromEnv(t *testing.T) {
	Convey("Given SPOTWATCH_ environment variables", t, func() {
		t.Setenv("SPOTWATCH_ADDR", ":8088")
		t.Setenv("SPOTWATCH_POLL_INTERVAL_SECONDS", "120")
		t.Setenv("SPOTWATCH_OSU_USER_ID", "124493")
		t.Setenv("SPOTWATCH_OSU_USERNAME", "Cookiezi")

		Convey("When loading the configuration", func() {
			cfg, err := config.Load(context.Background())

			Convey("Then env values override the defaults", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":8088")
				So(cfg.PollIntervalSeconds, ShouldEqual, 120)
				So(cfg.OsuUserID, ShouldEqual, 124493)
				So(cfg.OsuUsername, ShouldEqual, "Cookiezi")
				// Untouched keys keep their defaults.
				So(cfg.ActivityLimit, ShouldEqual, 51)
			})
		})
	})
}

func TestLoadFromFile(t *testing.T) {
	Convey("Given a YAML config file", t, func() {
		path := filepath.Join(t.TempDir(), "spotwatch.yaml")
		yaml := "addr: \":7070\"\ndb_path: \"/tmp/spots.sqlite3\"\nrate_limit_rps: 1.5\n"
		So(os.WriteFile(path, []byte(yaml), 0o600), ShouldBeNil)
		t.Setenv("SPOTWATCH_CONFIG", path)

		Convey("When loading the configuration", func() {
			cfg, err := config.Load(context.Background())

			Convey("Then file values layer over the defaults", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":7070")
				So(cfg.DBPath, ShouldEqual, "/tmp/spots.sqlite3")
				So(cfg.RateLimitRPS, ShouldEqual, 1.5)
			})
		})

		Convey("When env overrides the same key", func() {
			t.Setenv("SPOTWATCH_ADDR", ":7171")
			cfg, err := config.Load(context.Background())

			Convey("Then env wins over the file", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":7171")
			})
		})
	})
}

func TestLoadValidation(t *testing.T) {
	Convey("Given invalid configuration values", t, func() {
		Convey("When the poll interval is not positive", func() {
			t.Setenv("SPOTWATCH_POLL_INTERVAL_SECONDS", "0")
			_, err := config.Load(context.Background())

			Convey("Then the invalid-config sentinel surfaces", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
			})
		})

		Convey("When the db path is emptied", func() {
			t.Setenv("SPOTWATCH_DB_PATH", "")
			_, err := config.Load(context.Background())

			Convey("Then the invalid-config sentinel surfaces", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
			})
		})
	})
}
