package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/podium/internal/config"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.DataDir, convey.ShouldEqual, "data")
				convey.So(cfg.Tables, convey.ShouldEqual, "highscores")
				convey.So(cfg.Capacity, convey.ShouldEqual, 100)
				convey.So(cfg.RequireProof, convey.ShouldBeFalse)
				convey.So(cfg.RecordTime, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("PODIUM_ADDR", ":9090")
			_ = os.Setenv("PODIUM_TABLES", "arcade,pinball")
			_ = os.Setenv("PODIUM_CAPACITY", "10")
			_ = os.Setenv("PODIUM_DATA_DIR", "/var/lib/podium")
			_ = os.Setenv("PODIUM_REQUIRE_PROOF", "true")
			_ = os.Setenv("PODIUM_PROOF_SALT", "sesame")
			_ = os.Setenv("PODIUM_RECORD_TIME", "true")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.Tables, convey.ShouldEqual, "arcade,pinball")
				convey.So(cfg.Capacity, convey.ShouldEqual, 10)
				convey.So(cfg.DataDir, convey.ShouldEqual, "/var/lib/podium")
				convey.So(cfg.RequireProof, convey.ShouldBeTrue)
				convey.So(cfg.ProofSalt, convey.ShouldEqual, "sesame")
				convey.So(cfg.RecordTime, convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with a YAML file", func() {
			clearConfigEnvVars()

			dir := t.TempDir()
			path := filepath.Join(dir, "podium.yaml")
			content := "addr: \":7070\"\ntables: \"arcade\"\ncapacity: 25\n"
			convey.So(os.WriteFile(path, []byte(content), 0o600), convey.ShouldBeNil)

			_ = os.Setenv("PODIUM_CONFIG", path)
			defer func() { _ = os.Unsetenv("PODIUM_CONFIG") }()

			cfg, err := config.Load(ctx)

			convey.Convey("Then file values override defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.Tables, convey.ShouldEqual, "arcade")
				convey.So(cfg.Capacity, convey.ShouldEqual, 25)
			})

			convey.Convey("And env vars still win over the file", func() {
				_ = os.Setenv("PODIUM_CAPACITY", "50")
				defer clearConfigEnvVars()

				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.Capacity, convey.ShouldEqual, 50)
			})
		})

		convey.Convey("When the config is invalid", func() {
			convey.Convey("A non-positive capacity is rejected", func() {
				_ = os.Setenv("PODIUM_CAPACITY", "0")
				defer clearConfigEnvVars()

				_, err := config.Load(ctx)
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "capacity")
			})

			convey.Convey("An empty table list is rejected", func() {
				_ = os.Setenv("PODIUM_TABLES", "  ")
				defer clearConfigEnvVars()

				_, err := config.Load(ctx)
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "tables")
			})

			convey.Convey("Proof without a salt is rejected", func() {
				_ = os.Setenv("PODIUM_REQUIRE_PROOF", "true")
				_ = os.Setenv("PODIUM_PROOF_SALT", "")
				defer clearConfigEnvVars()

				_, err := config.Load(ctx)
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "proof_salt")
			})
		})
	})
}

func TestTableNames(t *testing.T) {
	convey.Convey("Given a configured table list", t, func() {
		cfg := config.New()
		cfg.Tables = "Scores, ARCADE ,pinball"

		convey.Convey("Then TableNames splits on commas without normalizing", func() {
			convey.So(cfg.TableNames(), convey.ShouldResemble, []string{"Scores", " ARCADE ", "pinball"})
		})
	})
}

func clearConfigEnvVars() {
	for _, key := range []string{
		"PODIUM_ADDR",
		"PODIUM_TABLES",
		"PODIUM_CAPACITY",
		"PODIUM_DATA_DIR",
		"PODIUM_REQUIRE_PROOF",
		"PODIUM_PROOF_SALT",
		"PODIUM_RECORD_TIME",
		"PODIUM_LOG_LEVEL",
	} {
		_ = os.Unsetenv(key)
	}
}
