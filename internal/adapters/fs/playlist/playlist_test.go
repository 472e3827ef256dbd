package playlist_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aimdash/aimdash/internal/adapters/fs/playlist"
	"github.com/aimdash/aimdash/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func writePlaylist(t *testing.T, dir, file, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, file), []byte(body), 0o644); err != nil {
		t.Fatalf("write playlist: %v", err)
	}
}

func TestLibraryLoadDir(t *testing.T) {
	if err := logger.Init(); err != nil {
		t.Fatalf("logger init: %v", err)
	}
	ctx := context.Background()

	Convey("Given a directory of playlist files", t, func() {
		dir := t.TempDir()
		writePlaylist(t, dir, "vdim.json", `{
			"name": "Voltaic Intermediate",
			"code": "vdim",
			"scenarios": [
				{"name": "1w4ts", "ranks": [{"name": "Gold", "color": "#ffd700", "threshold": 800}]},
				{"name": "gp"}
			]
		}`)
		writePlaylist(t, dir, "adv.json", `{"name": "Advanced", "code": "adv", "scenarios": [{"name": "pasu"}]}`)
		writePlaylist(t, dir, "broken.json", `{"name": `)
		writePlaylist(t, dir, "notes.txt", "ignore me")

		lib := playlist.NewLibrary()
		So(lib.LoadDir(ctx, dir), ShouldBeNil)

		Convey("When listing playlists", func() {
			Convey("Then valid playlists are present, sorted, and broken ones skipped", func() {
				So(lib.Playlists(ctx), ShouldResemble, []string{"Advanced", "Voltaic Intermediate"})
			})
		})

		Convey("When reading scenario names", func() {
			Convey("Then playlist order is preserved", func() {
				So(lib.ScenarioNames(ctx, "Voltaic Intermediate"), ShouldResemble, []string{"1w4ts", "gp"})
				So(lib.ScenarioNames(ctx, "missing"), ShouldBeNil)
			})
		})

		Convey("When reading rank data", func() {
			ranks := lib.RankData(ctx, "Voltaic Intermediate", "1w4ts")

			Convey("Then thresholds come back for the scenario", func() {
				So(ranks, ShouldHaveLength, 1)
				So(ranks[0].Name, ShouldEqual, "Gold")
				So(ranks[0].Threshold, ShouldEqual, 800)
			})

			Convey("And unknown lookups return nil", func() {
				So(lib.RankData(ctx, "Voltaic Intermediate", "missing"), ShouldBeNil)
				So(lib.RankData(ctx, "missing", "1w4ts"), ShouldBeNil)
			})
		})

		Convey("When a duplicate playlist name is loaded", func() {
			dir2 := t.TempDir()
			writePlaylist(t, dir2, "dup.json", `{"name": "Advanced", "code": "adv2", "scenarios": []}`)
			So(lib.LoadDir(ctx, dir2), ShouldBeNil)

			Convey("Then the first load wins", func() {
				So(lib.ScenarioNames(ctx, "Advanced"), ShouldResemble, []string{"pasu"})
			})
		})
	})

	Convey("Given a missing playlist directory", t, func() {
		lib := playlist.NewLibrary()

		Convey("When loading", func() {
			err := lib.LoadDir(ctx, filepath.Join(t.TempDir(), "absent"))

			Convey("Then the overlay is simply empty", func() {
				So(err, ShouldBeNil)
				So(lib.Playlists(ctx), ShouldBeEmpty)
			})
		})
	})
}
