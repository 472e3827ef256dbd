package discovery_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aimdash/aimdash/internal/adapters/fs/discovery"
	. "github.com/smartystreets/goconvey/convey"
)

func touch(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
		t.Fatalf("touch %s: %v", name, err)
	}
}

func TestListCandidateFiles(t *testing.T) {
	Convey("Given a directory with mixed entries", t, func() {
		dir := t.TempDir()
		touch(t, dir, "1w4ts - Challenge - 2025.01.01-10.00.00 Stats.csv")
		touch(t, dir, "gp - Challenge - 2025.01.02-10.00.00 Stats.csv")
		touch(t, dir, "notes.txt")
		So(os.Mkdir(filepath.Join(dir, "nested"), 0o755), ShouldBeNil)
		touch(t, filepath.Join(dir, "nested"), "deep - 2025.01.01-10.00.00 Stats.csv")

		Convey("When listing candidate files", func() {
			files, err := discovery.ListCandidateFiles(dir)

			Convey("Then only top-level csv files are returned", func() {
				So(err, ShouldBeNil)
				So(files, ShouldHaveLength, 2)
				for _, f := range files {
					So(filepath.Ext(f), ShouldEqual, ".csv")
					So(filepath.Dir(f), ShouldEqual, dir)
				}
			})
		})

		Convey("When deriving unique scenario names", func() {
			touch(t, dir, "1w4ts - Easy - 2025.01.03-10.00.00 Stats.csv")
			names, err := discovery.UniqueScenarioNames(dir)

			Convey("Then names are deduped and sorted", func() {
				So(err, ShouldBeNil)
				So(names, ShouldResemble, []string{"1w4ts", "gp"})
			})
		})
	})

	Convey("Given a missing directory", t, func() {
		Convey("When listing candidate files", func() {
			_, err := discovery.ListCandidateFiles(filepath.Join(t.TempDir(), "absent"))

			Convey("Then the scan fails", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}
