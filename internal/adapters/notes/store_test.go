package notes_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"capsight/internal/adapters/notes"
	. "github.com/smartystreets/goconvey/convey"
)

func TestFileStore(t *testing.T) {
	Convey("Given a file store in a temp directory", t, func() {
		dir := t.TempDir()
		ctx := context.Background()
		store, err := notes.NewFileStore(dir)
		So(err, ShouldBeNil)

		Convey("When setting and getting a note", func() {
			So(store.Set(ctx, "sig_abc", "follow up with the teaching team"), ShouldBeNil)

			v, ok := store.Get(ctx, "sig_abc")
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, "follow up with the teaching team")
		})

		Convey("When getting an absent key", func() {
			_, ok := store.Get(ctx, "sig_missing")
			So(ok, ShouldBeFalse)
		})

		Convey("When setting an empty value", func() {
			So(store.Set(ctx, "sig_abc", "something"), ShouldBeNil)
			So(store.Set(ctx, "sig_abc", ""), ShouldBeNil)

			_, ok := store.Get(ctx, "sig_abc")
			So(ok, ShouldBeFalse)
		})

		Convey("When reopening the store", func() {
			So(store.Set(ctx, "sig_abc", "persisted"), ShouldBeNil)

			reopened, err := notes.NewFileStore(dir)
			So(err, ShouldBeNil)

			v, ok := reopened.Get(ctx, "sig_abc")
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, "persisted")
		})

		Convey("When clearing all notes", func() {
			So(store.Set(ctx, "a", "1"), ShouldBeNil)
			So(store.Set(ctx, "b", "2"), ShouldBeNil)
			So(store.Clear(ctx), ShouldBeNil)
			So(store.All(ctx), ShouldBeEmpty)
		})

		Convey("When deleting a single note", func() {
			So(store.Set(ctx, "a", "1"), ShouldBeNil)
			So(store.Set(ctx, "b", "2"), ShouldBeNil)
			So(store.Delete(ctx, "a"), ShouldBeNil)
			So(len(store.All(ctx)), ShouldEqual, 1)
		})
	})

	Convey("Given a corrupt notes file", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "capsight_signal_notes_v1.json")
		So(os.WriteFile(path, []byte("not json"), 0o600), ShouldBeNil)

		_, err := notes.NewFileStore(dir)
		So(err, ShouldNotBeNil)
	})
}

func TestExportImport(t *testing.T) {
	Convey("Given a store with saved notes", t, func() {
		dir := t.TempDir()
		ctx := context.Background()
		store, err := notes.NewFileStore(dir)
		So(err, ShouldBeNil)
		So(store.Set(ctx, "sig_1", "existing note"), ShouldBeNil)

		Convey("When exporting", func() {
			env := notes.Export(ctx, store, "N = 35 · Periods = 2 · Aggregated · No identifiers")

			Convey("Then the envelope carries metadata and the mapping", func() {
				So(env.ExportedAt, ShouldNotBeEmpty)
				So(env.Tool, ShouldContainSubstring, "Signals Workspace")
				So(env.DatasetLabel, ShouldContainSubstring, "N = 35")
				So(env.Notes["sig_1"], ShouldEqual, "existing note")
			})
		})

		Convey("When importing an envelope", func() {
			raw, merr := json.Marshal(notes.Envelope{
				ExportedAt: "2025-11-01T10:00:00Z",
				Tool:       "elsewhere",
				Notes:      map[string]string{"sig_1": "imported wins", "sig_2": "new"},
			})
			So(merr, ShouldBeNil)
			So(notes.Import(ctx, store, raw), ShouldBeNil)

			Convey("Then imported values win and new keys merge in", func() {
				v, _ := store.Get(ctx, "sig_1")
				So(v, ShouldEqual, "imported wins")
				v, _ = store.Get(ctx, "sig_2")
				So(v, ShouldEqual, "new")
			})
		})

		Convey("When importing a bare notes object", func() {
			So(notes.Import(ctx, store, []byte(`{"sig_3":"bare"}`)), ShouldBeNil)
			v, _ := store.Get(ctx, "sig_3")
			So(v, ShouldEqual, "bare")
		})

		Convey("When importing invalid JSON", func() {
			err := notes.Import(ctx, store, []byte("not json"))
			So(err, ShouldNotBeNil)
		})
	})
}
