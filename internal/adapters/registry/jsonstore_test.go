package registry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/voxevo/voxevo/internal/adapters/registry"
	"github.com/voxevo/voxevo/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func intPtr(v int) *int { return &v }

func TestJSONStore(t *testing.T) {
	Convey("Given a JSON store in a scratch directory", t, func() {
		ctx := context.Background()
		dir := t.TempDir()
		store, err := registry.NewJSONStore(dir)
		So(err, ShouldBeNil)

		Convey("When looking up an unknown user", func() {
			_, err := store.User(ctx, "ghost")

			Convey("Then the not-found sentinel is returned", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, registry.ErrUserNotFound), ShouldBeTrue)
			})
		})

		Convey("When creating a user", func() {
			u := model.User{
				UserID:      "u1",
				DateOfBirth: "1990-03-15",
				CreatedUTC:  "2024-01-01T00:00:00Z",
			}
			So(store.CreateUser(ctx, u), ShouldBeNil)

			Convey("Then the record reads back", func() {
				got, err := store.User(ctx, "u1")
				So(err, ShouldBeNil)
				So(got.UserID, ShouldEqual, "u1")
				So(got.DateOfBirth, ShouldEqual, "1990-03-15")
				So(got.VoiceVersions, ShouldBeEmpty)
			})

			Convey("And creating the same user again fails", func() {
				err := store.CreateUser(ctx, u)
				So(err, ShouldNotBeNil)
				So(errors.Is(err, registry.ErrUserExists), ShouldBeTrue)
			})

			Convey("And a fresh store over the same directory sees it", func() {
				reopened, err := registry.NewJSONStore(dir)
				So(err, ShouldBeNil)
				got, err := reopened.User(ctx, "u1")
				So(err, ShouldBeNil)
				So(got.UserID, ShouldEqual, "u1")
			})
		})

		Convey("When appending versions", func() {
			So(store.CreateUser(ctx, model.User{UserID: "u1"}), ShouldBeNil)

			v1 := model.VoiceVersion{VersionID: "v1", RecordedUTC: "2020-01-01T00:00:00Z", AgeAtRecording: intPtr(30), EmbeddingPath: "e1.emb", Confidence: 0.8}
			v2 := model.VoiceVersion{VersionID: "v2", RecordedUTC: "2022-01-01T00:00:00Z", AgeAtRecording: intPtr(32), EmbeddingPath: "e2.emb", Confidence: 0.9}
			So(store.AppendVersion(ctx, "u1", v1), ShouldBeNil)
			So(store.AppendVersion(ctx, "u1", v2), ShouldBeNil)

			Convey("Then versions come back in append order", func() {
				versions, err := store.Versions(ctx, "u1")
				So(err, ShouldBeNil)
				So(versions, ShouldHaveLength, 2)
				So(versions[0].VersionID, ShouldEqual, "v1")
				So(versions[1].VersionID, ShouldEqual, "v2")
			})

			Convey("Then the latest version is the last appended", func() {
				latest, err := store.LatestVersion(ctx, "u1")
				So(err, ShouldBeNil)
				So(latest, ShouldNotBeNil)
				So(latest.VersionID, ShouldEqual, "v2")
				So(*latest.AgeAtRecording, ShouldEqual, 32)
			})

			Convey("And appending to an unknown user fails", func() {
				err := store.AppendVersion(ctx, "ghost", v1)
				So(errors.Is(err, registry.ErrUserNotFound), ShouldBeTrue)
			})
		})

		Convey("When the history is empty", func() {
			So(store.CreateUser(ctx, model.User{UserID: "u1"}), ShouldBeNil)

			Convey("Then the latest version is nil without an error", func() {
				latest, err := store.LatestVersion(ctx, "u1")
				So(err, ShouldBeNil)
				So(latest, ShouldBeNil)
			})
		})

		Convey("When listing and counting users", func() {
			So(store.CreateUser(ctx, model.User{UserID: "u1"}), ShouldBeNil)
			So(store.CreateUser(ctx, model.User{UserID: "u2"}), ShouldBeNil)
			So(store.AppendVersion(ctx, "u1", model.VoiceVersion{VersionID: "v1"}), ShouldBeNil)
			So(store.AppendVersion(ctx, "u1", model.VoiceVersion{VersionID: "v2"}), ShouldBeNil)
			So(store.AppendVersion(ctx, "u2", model.VoiceVersion{VersionID: "v3"}), ShouldBeNil)

			Convey("Then all ids are listed", func() {
				ids, err := store.ListUsers(ctx)
				So(err, ShouldBeNil)
				So(ids, ShouldHaveLength, 2)
				So(ids, ShouldContain, "u1")
				So(ids, ShouldContain, "u2")
			})

			Convey("Then the counts cover users and versions", func() {
				users, versions := store.Counts(ctx)
				So(users, ShouldEqual, 2)
				So(versions, ShouldEqual, 3)
			})
		})
	})
}
