package embedding_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/voxevo/voxevo/internal/adapters/embedding"
	"github.com/voxevo/voxevo/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestStore(t *testing.T) {
	Convey("Given an embedding store in a scratch directory", t, func() {
		ctx := context.Background()
		root := t.TempDir()
		deltasPath := filepath.Join(root, "embeddings", "age_deltas.mp")
		store := embedding.NewStore(root, deltasPath)

		Convey("When saving and loading a vector", func() {
			vec := []float32{0.1, -0.2, 0.3, 0.4}
			So(store.Save(ctx, "versions/embeddings/u1_v1.emb", vec), ShouldBeNil)

			got, err := store.Load(ctx, "versions/embeddings/u1_v1.emb")

			Convey("Then the vector round-trips", func() {
				So(err, ShouldBeNil)
				So(got, ShouldHaveLength, 4)
				So(got[0], ShouldAlmostEqual, 0.1, 1e-6)
				So(got[3], ShouldAlmostEqual, 0.4, 1e-6)
			})
		})

		Convey("When loading a missing vector", func() {
			_, err := store.Load(ctx, "nope.emb")

			Convey("Then the not-found sentinel is returned", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, embedding.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When loading a corrupt vector file", func() {
			full := store.Path("bad.emb")
			So(os.WriteFile(full, []byte("not msgpack at all"), 0o600), ShouldBeNil)

			_, err := store.Load(ctx, "bad.emb")

			Convey("Then the corrupt sentinel is returned", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, embedding.ErrCorrupt), ShouldBeTrue)
			})
		})

		Convey("When resolving paths", func() {
			Convey("Then relative paths join onto the root", func() {
				So(store.Path("a/b.emb"), ShouldEqual, filepath.Join(root, "a", "b.emb"))
			})

			Convey("Then the delta path is fixed", func() {
				So(store.DeltasPath(), ShouldEqual, deltasPath)
			})
		})

		Convey("When saving and loading the delta set", func() {
			set := model.AgeDeltaSet{
				model.DeltaChildrenToAdult: {0.1, 0.2},
				model.DeltaAdultToChildren: {-0.1, -0.2},
			}
			So(store.SaveDeltas(ctx, set), ShouldBeNil)

			got, err := store.LoadDeltas(ctx)

			Convey("Then both direction keys round-trip", func() {
				So(err, ShouldBeNil)
				So(got, ShouldHaveLength, 2)
				So(got[model.DeltaChildrenToAdult][1], ShouldAlmostEqual, 0.2, 1e-6)
				So(got[model.DeltaAdultToChildren][0], ShouldAlmostEqual, -0.1, 1e-6)
			})
		})

		Convey("When loading deltas before any were saved", func() {
			_, err := store.LoadDeltas(ctx)

			Convey("Then the not-found sentinel is returned", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, embedding.ErrNotFound), ShouldBeTrue)
			})
		})
	})
}
