package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/voxevo/voxevo/internal/adapters/http/api"
	"github.com/voxevo/voxevo/internal/domain/confidence"
	"github.com/voxevo/voxevo/internal/domain/model"
	"github.com/voxevo/voxevo/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

// fakeDeps implements api.Dependencies with canned behavior.
type fakeDeps struct {
	seen        map[string]bool
	unrecorded  []string
	enqueueOK   bool
	enqueued    []model.Sample
	decision    types.Decision
	decideErr   error
	versions    []model.VoiceVersion
	versionsErr error
	score       float64
}

func newFakeDeps() *fakeDeps {
	return &fakeDeps{
		seen:      make(map[string]bool),
		enqueueOK: true,
	}
}

func (f *fakeDeps) SeenAndRecord(_ context.Context, id string) bool {
	if f.seen[id] {
		return true
	}
	f.seen[id] = true
	return false
}

func (f *fakeDeps) Unrecord(_ context.Context, id string) {
	delete(f.seen, id)
	f.unrecorded = append(f.unrecorded, id)
}

func (f *fakeDeps) Size() int64 { return int64(len(f.seen)) }

func (f *fakeDeps) Enqueue(_ context.Context, s model.Sample) bool {
	if !f.enqueueOK {
		return false
	}
	f.enqueued = append(f.enqueued, s)
	return true
}

func (f *fakeDeps) DecidePlayback(_ context.Context, _ string, _ int) (types.Decision, error) {
	return f.decision, f.decideErr
}

func (f *fakeDeps) ScoreConfidence(_ confidence.Inputs) float64 { return f.score }

func (f *fakeDeps) Versions(_ context.Context, _ string) ([]model.VoiceVersion, error) {
	return f.versions, f.versionsErr
}

// fakeStats implements api.StatsProvider.
type fakeStats struct{}

func (fakeStats) GetStats() map[string]interface{} {
	return map[string]interface{}{"started": true, "totalUsers": 3}
}

func newTestServer(deps *fakeDeps) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(deps, fakeStats{}).Register(context.Background(), mux)
	return mux
}

func validSampleBody() []byte {
	body, _ := json.Marshal(map[string]any{
		"sample_id":  "s1",
		"user_id":    "u1",
		"duration_s": 12.5,
		"snr_db":     6.0,
		"embedding":  []float32{0.1, 0.2, 0.3},
	})
	return body
}

func TestSamplesEndpoint(t *testing.T) {
	Convey("Given the samples endpoint", t, func() {
		deps := newFakeDeps()
		mux := newTestServer(deps)

		Convey("When posting a valid sample", func() {
			req := httptest.NewRequest(http.MethodPost, "/samples", bytes.NewReader(validSampleBody()))
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then the sample is accepted for processing", func() {
				So(rec.Code, ShouldEqual, http.StatusAccepted)
				So(rec.Body.String(), ShouldContainSubstring, `"status":"accepted"`)
				So(deps.enqueued, ShouldHaveLength, 1)
				So(deps.enqueued[0].SampleID, ShouldEqual, "s1")
				So(deps.enqueued[0].SNRDB, ShouldNotBeNil)
				So(*deps.enqueued[0].SNRDB, ShouldAlmostEqual, 6.0, 1e-9)
			})
		})

		Convey("When posting the same sample twice", func() {
			first := httptest.NewRequest(http.MethodPost, "/samples", bytes.NewReader(validSampleBody()))
			mux.ServeHTTP(httptest.NewRecorder(), first)

			second := httptest.NewRequest(http.MethodPost, "/samples", bytes.NewReader(validSampleBody()))
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, second)

			Convey("Then the duplicate is acknowledged without reprocessing", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Body.String(), ShouldContainSubstring, `"duplicate":true`)
				So(deps.enqueued, ShouldHaveLength, 1)
			})
		})

		Convey("When the queue is full", func() {
			deps.enqueueOK = false
			req := httptest.NewRequest(http.MethodPost, "/samples", bytes.NewReader(validSampleBody()))
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then the caller sees backpressure and may retry", func() {
				So(rec.Code, ShouldEqual, http.StatusTooManyRequests)
				So(deps.unrecorded, ShouldContain, "s1")
			})
		})

		Convey("When posting malformed JSON", func() {
			req := httptest.NewRequest(http.MethodPost, "/samples", bytes.NewReader([]byte("{")))
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then the request is rejected", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When posting an incomplete sample", func() {
			body, _ := json.Marshal(map[string]any{"sample_id": "s1"})
			req := httptest.NewRequest(http.MethodPost, "/samples", bytes.NewReader(body))
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then validation fails", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
				So(rec.Body.String(), ShouldContainSubstring, "missing user_id")
			})
		})

		Convey("When using the wrong method", func() {
			req := httptest.NewRequest(http.MethodGet, "/samples", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then the route is not found", func() {
				So(rec.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestPlaybackEndpoint(t *testing.T) {
	Convey("Given the playback endpoint", t, func() {
		deps := newFakeDeps()
		mux := newTestServer(deps)

		Convey("When requesting a decision", func() {
			gap := 2
			deps.decision = types.Decision{
				Mode:   types.ModeRecorded,
				Reason: types.ReasonRealVoiceClose,
				AgeGap: &gap,
			}
			req := httptest.NewRequest(http.MethodGet, "/playback?user_id=u1&target_age=42", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then the decision is returned as JSON", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)

				var dec types.Decision
				So(json.Unmarshal(rec.Body.Bytes(), &dec), ShouldBeNil)
				So(dec.Mode, ShouldEqual, types.ModeRecorded)
				So(dec.Reason, ShouldEqual, types.ReasonRealVoiceClose)
				So(*dec.AgeGap, ShouldEqual, 2)
			})
		})

		Convey("When the user id is missing", func() {
			req := httptest.NewRequest(http.MethodGet, "/playback?target_age=42", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then the request is rejected", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the target age is not a number", func() {
			req := httptest.NewRequest(http.MethodGet, "/playback?user_id=u1&target_age=young", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then the request is rejected", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the decision fails internally", func() {
			deps.decideErr = errors.New("registry offline")
			req := httptest.NewRequest(http.MethodGet, "/playback?user_id=u1&target_age=42", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then the failure maps to a server error", func() {
				So(rec.Code, ShouldEqual, http.StatusInternalServerError)
			})
		})
	})
}

func TestConfidenceEndpoint(t *testing.T) {
	Convey("Given the confidence endpoint", t, func() {
		deps := newFakeDeps()
		deps.score = 0.57
		mux := newTestServer(deps)

		Convey("When posting sample metrics", func() {
			body, _ := json.Marshal(map[string]any{
				"duration_s":    18,
				"snr_db":        5.0,
				"history_count": 1,
			})
			req := httptest.NewRequest(http.MethodPost, "/confidence", bytes.NewReader(body))
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then the preview score is returned", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Body.String(), ShouldContainSubstring, `"confidence":0.57`)
			})
		})

		Convey("When posting malformed JSON", func() {
			req := httptest.NewRequest(http.MethodPost, "/confidence", bytes.NewReader([]byte("nope")))
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then the request is rejected", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}

func TestVersionsEndpoint(t *testing.T) {
	Convey("Given the versions endpoint", t, func() {
		deps := newFakeDeps()
		mux := newTestServer(deps)

		Convey("When requesting an existing user's history", func() {
			deps.versions = []model.VoiceVersion{
				{VersionID: "v1", EmbeddingPath: "e1.emb", Confidence: 0.8},
			}
			req := httptest.NewRequest(http.MethodGet, "/versions/u1", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then the versions are returned with the user id", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Body.String(), ShouldContainSubstring, `"user_id":"u1"`)
				So(rec.Body.String(), ShouldContainSubstring, `"version_id":"v1"`)
			})
		})

		Convey("When the user has no versions", func() {
			req := httptest.NewRequest(http.MethodGet, "/versions/u1", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then an empty list is returned, not null", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Body.String(), ShouldContainSubstring, `"versions":[]`)
			})
		})

		Convey("When the user is unknown", func() {
			deps.versionsErr = errors.New("user not found: ghost")
			req := httptest.NewRequest(http.MethodGet, "/versions/ghost", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then the error maps to a 404", func() {
				So(rec.Code, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When the path parameter is missing", func() {
			req := httptest.NewRequest(http.MethodGet, "/versions/", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then the request is rejected", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}

func TestStatsEndpoint(t *testing.T) {
	Convey("Given the stats endpoint", t, func() {
		mux := newTestServer(newFakeDeps())

		Convey("When requesting stats", func() {
			req := httptest.NewRequest(http.MethodGet, "/stats", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then the service statistics are returned", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Body.String(), ShouldContainSubstring, `"totalUsers":3`)
			})
		})
	})
}

func TestHealthEndpoint(t *testing.T) {
	Convey("Given the health endpoint", t, func() {
		mux := newTestServer(newFakeDeps())

		Convey("When probing liveness", func() {
			req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then Prometheus metrics are served", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Body.String(), ShouldContainSubstring, "voxevo_playback")
			})
		})
	})
}
