package seedkit

import (
	"crypto/rand"
	"math/big"
	"path"
	"time"

	"github.com/google/uuid"

	"github.com/voxevo/voxevo/internal/domain/model"
	"github.com/voxevo/voxevo/internal/domain/vecmath"
)

// Constants for random number generation.
const (
	randomFloatDivisor = 1000000
	deltaScale         = 0.05
)

// Constants for generated user demographics.
const (
	minBirthYear  = 1950
	birthYearSpan = 70
	minDurationS  = 5.0
	durationSpan  = 40.0
	minSNRDB      = 2.0
	snrSpan       = 20.0
)

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// getRandomInt returns a random int in [0, max) using crypto/rand.
func getRandomInt(max int) int {
	n, _ := rand.Int(rand.Reader, big.NewInt(int64(max)))
	return int(n.Int64())
}

// generateVector creates a unit-normalized random embedding.
func generateVector(dim int) []float32 {
	vec := make([]float32, dim)
	for i := range vec {
		vec[i] = float32(getRandomFloat()*2 - 1)
	}
	return vecmath.Normalize(vec)
}

// generateDeltas creates an age delta set with both direction keys.
func generateDeltas(dim int) model.AgeDeltaSet {
	toAdult := make([]float32, dim)
	toChild := make([]float32, dim)
	for i := 0; i < dim; i++ {
		v := float32((getRandomFloat()*2 - 1) * deltaScale)
		toAdult[i] = v
		toChild[i] = -v
	}
	return model.AgeDeltaSet{
		model.DeltaChildrenToAdult: toAdult,
		model.DeltaAdultToChildren: toChild,
	}
}

// generateUser creates a user record with a random date of birth.
func generateUser() model.User {
	year := minBirthYear + getRandomInt(birthYearSpan)
	month := 1 + getRandomInt(12)
	day := 1 + getRandomInt(28)
	dob := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)

	return model.User{
		UserID:      uuid.New().String(),
		DateOfBirth: dob.Format("2006-01-02"),
		CreatedUTC:  time.Now().UTC().Format(time.RFC3339Nano),
	}
}

// generateVersion creates one voice version for a user, recorded a given
// number of years after birth.
func generateVersion(u model.User, dim int) (model.VoiceVersion, []float32) {
	dob, _ := time.Parse("2006-01-02", u.DateOfBirth)
	age := 5 + getRandomInt(60)
	recorded := dob.AddDate(age, getRandomInt(11), getRandomInt(27))

	versionID := uuid.New().String()
	snr := minSNRDB + getRandomFloat()*snrSpan
	similarity := 0.5 + getRandomFloat()*0.5
	device := getRandomFloat()

	v := model.VoiceVersion{
		VersionID:         versionID,
		RecordedUTC:       recorded.UTC().Format(time.RFC3339),
		AgeAtRecording:    &age,
		EmbeddingPath:     path.Join("versions", "embeddings", u.UserID+"_"+versionID+".emb"),
		Confidence:        0.55 + getRandomFloat()*0.45,
		DurationS:         minDurationS + getRandomFloat()*durationSpan,
		SNRDB:             &snr,
		SpeakerSimilarity: &similarity,
		DeviceMatch:       &device,
	}
	return v, generateVector(dim)
}
