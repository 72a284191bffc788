package loadgen

import (
	"math/rand"
	"strings"

	"github.com/google/uuid"

	"github.com/okian/podium/internal/domain/integrity"
)

// namePrefixes give the generated players vaguely game-like names; the
// uuid suffix keeps them unique across runs.
var namePrefixes = []string{
	"swift", "grim", "lucky", "rusty", "shadow", "turbo", "pixel", "mellow",
}

// generateSubmissions produces cfg.Submissions random score posts.
func generateSubmissions(cfg *Config) []Submission {
	subs := make([]Submission, cfg.Submissions)
	span := cfg.MaxScore - cfg.MinScore + 1
	for i := range subs {
		name := randomName()
		score := cfg.MinScore + rand.Int63n(span) //nolint:gosec // non-cryptographic traffic shaping
		subs[i] = Submission{Name: name, Score: score}
		if cfg.ProofSalt != "" {
			subs[i].Proof = integrity.Expected(name, score, cfg.ProofSalt)
		}
	}
	return subs
}

func randomName() string {
	prefix := namePrefixes[rand.Intn(len(namePrefixes))] //nolint:gosec // cosmetic
	suffix := strings.Split(uuid.NewString(), "-")[0]
	return prefix + "-" + suffix
}
