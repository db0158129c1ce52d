package rating

import (
	"math"
	"math/rand"
	"time"

	"github.com/gunnermanx/simplematchmaker/constraints"
	"github.com/gunnermanx/simplematchmaker/datastore/model"
)

const (
	K_FACTOR       = 32
	NORMALIZED_ELO = 1500

	MIN_DELTA = 4
	MAX_DELTA = 32

	// no voice chat integration yet, the outcome probability is unweighted
	VOICE_CHAT_BONUS = 1.0

	DRIFT_RANGE = 10.0
)

// Result is the outcome of one simulated match
//
// SkillGap and AvgSkill are derived from the new ratings for downstream
// reporting
type Result struct {
	Player1Won bool
	NewSkill1  float64
	NewSkill2  float64
	SkillGap   float64
	AvgSkill   float64
}

// Simulator decides a synthetic match outcome between two players and
// computes their updated ratings
//
// All randomness goes through the injected rand source so tests can pin the
// outcome and the drift
type Simulator struct {
	rng *rand.Rand
}

func NewSimulator(rng *rand.Rand) (s *Simulator) {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	s = &Simulator{
		rng: rng,
	}
	return
}

// Simulate runs one match between p1 and p2 under the given policy
//
// The two applied deltas are intentionally not exact negations of each
// other: the regression adjustment is computed per player and the drift is
// applied with opposite signs after rounding
func (s *Simulator) Simulate(p1 model.PlayerProfile, p2 model.PlayerProfile, c constraints.MatchConstraints) (r Result) {
	elo1 := p1.Skill
	elo2 := p2.Skill

	r.Player1Won = s.rng.Float64() < (elo1*VOICE_CHAT_BONUS)/(elo1+elo2*VOICE_CHAT_BONUS)

	delta := ratingDelta(elo1, elo2, c.SkillAdjustmentWeight, r.Player1Won)
	drift := (s.rng.Float64() - 0.5) * DRIFT_RANGE

	r.NewSkill1 = math.Round(math.Max(0, elo1+delta+drift))
	r.NewSkill2 = math.Round(math.Max(0, elo2-delta-drift))
	r.SkillGap = math.Abs(r.NewSkill1 - r.NewSkill2)
	r.AvgSkill = (r.NewSkill1 + r.NewSkill2) / 2
	return
}

// ratingDelta computes the signed rating change for player 1 before drift:
// an elo expected-score delta, plus a sigmoid regression-to-mean adjustment
// for whichever player the outcome favors, clamped to [MIN_DELTA, MAX_DELTA]
// in magnitude with the sign preserved
func ratingDelta(elo1 float64, elo2 float64, adjustmentWeight float64, player1Won bool) (delta float64) {
	expected1 := 1.0 / (1.0 + math.Pow(10, (elo2-elo1)/400.0))

	outcome := 0.0
	if player1Won {
		outcome = 1.0
	}
	delta = K_FACTOR * (outcome - expected1)

	if player1Won {
		delta += adjustmentWeight / (1.0 + math.Exp(-(elo1-NORMALIZED_ELO)/200.0))
	} else {
		delta -= adjustmentWeight / (1.0 + math.Exp(-(elo2-NORMALIZED_ELO)/200.0))
	}

	if delta != 0 {
		magnitude := math.Min(MAX_DELTA, math.Max(MIN_DELTA, math.Abs(delta)))
		delta = math.Copysign(magnitude, delta)
	}
	return
}
