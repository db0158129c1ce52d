package constraints

import (
	"sync"

	"github.com/sirupsen/logrus"
)

const (
	TOXICITY_LOW    = "low"
	TOXICITY_MEDIUM = "medium"
	TOXICITY_HIGH   = "high"
)

// MatchConstraints is the live matchmaking policy applied by the pairing
// engine and the rating model
type MatchConstraints struct {
	MaxSkillDiff          float64
	MaxLatencyDiff        float64
	RequireSameRegion     bool
	RequireSamePlayStyle  bool
	BlockHighToxicity     bool
	ToxicityThreshold     string
	SkillAdjustmentWeight float64
}

// PartialMatchConstraints carries a partial policy update,
// nil fields are left untouched by Store.Update
type PartialMatchConstraints struct {
	MaxSkillDiff          *float64
	MaxLatencyDiff        *float64
	RequireSameRegion     *bool
	RequireSamePlayStyle  *bool
	BlockHighToxicity     *bool
	ToxicityThreshold     *string
	SkillAdjustmentWeight *float64
}

func DefaultMatchConstraints() MatchConstraints {
	return MatchConstraints{
		MaxSkillDiff:          1000,
		MaxLatencyDiff:        50,
		RequireSameRegion:     true,
		RequireSamePlayStyle:  true,
		BlockHighToxicity:     true,
		ToxicityThreshold:     TOXICITY_MEDIUM,
		SkillAdjustmentWeight: 1.0,
	}
}

// ToxicityRank maps a toxicity level to its ordinal rank for threshold
// comparisons. Unknown levels rank above high so the toxicity gate
// always blocks them.
func ToxicityRank(level string) int {
	switch level {
	case TOXICITY_LOW:
		return 1
	case TOXICITY_MEDIUM:
		return 2
	case TOXICITY_HIGH:
		return 3
	}
	return 4
}

// Store is the single authoritative holder of the live policy
//
// Updates arrive from the conditions channel while matchmaking cycles are
// running, reads are not snapshotted per cycle, so an update landing
// mid-cycle applies to the remaining pairs of that cycle
type Store struct {
	sync.Mutex

	current MatchConstraints
	logger  *logrus.Logger
}

func NewStore(logger *logrus.Logger, initial MatchConstraints) (s *Store) {
	s = &Store{
		current: initial,
		logger:  logger,
	}
	return
}

// Get returns the current policy by value
func (s *Store) Get() (c MatchConstraints) {
	s.Lock()
	c = s.current
	s.Unlock()
	return
}

// Update merges the non-nil fields of partial into the live policy.
// Values are not range checked, a nonsensical threshold simply matches
// nobody until it is corrected.
func (s *Store) Update(partial PartialMatchConstraints) {
	s.Lock()
	if partial.MaxSkillDiff != nil {
		s.current.MaxSkillDiff = *partial.MaxSkillDiff
	}
	if partial.MaxLatencyDiff != nil {
		s.current.MaxLatencyDiff = *partial.MaxLatencyDiff
	}
	if partial.RequireSameRegion != nil {
		s.current.RequireSameRegion = *partial.RequireSameRegion
	}
	if partial.RequireSamePlayStyle != nil {
		s.current.RequireSamePlayStyle = *partial.RequireSamePlayStyle
	}
	if partial.BlockHighToxicity != nil {
		s.current.BlockHighToxicity = *partial.BlockHighToxicity
	}
	if partial.ToxicityThreshold != nil {
		s.current.ToxicityThreshold = *partial.ToxicityThreshold
	}
	if partial.SkillAdjustmentWeight != nil {
		s.current.SkillAdjustmentWeight = *partial.SkillAdjustmentWeight
	}
	updated := s.current
	s.Unlock()

	s.logger.WithFields(logrus.Fields{
		"maxSkillDiff":          updated.MaxSkillDiff,
		"maxLatencyDiff":        updated.MaxLatencyDiff,
		"requireSameRegion":     updated.RequireSameRegion,
		"requireSamePlayStyle":  updated.RequireSamePlayStyle,
		"blockHighToxicity":     updated.BlockHighToxicity,
		"toxicityThreshold":     updated.ToxicityThreshold,
		"skillAdjustmentWeight": updated.SkillAdjustmentWeight,
	}).Info("constraints updated")
}
