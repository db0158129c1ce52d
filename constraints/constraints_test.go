package constraints

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestToxicityRank(t *testing.T) {
	require.Equal(t, 1, ToxicityRank(TOXICITY_LOW))
	require.Equal(t, 2, ToxicityRank(TOXICITY_MEDIUM))
	require.Equal(t, 3, ToxicityRank(TOXICITY_HIGH))
	// unknown levels must never slip under the threshold
	require.Greater(t, ToxicityRank("radioactive"), ToxicityRank(TOXICITY_HIGH))
}

func TestStore(t *testing.T) {
	logger := logrus.New()

	t.Run("update merges only the fields present", func(t *testing.T) {
		s := NewStore(logger, DefaultMatchConstraints())

		maxSkillDiff := 250.0
		s.Update(PartialMatchConstraints{
			MaxSkillDiff: &maxSkillDiff,
		})

		c := s.Get()
		require.Equal(t, 250.0, c.MaxSkillDiff)
		require.Equal(t, 50.0, c.MaxLatencyDiff)
		require.True(t, c.RequireSameRegion)
		require.Equal(t, TOXICITY_MEDIUM, c.ToxicityThreshold)
	})

	t.Run("update can replace every field", func(t *testing.T) {
		s := NewStore(logger, DefaultMatchConstraints())

		maxSkillDiff := 10.0
		maxLatencyDiff := 20.0
		sameRegion := false
		samePlayStyle := false
		blockToxicity := false
		threshold := TOXICITY_HIGH
		weight := 2.5
		s.Update(PartialMatchConstraints{
			MaxSkillDiff:          &maxSkillDiff,
			MaxLatencyDiff:        &maxLatencyDiff,
			RequireSameRegion:     &sameRegion,
			RequireSamePlayStyle:  &samePlayStyle,
			BlockHighToxicity:     &blockToxicity,
			ToxicityThreshold:     &threshold,
			SkillAdjustmentWeight: &weight,
		})

		require.Equal(t, MatchConstraints{
			MaxSkillDiff:          10,
			MaxLatencyDiff:        20,
			RequireSameRegion:     false,
			RequireSamePlayStyle:  false,
			BlockHighToxicity:     false,
			ToxicityThreshold:     TOXICITY_HIGH,
			SkillAdjustmentWeight: 2.5,
		}, s.Get())
	})

	t.Run("values are not range checked", func(t *testing.T) {
		s := NewStore(logger, DefaultMatchConstraints())

		negative := -5.0
		s.Update(PartialMatchConstraints{
			MaxSkillDiff: &negative,
		})
		require.Equal(t, -5.0, s.Get().MaxSkillDiff)
	})

	t.Run("get returns a copy", func(t *testing.T) {
		s := NewStore(logger, DefaultMatchConstraints())

		c := s.Get()
		c.MaxSkillDiff = 1
		require.Equal(t, 1000.0, s.Get().MaxSkillDiff)
	})
}
