package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func fullMetadata() map[string]interface{} {
	return map[string]interface{}{
		"skill":          float64(1250),
		"latency":        float64(35),
		"region":         "NA",
		"playStyle":      "aggressive",
		"toxicity":       "low",
		"inputDevice":    "controller",
		"favoriteWeapon": "rifle",
	}
}

func TestProfileFromMetadata(t *testing.T) {

	t.Run("complete metadata parses", func(t *testing.T) {
		p, err := ProfileFromMetadata("p1", fullMetadata())
		require.NoError(t, err)
		require.Equal(t, PlayerProfile{
			ID:             "p1",
			Skill:          1250,
			Latency:        35,
			Region:         "NA",
			PlayStyle:      "aggressive",
			Toxicity:       "low",
			InputDevice:    "controller",
			FavoriteWeapon: "rifle",
		}, p)
	})

	t.Run("missing skill defaults to 1500", func(t *testing.T) {
		meta := fullMetadata()
		delete(meta, "skill")

		p, err := ProfileFromMetadata("p1", meta)
		require.NoError(t, err)
		require.Equal(t, float64(DEFAULT_SKILL), p.Skill)
	})

	t.Run("mistyped skill is rejected", func(t *testing.T) {
		meta := fullMetadata()
		meta["skill"] = "1250"

		_, err := ProfileFromMetadata("p1", meta)
		require.ErrorIs(t, err, ErrIncompleteProfile)
	})

	t.Run("any other missing field is rejected", func(t *testing.T) {
		for _, field := range []string{"latency", "region", "playStyle", "toxicity", "inputDevice", "favoriteWeapon"} {
			meta := fullMetadata()
			delete(meta, field)

			_, err := ProfileFromMetadata("p1", meta)
			require.ErrorIs(t, err, ErrIncompleteProfile, "expected %q to be required", field)
		}
	})

	t.Run("mistyped string field is rejected", func(t *testing.T) {
		meta := fullMetadata()
		meta["region"] = 7

		_, err := ProfileFromMetadata("p1", meta)
		require.ErrorIs(t, err, ErrIncompleteProfile)
	})

	t.Run("unknown toxicity level is rejected", func(t *testing.T) {
		meta := fullMetadata()
		meta["toxicity"] = "radioactive"

		_, err := ProfileFromMetadata("p1", meta)
		require.ErrorIs(t, err, ErrIncompleteProfile)
	})

	t.Run("integer numbers are accepted", func(t *testing.T) {
		meta := fullMetadata()
		meta["skill"] = 1250
		meta["latency"] = 35

		p, err := ProfileFromMetadata("p1", meta)
		require.NoError(t, err)
		require.Equal(t, float64(1250), p.Skill)
		require.Equal(t, float64(35), p.Latency)
	})
}
