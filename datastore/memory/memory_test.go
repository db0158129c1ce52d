package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gunnermanx/simplematchmaker/datastore"
)

func TestStore(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown player has no profile", func(t *testing.T) {
		s := New()
		_, err := s.GetProfile(ctx, "p1")
		require.ErrorIs(t, err, datastore.ErrProfileNotFound)
	})

	t.Run("merge creates and updates", func(t *testing.T) {
		s := New()

		require.NoError(t, s.MergeProfile(ctx, "p1", map[string]interface{}{
			"region": "NA",
			"skill":  float64(1200),
		}))
		require.NoError(t, s.MergeProfile(ctx, "p1", map[string]interface{}{
			"skill": float64(1300),
		}))

		meta, err := s.GetProfile(ctx, "p1")
		require.NoError(t, err)
		require.Equal(t, "NA", meta["region"])
		require.Equal(t, float64(1300), meta["skill"])
	})

	t.Run("returned metadata is a copy", func(t *testing.T) {
		s := New()
		require.NoError(t, s.MergeProfile(ctx, "p1", map[string]interface{}{"region": "NA"}))

		meta, err := s.GetProfile(ctx, "p1")
		require.NoError(t, err)
		meta["region"] = "EU"

		meta, err = s.GetProfile(ctx, "p1")
		require.NoError(t, err)
		require.Equal(t, "NA", meta["region"])
	})
}
