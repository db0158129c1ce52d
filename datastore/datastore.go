package datastore

import (
	"context"

	"github.com/pkg/errors"
)

var ErrProfileNotFound = errors.New("no profile for player")

// ProfileStore is the external player-profile store
//
// Profiles are exchanged as raw metadata maps so that eligibility checking
// stays with the caller, an incomplete record is still fetchable here
type ProfileStore interface {
	GetProfile(ctx context.Context, playerID string) (map[string]interface{}, error)
	MergeProfile(ctx context.Context, playerID string, partial map[string]interface{}) error
}
