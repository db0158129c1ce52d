package matchmaking_errors

import (
	"errors"
)

var (
	ErrCycleInProgress  = errors.New("a matchmaking cycle is already in progress")
	ErrNotEnoughPlayers = errors.New("not enough players queued")
)
