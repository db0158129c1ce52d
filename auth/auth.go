package auth

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
)

type authedctxkey int

const (
	KeyUID authedctxkey = iota
)

const (
	API_KEY_HEADER   = "X-API-Key"
	PLAYER_ID_HEADER = "X-Player-ID"
	PLAYER_ID_PARAM  = "uid"
)

var (
	ErrInvalidAPIKey   = errors.New("invalid api key")
	ErrMissingPlayerID = errors.New("missing player id")
)

type AuthProvider interface {
	AuthenticateRequest(context.Context, *http.Request) (context.Context, error)
	GetUIDFromRequest(*http.Request) (string, error)
}

// StaticKeyAuthProvider authenticates requests against a single shared api
// key and identifies players by header or query parameter
//
// An empty key disables authentication, which is only suitable for local
// development
type StaticKeyAuthProvider struct {
	key string
}

func NewStaticKeyAuthProvider(key string) *StaticKeyAuthProvider {
	return &StaticKeyAuthProvider{
		key: key,
	}
}

func (s *StaticKeyAuthProvider) AuthenticateRequest(ctx context.Context, r *http.Request) (context.Context, error) {
	if s.key != "" && r.Header.Get(API_KEY_HEADER) != s.key {
		return ctx, ErrInvalidAPIKey
	}
	if uid, err := s.GetUIDFromRequest(r); err == nil {
		ctx = context.WithValue(ctx, KeyUID, uid)
	}
	return ctx, nil
}

func (s *StaticKeyAuthProvider) GetUIDFromRequest(r *http.Request) (uid string, err error) {
	if uid = r.Header.Get(PLAYER_ID_HEADER); uid != "" {
		return
	}
	if uid = r.URL.Query().Get(PLAYER_ID_PARAM); uid != "" {
		return
	}
	err = ErrMissingPlayerID
	return
}
