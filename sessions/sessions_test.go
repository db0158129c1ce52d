package sessions

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestClient(t *testing.T) {
	ctx := context.Background()
	logger := logrus.New()

	t.Run("create posts both players and returns the session id", func(t *testing.T) {
		var gotMethod, gotPath string
		var gotBody map[string]string

		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotPath = r.URL.Path
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"session_id":"srv-42"}`))
		}))
		defer ts.Close()

		sessionID, err := NewClient(ts.URL, logger).Create(ctx, "p1", "p2")
		require.NoError(t, err)
		require.Equal(t, "srv-42", sessionID)
		require.Equal(t, http.MethodPost, gotMethod)
		require.Equal(t, CREATE_SESSION_PATH, gotPath)
		require.Equal(t, map[string]string{"player1": "p1", "player2": "p2"}, gotBody)
	})

	t.Run("create surfaces non success statuses", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer ts.Close()

		_, err := NewClient(ts.URL, logger).Create(ctx, "p1", "p2")
		require.Error(t, err)
	})

	t.Run("start posts to the session path", func(t *testing.T) {
		var gotMethod, gotPath string

		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotPath = r.URL.Path
			w.Write([]byte(`{"session_id":"session-1"}`))
		}))
		defer ts.Close()

		started, err := NewClient(ts.URL, logger).Start(ctx, "session-1")
		require.NoError(t, err)
		require.True(t, started)
		require.Equal(t, http.MethodPost, gotMethod)
		require.Equal(t, START_SESSION_PATH+"session-1", gotPath)
	})

	t.Run("start reports failure without panicking", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer ts.Close()

		started, err := NewClient(ts.URL, logger).Start(ctx, "session-1")
		require.Error(t, err)
		require.False(t, started)
	})

	t.Run("delete issues a DELETE on the session path", func(t *testing.T) {
		var gotMethod, gotPath string

		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotPath = r.URL.Path
		}))
		defer ts.Close()

		require.NoError(t, NewClient(ts.URL, logger).Delete(ctx, "session-1"))
		require.Equal(t, http.MethodDelete, gotMethod)
		require.Equal(t, DELETE_SESSION_PATH+"session-1", gotPath)
	})

	t.Run("transport errors are wrapped", func(t *testing.T) {
		// nothing is listening here
		_, err := NewClient("http://127.0.0.1:1", logger).Create(ctx, "p1", "p2")
		require.Error(t, err)
	})
}
