package matchmaking

import (
	"context"
	"net/http"
	"time"

	"github.com/gunnermanx/simplematchmaker/common"
)

const (
	REQUEST_TIMEOUT_S = 5
)

const (
	FIND_MATCH_PATH = "/match/find"
)

func (sms *SimpleMatchmakingServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), REQUEST_TIMEOUT_S*time.Second)
	defer cancel()

	var err error
	if ctx, err = sms.authProvider.AuthenticateRequest(ctx, r); err != nil {
		common.WriteErrorResponse(w, http.StatusUnauthorized, err.Error())
		return
	}
	sms.serveMux.ServeHTTP(w, r.WithContext(ctx))
}

// RegisterHandler is used to register additional http handlers, such as the
// bus connect upgrade or a metrics endpoint
func (sms *SimpleMatchmakingServer) RegisterHandler(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	sms.serveMux.HandleFunc(pattern, handler)
}

func (sms *SimpleMatchmakingServer) setupHandlers() {
	sms.serveMux.HandleFunc(FIND_MATCH_PATH, sms.findMatchHandler)
}

// findMatchHandler queues the calling player, an http alternative to
// publishing on the join channel
func (sms *SimpleMatchmakingServer) findMatchHandler(w http.ResponseWriter, r *http.Request) {
	var err error
	var playerID string
	if playerID, err = sms.authProvider.GetUIDFromRequest(r); err != nil {
		common.WriteErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	var payload map[string]interface{}
	if r.ContentLength > 0 {
		var statusCode int
		if statusCode, err = common.UnmarshalJSONRequestBody(w, r, &payload); err != nil {
			common.WriteErrorResponse(w, statusCode, err.Error())
			return
		}
	}

	queued := sms.queue.Enqueue(playerID, payload)
	if queued {
		sms.logger.WithField("playerID", playerID).Info("player queued for matchmaking")
	}

	common.WriteResponse(w, http.StatusOK, common.ResponseData{
		"queued":     queued,
		"queueDepth": sms.queue.Len(),
	})
}
