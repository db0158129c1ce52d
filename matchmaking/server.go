package matchmaking

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/gunnermanx/simplematchmaker/auth"
	"github.com/gunnermanx/simplematchmaker/bus"
	"github.com/gunnermanx/simplematchmaker/config"
	"github.com/gunnermanx/simplematchmaker/constraints"
	"github.com/gunnermanx/simplematchmaker/datastore"
	"github.com/gunnermanx/simplematchmaker/datastore/model"
	matchmaking_errors "github.com/gunnermanx/simplematchmaker/matchmaking/errors"
	"github.com/gunnermanx/simplematchmaker/metrics"
	"github.com/gunnermanx/simplematchmaker/rating"
	"github.com/gunnermanx/simplematchmaker/sessions"
)

// The server should handle the following responsibilities
//
// Buffering join requests from the bus into the intake queue
// Draining the queue on a timer and pairing players under live constraints
// Driving session lifecycle, rating updates and notifications per pair
// Applying constraint updates arriving on the conditions channel

const (
	GRACEFUL_SHUTDOWN_TIME_S = 10

	MAX_SKILL_GAP_KEY = "max_skill_gap"
)

type SimpleMatchmakingServer struct {
	sync.Mutex

	config   *config.MatchmakerConfig
	serveMux *http.ServeMux
	server   *http.Server
	logger   *logrus.Logger

	bus          bus.Bus
	profiles     datastore.ProfileStore
	sessions     sessions.API
	constraints  *constraints.Store
	simulator    *rating.Simulator
	authProvider auth.AuthProvider

	queue   *IntakeQueue
	running bool
}

func New(
	conf *config.MatchmakerConfig,
	logger *logrus.Logger,
	ap auth.AuthProvider,
	b bus.Bus,
	profiles datastore.ProfileStore,
	sessionsAPI sessions.API,
	cs *constraints.Store,
	sim *rating.Simulator,
) (s *SimpleMatchmakingServer) {

	s = &SimpleMatchmakingServer{
		config:       conf,
		logger:       logger,
		authProvider: ap,
		bus:          b,
		profiles:     profiles,
		sessions:     sessionsAPI,
		constraints:  cs,
		simulator:    sim,
		serveMux:     http.NewServeMux(),
		queue:        NewIntakeQueue(),
	}

	s.setupHandlers()
	s.server = &http.Server{
		Handler: s,
	}

	b.Subscribe(conf.JoinChannel, s.handleJoin)
	b.Subscribe(conf.ConditionsChannel, s.handleConditions)
	b.Subscribe(conf.ProfilesChannel, s.handleProfileUpdate)

	return
}

// Start the matchmaking server and its cycle timer
func (sms *SimpleMatchmakingServer) Start() (err error) {
	var listener net.Listener
	if listener, err = net.Listen("tcp", fmt.Sprintf(":%s", sms.config.Port)); err != nil {
		err = errors.Wrap(err, "failed to start matchmaking server")
		sms.logger.Error(err)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sms.run(ctx)

	// Start the http server
	errc := make(chan error, 1)
	go func() {
		sms.logger.Infof("Starting matchmaking server on: %s", listener.Addr().String())
		errc <- sms.server.Serve(listener)
	}()

	// Wait for termination or errors
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)
	select {
	case err = <-errc:
		sms.logger.Errorf("failed to serve: %s", err.Error())
	case sig := <-sigs:
		sms.logger.Errorf("terminating on sig: %v", sig)
	}

	// Gracefully shutdown with timeout of 10s
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Second*GRACEFUL_SHUTDOWN_TIME_S)
	defer shutdownCancel()
	return sms.server.Shutdown(shutdownCtx)
}

// run fires matchmaking cycles on a fixed interval until ctx is cancelled
func (sms *SimpleMatchmakingServer) run(ctx context.Context) {
	ticker := time.NewTicker(time.Duration(sms.config.TickIntervalMS) * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := sms.processQueue(ctx); err != nil {
				sms.logger.Debugf("skipping matchmaking cycle: %s", err.Error())
			}
		}
	}
}

// processQueue runs one matchmaking cycle: drain, resolve, pair, then
// process each pair sequentially
//
// At most one cycle is ever in flight, a tick landing mid-cycle is skipped
// outright rather than queued or merged
func (sms *SimpleMatchmakingServer) processQueue(ctx context.Context) (err error) {
	sms.Lock()
	if sms.running {
		sms.Unlock()
		metrics.CyclesSkipped.Inc()
		return matchmaking_errors.ErrCycleInProgress
	}
	if sms.queue.Len() < 2 {
		sms.Unlock()
		metrics.CyclesSkipped.Inc()
		return matchmaking_errors.ErrNotEnoughPlayers
	}
	sms.running = true
	sms.Unlock()

	started := time.Now()
	defer func() {
		sms.Lock()
		sms.running = false
		sms.Unlock()
		metrics.CycleDuration.Observe(time.Since(started).Seconds())
	}()

	metrics.CyclesRun.Inc()
	sms.logger.Info("processing matchmaking queue")

	entries := sms.queue.DrainAll()
	cohort := make([]string, 0, len(entries))
	for _, entry := range entries {
		cohort = append(cohort, entry.PlayerID)
	}

	// Everyone drained this cycle learns the full cohort under
	// consideration, not just their eventual opponent
	for _, playerID := range cohort {
		if perr := sms.bus.Publish(ctx, playerID, PlayerNotification{
			Status:       STATUS_PROCESSING,
			MatchedUsers: cohort,
		}); perr != nil {
			sms.logger.WithField("playerID", playerID).Errorf("failed to publish processing notification: %s", perr.Error())
		}
	}

	players := sms.resolveProfiles(ctx, cohort)

	pairs := PairPlayers(players, sms.constraints.Get())
	for _, pair := range pairs {
		sms.processPair(ctx, pair)
	}
	return
}

// resolveProfiles fetches and validates the profile of every drained
// player, dropping failures for this cycle with a warning
func (sms *SimpleMatchmakingServer) resolveProfiles(ctx context.Context, playerIDs []string) (players []model.PlayerProfile) {
	for _, playerID := range playerIDs {
		meta, err := sms.profiles.GetProfile(ctx, playerID)
		if err != nil {
			sms.logger.WithField("playerID", playerID).Errorf("failed to fetch profile: %s", err.Error())
			metrics.PlayersDropped.Inc()
			continue
		}

		var p model.PlayerProfile
		if p, err = model.ProfileFromMetadata(playerID, meta); err != nil {
			sms.logger.WithField("playerID", playerID).Warnf("skipping player: %s", err.Error())
			metrics.PlayersDropped.Inc()
			continue
		}
		players = append(players, p)
	}
	return
}

// processPair drives one matched pair through the session lifecycle, the
// simulated match and the rating persistence
//
// Every external failure is soft, the pair keeps moving through its
// remaining steps and the cycle continues to the next pair
func (sms *SimpleMatchmakingServer) processPair(ctx context.Context, pair MatchedPair) {
	log := sms.logger.WithFields(logrus.Fields{
		"player1": pair.P1.ID,
		"player2": pair.P2.ID,
	})
	log.Info("match created")
	metrics.PairsMatched.Inc()

	sessionID := fmt.Sprintf("session-%d", time.Now().UnixMilli())

	if _, err := sms.sessions.Create(ctx, pair.P1.ID, pair.P2.ID); err != nil {
		metrics.SessionCallFailures.Inc()
		log.Errorf("failed to create session: %s", err.Error())
	}

	sms.notifyMatched(ctx, pair.P1.ID, pair.P2.ID)

	if _, err := sms.sessions.Start(ctx, sessionID); err != nil {
		metrics.SessionCallFailures.Inc()
		log.Errorf("failed to start session: %s", err.Error())
	}

	// Constraints are read again here, an update landing mid-cycle applies
	// to the simulation of the remaining pairs
	result := sms.simulator.Simulate(pair.P1, pair.P2, sms.constraints.Get())

	if err := sms.profiles.MergeProfile(ctx, pair.P1.ID, map[string]interface{}{"skill": result.NewSkill1}); err != nil {
		log.Errorf("failed to persist rating for %s: %s", pair.P1.ID, err.Error())
	}
	if err := sms.profiles.MergeProfile(ctx, pair.P2.ID, map[string]interface{}{"skill": result.NewSkill2}); err != nil {
		log.Errorf("failed to persist rating for %s: %s", pair.P2.ID, err.Error())
	}

	if err := sms.bus.Publish(ctx, sms.config.ReportChannel, MatchReport{
		SessionID: sessionID,
		Player1:   pair.P1.ID,
		Player2:   pair.P2.ID,
		SkillGap:  result.SkillGap,
		AvgSkill:  result.AvgSkill,
	}); err != nil {
		log.Errorf("failed to publish match report: %s", err.Error())
	}

	if err := sms.sessions.Delete(ctx, sessionID); err != nil {
		metrics.SessionCallFailures.Inc()
		log.Errorf("failed to delete session: %s", err.Error())
	}

	log.WithFields(logrus.Fields{
		"newSkill1": result.NewSkill1,
		"newSkill2": result.NewSkill2,
	}).Info("game finished")
}

func (sms *SimpleMatchmakingServer) notifyMatched(ctx context.Context, player1ID string, player2ID string) {
	lobby := LobbyChannel(player1ID, player2ID)
	sms.logger.WithField("lobby", lobby).Info("game lobby created")

	notifications := []struct {
		channel string
		data    interface{}
	}{
		{player1ID, PlayerNotification{Status: STATUS_MATCHED, Lobby: lobby, Opponent: player2ID}},
		{player2ID, PlayerNotification{Status: STATUS_MATCHED, Lobby: lobby, Opponent: player1ID}},
		{lobby, LobbyAnnouncement{Status: fmt.Sprintf("Starting game for %s vs %s", player1ID, player2ID)}},
	}
	for _, n := range notifications {
		if err := sms.bus.Publish(ctx, n.channel, n.data); err != nil {
			sms.logger.WithField("channel", n.channel).Errorf("failed to publish match notification: %s", err.Error())
		}
	}
}

// handleJoin buffers a join request from the bus
func (sms *SimpleMatchmakingServer) handleJoin(msg bus.Message) {
	playerID := msg.Publisher
	if playerID == "" || playerID == bus.SERVER_PUBLISHER {
		if data, ok := msg.Data.(map[string]interface{}); ok {
			playerID, _ = data["userId"].(string)
		}
	}
	if playerID == "" {
		sms.logger.Warn("dropping join request without a player id")
		return
	}

	if sms.queue.Enqueue(playerID, msg.Data) {
		sms.logger.WithField("playerID", playerID).Info("player queued for matchmaking")
	} else {
		sms.logger.WithField("playerID", playerID).Debug("player already queued")
	}
}

// handleConditions applies a partial constraint update from the bus
//
// Updates are accepted field by field, only recognized keys are applied and
// anything else is ignored with a warning
func (sms *SimpleMatchmakingServer) handleConditions(msg bus.Message) {
	data, ok := msg.Data.(map[string]interface{})
	if !ok {
		sms.logger.Warn("invalid message format received on conditions channel")
		return
	}

	var partial constraints.PartialMatchConstraints
	recognized := false

	if raw, present := data[MAX_SKILL_GAP_KEY]; present {
		if v, numeric := asNumber(raw); numeric {
			partial.MaxSkillDiff = &v
			recognized = true
		} else {
			sms.logger.Warnf("ignoring non-numeric %s value: %v", MAX_SKILL_GAP_KEY, raw)
		}
	}

	if !recognized {
		sms.logger.Warnf("received message, but no valid constraint updates found: %v", data)
		return
	}
	sms.constraints.Update(partial)
}

// handleProfileUpdate merges player supplied metadata into the profile store
func (sms *SimpleMatchmakingServer) handleProfileUpdate(msg bus.Message) {
	if msg.Publisher == "" || msg.Publisher == bus.SERVER_PUBLISHER {
		sms.logger.Warn("dropping profile update without a player id")
		return
	}
	data, ok := msg.Data.(map[string]interface{})
	if !ok {
		sms.logger.WithField("playerID", msg.Publisher).Warn("invalid profile update format")
		return
	}

	if err := sms.profiles.MergeProfile(context.Background(), msg.Publisher, data); err != nil {
		sms.logger.WithField("playerID", msg.Publisher).Errorf("failed to merge profile: %s", err.Error())
		return
	}
	sms.logger.WithField("playerID", msg.Publisher).Info("profile updated")
}

func asNumber(v interface{}) (f float64, ok bool) {
	switch n := v.(type) {
	case float64:
		f, ok = n, true
	case int:
		f, ok = float64(n), true
	}
	return
}
