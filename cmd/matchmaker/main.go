package main

import (
	"math/rand"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/gunnermanx/simplematchmaker/auth"
	"github.com/gunnermanx/simplematchmaker/bus/wsbus"
	"github.com/gunnermanx/simplematchmaker/config"
	"github.com/gunnermanx/simplematchmaker/constraints"
	"github.com/gunnermanx/simplematchmaker/datastore/memory"
	"github.com/gunnermanx/simplematchmaker/matchmaking"
	"github.com/gunnermanx/simplematchmaker/rating"
	"github.com/gunnermanx/simplematchmaker/sessions"
)

func main() {
	logger := logrus.New()

	conf, err := config.LoadMatchmakerConfig()
	if err != nil {
		logger.Errorf("failed to load config: %s", err.Error())
		os.Exit(1)
	}
	if conf.DebugMode {
		logger.SetLevel(logrus.DebugLevel)
	}

	authProvider := auth.NewStaticKeyAuthProvider(conf.APIKey)
	hub := wsbus.NewHub(logger, authProvider)
	defer hub.Close()

	cs := constraints.NewStore(logger, constraints.MatchConstraints{
		MaxSkillDiff:          conf.Constraints.MaxSkillDiff,
		MaxLatencyDiff:        conf.Constraints.MaxLatencyDiff,
		RequireSameRegion:     conf.Constraints.RequireSameRegion,
		RequireSamePlayStyle:  conf.Constraints.RequireSamePlayStyle,
		BlockHighToxicity:     conf.Constraints.BlockHighToxicity,
		ToxicityThreshold:     conf.Constraints.ToxicityThreshold,
		SkillAdjustmentWeight: conf.Constraints.SkillAdjustmentWeight,
	})

	sms := matchmaking.New(
		conf,
		logger,
		authProvider,
		hub,
		memory.New(),
		sessions.NewClient(conf.SessionAPIURL, logger),
		cs,
		rating.NewSimulator(rand.New(rand.NewSource(time.Now().UnixNano()))),
	)

	sms.RegisterHandler("/connect", hub.ConnectHandler)
	sms.RegisterHandler("/metrics", promhttp.Handler().ServeHTTP)

	if err = sms.Start(); err != nil {
		logger.Errorf("matchmaking server stopped: %s", err.Error())
		os.Exit(1)
	}
}
