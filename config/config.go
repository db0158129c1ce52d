package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// MatchmakerConfig holds everything the matchmaking server needs at boot:
// the listen port, the cycle timer, the external session API endpoint, the
// bus channel names and the initial constraint policy
type MatchmakerConfig struct {
	DebugMode      bool
	Port           string
	APIKey         string
	TickIntervalMS int

	SessionAPIURL string

	JoinChannel       string
	ConditionsChannel string
	ProfilesChannel   string
	ReportChannel     string

	Constraints ConstraintDefaults
}

// ConstraintDefaults seeds the constraint store at process start
type ConstraintDefaults struct {
	MaxSkillDiff          float64
	MaxLatencyDiff        float64
	RequireSameRegion     bool
	RequireSamePlayStyle  bool
	BlockHighToxicity     bool
	ToxicityThreshold     string
	SkillAdjustmentWeight float64
}

func LoadMatchmakerConfig() (mc *MatchmakerConfig, err error) {
	viper.GetViper().AddConfigPath("config/")
	viper.SetConfigName("matchmaker")
	viper.SetConfigType("yaml")

	viper.SetDefault("server.port", "8081")
	viper.SetDefault("server.tickIntervalMS", 10000)
	viper.SetDefault("sessions.url", "http://127.0.0.1:8080")
	viper.SetDefault("bus.joinChannel", "matchmaking")
	viper.SetDefault("bus.conditionsChannel", "conditions")
	viper.SetDefault("bus.profilesChannel", "profile-updates")
	viper.SetDefault("bus.reportChannel", "match-reports")
	viper.SetDefault("constraints.maxSkillDiff", 1000.0)
	viper.SetDefault("constraints.maxLatencyDiff", 50.0)
	viper.SetDefault("constraints.requireSameRegion", true)
	viper.SetDefault("constraints.requireSamePlayStyle", true)
	viper.SetDefault("constraints.blockHighToxicity", true)
	viper.SetDefault("constraints.toxicityThreshold", "medium")
	viper.SetDefault("constraints.skillAdjustmentWeight", 1.0)

	if err = viper.ReadInConfig(); err != nil {
		err = fmt.Errorf("SMM: %w", err)
		return
	}

	mc = &MatchmakerConfig{
		DebugMode:         viper.GetBool("server.debugMode"),
		Port:              viper.GetString("server.port"),
		APIKey:            viper.GetString("server.apiKey"),
		TickIntervalMS:    viper.GetInt("server.tickIntervalMS"),
		SessionAPIURL:     viper.GetString("sessions.url"),
		JoinChannel:       viper.GetString("bus.joinChannel"),
		ConditionsChannel: viper.GetString("bus.conditionsChannel"),
		ProfilesChannel:   viper.GetString("bus.profilesChannel"),
		ReportChannel:     viper.GetString("bus.reportChannel"),
		Constraints: ConstraintDefaults{
			MaxSkillDiff:          viper.GetFloat64("constraints.maxSkillDiff"),
			MaxLatencyDiff:        viper.GetFloat64("constraints.maxLatencyDiff"),
			RequireSameRegion:     viper.GetBool("constraints.requireSameRegion"),
			RequireSamePlayStyle:  viper.GetBool("constraints.requireSamePlayStyle"),
			BlockHighToxicity:     viper.GetBool("constraints.blockHighToxicity"),
			ToxicityThreshold:     viper.GetString("constraints.toxicityThreshold"),
			SkillAdjustmentWeight: viper.GetFloat64("constraints.skillAdjustmentWeight"),
		},
	}

	return
}
