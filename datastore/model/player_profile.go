package model

import (
	"github.com/pkg/errors"

	"github.com/gunnermanx/simplematchmaker/constraints"
)

const DEFAULT_SKILL = 1500

var ErrIncompleteProfile = errors.New("profile is missing required metadata")

// PlayerProfile is the per-player attribute record used for pairing
// decisions and rating updates
type PlayerProfile struct {
	ID             string
	Skill          float64
	Latency        float64
	Region         string
	PlayStyle      string
	Toxicity       string
	InputDevice    string
	FavoriteWeapon string
}

// ProfileFromMetadata builds a PlayerProfile from the raw metadata map held
// by the profile store
//
// Every field must be present and correctly typed or the profile is
// rejected, with one exception: a missing skill defaults to 1500 so that
// brand new players can still be matched. A present-but-mistyped skill is
// still a rejection.
func ProfileFromMetadata(playerID string, meta map[string]interface{}) (p PlayerProfile, err error) {
	p.ID = playerID

	if _, present := meta["skill"]; present {
		if p.Skill, err = numberField(meta, "skill"); err != nil {
			return
		}
	} else {
		p.Skill = DEFAULT_SKILL
	}

	if p.Latency, err = numberField(meta, "latency"); err != nil {
		return
	}
	if p.Region, err = stringField(meta, "region"); err != nil {
		return
	}
	if p.PlayStyle, err = stringField(meta, "playStyle"); err != nil {
		return
	}
	if p.InputDevice, err = stringField(meta, "inputDevice"); err != nil {
		return
	}
	if p.FavoriteWeapon, err = stringField(meta, "favoriteWeapon"); err != nil {
		return
	}
	if p.Toxicity, err = stringField(meta, "toxicity"); err != nil {
		return
	}
	switch p.Toxicity {
	case constraints.TOXICITY_LOW, constraints.TOXICITY_MEDIUM, constraints.TOXICITY_HIGH:
	default:
		err = errors.Wrapf(ErrIncompleteProfile, "unknown toxicity level %q", p.Toxicity)
	}
	return
}

func numberField(meta map[string]interface{}, key string) (f float64, err error) {
	v, present := meta[key]
	if !present {
		err = errors.Wrapf(ErrIncompleteProfile, "missing field %q", key)
		return
	}
	switch n := v.(type) {
	case float64:
		f = n
	case int:
		f = float64(n)
	default:
		err = errors.Wrapf(ErrIncompleteProfile, "field %q is not a number", key)
	}
	return
}

func stringField(meta map[string]interface{}, key string) (s string, err error) {
	v, present := meta[key]
	if !present {
		err = errors.Wrapf(ErrIncompleteProfile, "missing field %q", key)
		return
	}
	var ok bool
	if s, ok = v.(string); !ok {
		err = errors.Wrapf(ErrIncompleteProfile, "field %q is not a string", key)
	}
	return
}
