package matchmaking

import (
	"math"

	"github.com/gunnermanx/simplematchmaker/constraints"
	"github.com/gunnermanx/simplematchmaker/datastore/model"
)

// MatchedPair is one pairing produced for a single cycle, it is never
// persisted
type MatchedPair struct {
	P1 model.PlayerProfile
	P2 model.PlayerProfile
}

// PairPlayers greedily pairs players under the given policy
//
// The head of the unmatched sequence is matched with the first remaining
// player that passes every active constraint, ties go to input order. A head
// with no eligible partner is dropped for this cycle, as is a single
// leftover player. Callers are expected to pass only eligible profiles.
//
// The first-fit scan is deliberately not globally optimal, it is cheap and
// fully deterministic for a fixed input order.
func PairPlayers(players []model.PlayerProfile, c constraints.MatchConstraints) (pairs []MatchedPair) {
	unmatched := append([]model.PlayerProfile(nil), players...)

	for len(unmatched) > 1 {
		head := unmatched[0]
		unmatched = unmatched[1:]

		for i, other := range unmatched {
			if !meetsConstraints(head, other, c) {
				continue
			}
			pairs = append(pairs, MatchedPair{
				P1: head,
				P2: other,
			})
			unmatched = append(unmatched[:i], unmatched[i+1:]...)
			break
		}
	}
	return
}

func meetsConstraints(a model.PlayerProfile, b model.PlayerProfile, c constraints.MatchConstraints) bool {
	if math.Abs(a.Skill-b.Skill) > c.MaxSkillDiff {
		return false
	}
	if math.Abs(a.Latency-b.Latency) > c.MaxLatencyDiff {
		return false
	}
	if c.RequireSameRegion && a.Region != b.Region {
		return false
	}
	if c.RequireSamePlayStyle && a.PlayStyle != b.PlayStyle {
		return false
	}
	if c.BlockHighToxicity {
		threshold := constraints.ToxicityRank(c.ToxicityThreshold)
		if constraints.ToxicityRank(a.Toxicity) > threshold || constraints.ToxicityRank(b.Toxicity) > threshold {
			return false
		}
	}
	return true
}
