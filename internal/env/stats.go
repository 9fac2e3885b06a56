package env

import "math"

// DeathReason indicates how a game ended
type DeathReason int

const (
	DeathNone      DeathReason = iota
	DeathWall                  // stepped into a wall
	DeathSelf                  // stepped into its own body
	DeathNoMove                // planner found no legal move
	DeathStall                 // no food for too long
	DeathTimeout               // tick cap reached
	DeathBoardFull             // snake fills the board
)

func (d DeathReason) String() string {
	switch d {
	case DeathNone:
		return "none"
	case DeathWall:
		return "wall"
	case DeathSelf:
		return "self"
	case DeathNoMove:
		return "no_move"
	case DeathStall:
		return "stall"
	case DeathTimeout:
		return "timeout"
	case DeathBoardFull:
		return "full"
	default:
		return "unknown"
	}
}

// EpisodeStats captures all metrics from a single episode
type EpisodeStats struct {
	Food   int         // number of food items eaten
	Ticks  int         // number of ticks survived
	Length int         // final snake length
	Death  DeathReason // how the episode ended
	Seed   uint32      // seed used for this episode
}

// AggregatedStats holds statistics across multiple episodes
type AggregatedStats struct {
	FoodMean    float64
	FoodStd     float64
	TicksMean   float64
	LengthMean  float64
	MaxLength   int
	DeathCounts map[DeathReason]int
	NumEpisodes int
}

// Aggregate computes statistics from multiple episode stats
func Aggregate(episodes []EpisodeStats) AggregatedStats {
	n := len(episodes)
	if n == 0 {
		return AggregatedStats{DeathCounts: make(map[DeathReason]int)}
	}

	agg := AggregatedStats{
		DeathCounts: make(map[DeathReason]int),
		NumEpisodes: n,
	}

	var foodSum, ticksSum, lengthSum float64
	for _, ep := range episodes {
		foodSum += float64(ep.Food)
		ticksSum += float64(ep.Ticks)
		lengthSum += float64(ep.Length)
		if ep.Length > agg.MaxLength {
			agg.MaxLength = ep.Length
		}
		agg.DeathCounts[ep.Death]++
	}

	nf := float64(n)
	agg.FoodMean = foodSum / nf
	agg.TicksMean = ticksSum / nf
	agg.LengthMean = lengthSum / nf

	var variance float64
	for _, ep := range episodes {
		diff := float64(ep.Food) - agg.FoodMean
		variance += diff * diff
	}
	agg.FoodStd = math.Sqrt(variance / nf)

	return agg
}

// RobustnessScore is mean food minus lambda standard deviations.
func (a AggregatedStats) RobustnessScore(lambda float64) float64 {
	return a.FoodMean - lambda*a.FoodStd
}
