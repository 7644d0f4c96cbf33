package scoring

import "github.com/hackcentral/hackcentral-api/internal/models"

// Default fractional weights applied when a hybrid round leaves them unset.
const (
	DefaultJudgeWeight = 0.7
	DefaultAIWeight    = 0.3
)

// BlendConfig carries a round's scoring mode and fractional weights into the
// blender. Weights are only consulted in hybrid mode.
type BlendConfig struct {
	Mode        string
	AIWeight    float64
	JudgeWeight float64
}

// BlendConfigForRound extracts the blend configuration from a round.
func BlendConfigForRound(round models.Round) BlendConfig {
	mode := round.ScoringMode
	if mode == "" {
		mode = models.ScoringModeHybrid
	}
	return BlendConfig{
		Mode:        mode,
		AIWeight:    round.AIWeight,
		JudgeWeight: round.JudgeWeight,
	}
}

// Blend combines a judge total with an optional AI total into one final round
// score. A nil aiTotal means the AI score does not exist yet; in hybrid mode
// the judge then carries 100% weight so a team is never penalized for AI
// unavailability.
func Blend(judgeTotal float64, aiTotal *float64, cfg BlendConfig) float64 {
	aiWeight := cfg.AIWeight
	judgeWeight := cfg.JudgeWeight
	if aiWeight == 0 && judgeWeight == 0 {
		aiWeight = DefaultAIWeight
		judgeWeight = DefaultJudgeWeight
	}

	switch cfg.Mode {
	case models.ScoringModeAIOnly:
		if aiTotal == nil {
			return 0
		}
		return *aiTotal
	case models.ScoringModeJudgeOnly:
		return judgeTotal
	default:
		if aiTotal == nil {
			return judgeTotal
		}
		return judgeTotal*judgeWeight + *aiTotal*aiWeight
	}
}

// WeightRound converts a final round score into that round's contribution to
// the team's overall 100-point hackathon score.
func WeightRound(finalTotal, roundMaxScore, weightagePercent float64) float64 {
	if roundMaxScore == 0 {
		return 0
	}
	return finalTotal / roundMaxScore * weightagePercent
}
