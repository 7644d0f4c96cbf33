package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	scoreDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "hackcentral",
		Subsystem: "ai",
		Name:      "score_duration_seconds",
		Help:      "Duration of AI scoring requests",
	}, []string{"model"})

	scoreFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hackcentral",
		Subsystem: "ai",
		Name:      "score_failures_total",
		Help:      "Number of AI scoring failures",
	}, []string{"model"})
)

// OpenAIConfig defines configuration options for the OpenAI scorer.
type OpenAIConfig struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float32
	Logger      zerolog.Logger
}

// OpenAIScorer implements Scorer against the OpenAI chat completion API.
type OpenAIScorer struct {
	client *openai.Client
	cfg    OpenAIConfig
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewOpenAIScorer builds a new scorer using the provided configuration.
func NewOpenAIScorer(cfg OpenAIConfig) (*OpenAIScorer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 512
	}

	logger := cfg.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = zerolog.Nop()
	}

	return &OpenAIScorer{
		client: openai.NewClientWithConfig(openai.DefaultConfig(cfg.APIKey)),
		cfg:    cfg,
		tracer: otel.Tracer("github.com/hackcentral/hackcentral-api/pkg/ai/openai"),
		logger: logger.With().Str("component", "openai_scorer").Logger(),
	}, nil
}

// Score asks the model for a numeric total against the round's criteria. The
// result is clamped to [0, MaxScore] so the scorer can never break the round
// score bounds downstream.
func (s *OpenAIScorer) Score(ctx context.Context, input ScoreInput) (ScoreResult, error) {
	ctx, span := s.tracer.Start(ctx, "ai.score", trace.WithAttributes(
		attribute.String("ai.model", s.cfg.Model),
		attribute.String("ai.round", input.RoundName),
	))
	defer span.End()

	start := time.Now()
	response, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.cfg.Model,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(input)},
		},
	})
	scoreDuration.WithLabelValues(s.cfg.Model).Observe(time.Since(start).Seconds())

	if err != nil {
		scoreFailures.WithLabelValues(s.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "completion_failed")
		return ScoreResult{}, fmt.Errorf("openai completion failed: %w", err)
	}
	if len(response.Choices) == 0 {
		scoreFailures.WithLabelValues(s.cfg.Model).Inc()
		return ScoreResult{}, fmt.Errorf("openai returned no choices")
	}

	var result ScoreResult
	content := strings.TrimSpace(response.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		scoreFailures.WithLabelValues(s.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "malformed_result")
		return ScoreResult{}, fmt.Errorf("malformed scorer output: %w", err)
	}

	if result.Total < 0 {
		result.Total = 0
	}
	if input.MaxScore > 0 && result.Total > input.MaxScore {
		result.Total = input.MaxScore
	}

	span.SetAttributes(attribute.Float64("ai.total", result.Total))
	s.logger.Debug().Float64("total", result.Total).Str("round", input.RoundName).Msg("ai score produced")

	return result, nil
}

const systemPrompt = `You are an impartial hackathon judge. Score the submission against the ` +
	`provided criteria and respond with a single JSON object of the form ` +
	`{"total": <number>, "rationale": "<one paragraph>"}. The total must not exceed the round maximum.`

func buildPrompt(input ScoreInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hackathon: %s\nRound: %s (max score %g)\n\nCriteria:\n", input.HackathonTitle, input.RoundName, input.MaxScore)
	for _, criterion := range input.Criteria {
		fmt.Fprintf(&b, "- %s (max %g)\n", criterion.Title, criterion.MaxMarks)
	}
	if len(input.Fields) > 0 {
		b.WriteString("\nSubmitted material:\n")
		for key, value := range input.Fields {
			fmt.Fprintf(&b, "- %s: %v\n", key, value)
		}
	}
	if input.NotesText != "" {
		fmt.Fprintf(&b, "\nTeam notes:\n%s\n", input.NotesText)
	}
	return b.String()
}
