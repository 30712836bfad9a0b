package clients

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/larsmk/homescout/pkg/config"
	"github.com/tmc/langchaingo/llms/googleai"
)

// ModelType is an enum for the available Google AI models.
type ModelType string

const (
	// DefaultModel is the default model to use if none is specified
	DefaultModel ModelType = "gemini-3-flash-preview"
	ProModel     ModelType = "gemini-3-pro-preview"
)

func GoogleAi(model ModelType, policy config.SafetyPolicyConfig) (*googleai.GoogleAI, error) {
	_ = godotenv.Load()
	ctx := context.Background()
	apiKey := os.Getenv("GOOGLE_API_KEY")

	var modelName string
	switch model {
	case DefaultModel:
		modelName = string(DefaultModel)
	case ProModel:
		modelName = string(ProModel)
	default:
		return nil, fmt.Errorf("invalid model type: %s", model)
	}

	// See https://ai.google.dev/gemini-api/docs/models/gemini for possible models
	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(modelName),
		googleai.WithHarmThreshold(langchainThreshold(policy)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Google AI client: %w", err)
	}

	return llm, nil
}

// langchainThreshold collapses the per-category policy to the single global
// threshold langchaingo supports: the strictest category wins so a tightened
// policy file is never silently loosened.
func langchainThreshold(policy config.SafetyPolicyConfig) googleai.HarmBlockThreshold {
	strictest := googleai.HarmBlockNone
	for _, t := range []string{
		policy.Harassment,
		policy.HateSpeech,
		policy.SexuallyExplicit,
		policy.DangerousContent,
	} {
		if rank(toLangchainThreshold(t)) < rank(strictest) {
			strictest = toLangchainThreshold(t)
		}
	}
	return strictest
}

func toLangchainThreshold(threshold string) googleai.HarmBlockThreshold {
	switch threshold {
	case "BLOCK_LOW_AND_ABOVE":
		return googleai.HarmBlockLowAndAbove
	case "BLOCK_MEDIUM_AND_ABOVE":
		return googleai.HarmBlockMediumAndAbove
	case "BLOCK_ONLY_HIGH":
		return googleai.HarmBlockOnlyHigh
	default:
		return googleai.HarmBlockNone
	}
}

func rank(t googleai.HarmBlockThreshold) int {
	switch t {
	case googleai.HarmBlockLowAndAbove:
		return 0
	case googleai.HarmBlockMediumAndAbove:
		return 1
	case googleai.HarmBlockOnlyHigh:
		return 2
	default:
		return 3
	}
}
