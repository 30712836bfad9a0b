package clients

import (
	"github.com/larsmk/homescout/pkg/config"
	"google.golang.org/genai"
)

// SafetySettings translates the configured policy into the provider's
// per-category safety settings.
func SafetySettings(policy config.SafetyPolicyConfig) []*genai.SafetySetting {
	return []*genai.SafetySetting{
		{Category: genai.HarmCategoryHarassment, Threshold: toGenaiThreshold(policy.Harassment)},
		{Category: genai.HarmCategoryHateSpeech, Threshold: toGenaiThreshold(policy.HateSpeech)},
		{Category: genai.HarmCategorySexuallyExplicit, Threshold: toGenaiThreshold(policy.SexuallyExplicit)},
		{Category: genai.HarmCategoryDangerousContent, Threshold: toGenaiThreshold(policy.DangerousContent)},
	}
}

func toGenaiThreshold(threshold string) genai.HarmBlockThreshold {
	switch threshold {
	case "BLOCK_LOW_AND_ABOVE":
		return genai.HarmBlockThresholdBlockLowAndAbove
	case "BLOCK_MEDIUM_AND_ABOVE":
		return genai.HarmBlockThresholdBlockMediumAndAbove
	case "BLOCK_ONLY_HIGH":
		return genai.HarmBlockThresholdBlockOnlyHigh
	default:
		return genai.HarmBlockThresholdBlockNone
	}
}
