package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SafetyPolicyConfig maps provider harm categories to block thresholds.
// Housing queries routinely brush against discrimination and other legally
// sensitive topics, so the shipped default is the most permissive threshold
// for every category. Operators can tighten it via a policy file.
type SafetyPolicyConfig struct {
	Harassment       string `yaml:"harassment"`
	HateSpeech       string `yaml:"hate_speech"`
	SexuallyExplicit string `yaml:"sexually_explicit"`
	DangerousContent string `yaml:"dangerous_content"`
}

const ThresholdBlockNone = "BLOCK_NONE"

func DefaultSafetyPolicy() SafetyPolicyConfig {
	return SafetyPolicyConfig{
		Harassment:       ThresholdBlockNone,
		HateSpeech:       ThresholdBlockNone,
		SexuallyExplicit: ThresholdBlockNone,
		DangerousContent: ThresholdBlockNone,
	}
}

// LoadSafetyPolicy reads the policy file at path, falling back to the default
// policy when path is empty. Categories omitted from the file keep their
// default threshold.
func LoadSafetyPolicy(path string) (SafetyPolicyConfig, error) {
	policy := DefaultSafetyPolicy()
	if path == "" {
		return policy, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return policy, fmt.Errorf("failed to read safety policy file: %w", err)
	}
	if err := yaml.Unmarshal(data, &policy); err != nil {
		return policy, fmt.Errorf("failed to parse safety policy file: %w", err)
	}

	defaults := DefaultSafetyPolicy()
	if policy.Harassment == "" {
		policy.Harassment = defaults.Harassment
	}
	if policy.HateSpeech == "" {
		policy.HateSpeech = defaults.HateSpeech
	}
	if policy.SexuallyExplicit == "" {
		policy.SexuallyExplicit = defaults.SexuallyExplicit
	}
	if policy.DangerousContent == "" {
		policy.DangerousContent = defaults.DangerousContent
	}

	return policy, nil
}
