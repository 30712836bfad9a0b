package search

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func TestBuildPromptClauses(t *testing.T) {
	tests := []struct {
		name        string
		criteria    Criteria
		wantSubstr  []string
		wantAbsent  []string
	}{
		{
			name: "All filters set",
			criteria: Criteria{
				Destination:  "Portland, OR",
				RadiusKM:     10,
				PropertyType: PropertyTypeApartment,
				MinBedrooms:  "2",
				MinBathrooms: "1",
				MaxRent:      2200,
			},
			wantSubstr: []string{
				"within 10 km of Portland, OR",
				"type: apartment",
				"at least 2 bedrooms",
				"at least 1 bathrooms",
				"must not exceed 2200",
			},
		},
		{
			name: "Any filters omit their clauses",
			criteria: Criteria{
				Destination:  "Portland, OR",
				RadiusKM:     5,
				PropertyType: PropertyTypeAny,
				MinBedrooms:  ThresholdAny,
				MinBathrooms: ThresholdAny,
				MaxRent:      1800,
			},
			wantSubstr: []string{"within 5 km", "must not exceed 1800"},
			wantAbsent: []string{"type:", "bedrooms", "bathrooms"},
		},
		{
			name: "Nuance is included verbatim",
			criteria: Criteria{
				Destination: "Austin, TX",
				RadiusKM:    3,
				MaxRent:     1500,
				Nuance:      "quiet street, near a dog park",
			},
			wantSubstr: []string{"quiet street, near a dog park"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prompt := BuildPrompt(tt.criteria)
			for _, s := range tt.wantSubstr {
				if !strings.Contains(prompt, s) {
					t.Errorf("prompt missing %q:\n%s", s, prompt)
				}
			}
			for _, s := range tt.wantAbsent {
				if strings.Contains(prompt, s) {
					t.Errorf("prompt should not contain %q:\n%s", s, prompt)
				}
			}
		})
	}
}

func TestBuildPromptDeterministic(t *testing.T) {
	c := Criteria{Destination: "Berlin", RadiusKM: 7, MaxRent: 1400, Nuance: "balcony"}
	if BuildPrompt(c) != BuildPrompt(c) {
		t.Error("BuildPrompt is not deterministic for identical criteria")
	}
}

func TestBuildPromptAlwaysDemandsBareArray(t *testing.T) {
	prompt := BuildPrompt(Criteria{Destination: "Oslo", RadiusKM: 2, MaxRent: 900})
	if !strings.Contains(prompt, "single JSON array") {
		t.Errorf("prompt missing the response directive:\n%s", prompt)
	}
	if !strings.Contains(prompt, "no code fences") {
		t.Errorf("prompt missing the fencing prohibition:\n%s", prompt)
	}
}

func TestCriteriaRoundTrip(t *testing.T) {
	original := Criteria{
		Destination:  "Lisbon",
		RadiusKM:     12.5,
		PropertyType: PropertyTypeTownhouse,
		MinBedrooms:  "3",
		MinBathrooms: ThresholdAny,
		MaxRent:      1750,
		Nuance:       "  ground floor, \"pets welcome\", near metro  ",
	}

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var restored Criteria
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if !reflect.DeepEqual(original, restored) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", restored, original)
	}
}
