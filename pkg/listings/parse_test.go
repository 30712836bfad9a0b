package listings

import (
	"errors"
	"testing"
)

func TestParseListings(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantCount int
		wantErr   bool
	}{
		{"Bare array", `[{"id":1,"address":"12 Oak St"}]`, 1, false},
		{"Fenced array", "```json\n[{\"id\":1,\"address\":\"12 Oak St\"}]\n```", 1, false},
		{"Fenced with surrounding whitespace", "  ```json\n[{\"id\":1,\"address\":\"12 Oak St\"}]\n```  ", 1, false},
		{"Fence without language tag", "```\n[{\"id\":\"a\"}]\n```", 1, false},
		{"Empty array", `[]`, 0, false},
		{"Object instead of array", `{"not":"an array"}`, 0, true},
		{"Prose instead of JSON", `I could not find any listings.`, 0, true},
		{"Null", `null`, 0, true},
		{"Empty string", ``, 0, true},
		{"Truncated array", `[{"id":1`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseListings(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseListings(%q) expected error, got nil", tt.input)
				}
				if !errors.Is(err, ErrResponseFormat) {
					t.Errorf("ParseListings(%q) error = %v, want ErrResponseFormat", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseListings(%q) unexpected error: %v", tt.input, err)
			}
			if len(got) != tt.wantCount {
				t.Errorf("ParseListings(%q) returned %d candidates, want %d", tt.input, len(got), tt.wantCount)
			}
		})
	}
}

func TestParseListingsFenceEquivalence(t *testing.T) {
	plain := `[{"id":1,"address":"12 Oak St"}]`
	fenced := "  ```json\n[{\"id\":1,\"address\":\"12 Oak St\"}]\n```  "

	a, err := ParseListings(plain)
	if err != nil {
		t.Fatalf("plain parse failed: %v", err)
	}
	b, err := ParseListings(fenced)
	if err != nil {
		t.Fatalf("fenced parse failed: %v", err)
	}
	if len(a) != len(b) {
		t.Fatalf("fenced parse yielded %d candidates, plain yielded %d", len(b), len(a))
	}
	if string(a[0]) != string(b[0]) {
		t.Errorf("fenced candidate = %s, want %s", b[0], a[0])
	}
}

func TestIDUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    ID
		wantErr bool
	}{
		{"String id", `"abc-123"`, "abc-123", false},
		{"Integer id", `42`, "42", false},
		{"Fractional id", `42.5`, "42.5", false},
		{"Null id", `null`, "", false},
		{"Object id", `{"v":1}`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id ID
			err := id.UnmarshalJSON([]byte(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("UnmarshalJSON(%s) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && id != tt.want {
				t.Errorf("UnmarshalJSON(%s) = %q, want %q", tt.input, id, tt.want)
			}
		})
	}
}
