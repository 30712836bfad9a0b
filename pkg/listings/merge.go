package listings

import "encoding/json"

// Merge admits candidate records into an existing result list. A candidate
// is admitted only when it decodes into a Property and carries a non-empty
// id that is not already present. Within one batch the first occurrence of
// a new id wins; later duplicates are dropped. Nothing else disqualifies a
// candidate: low scores, repeated addresses and missing optional fields all
// pass through untouched.
//
// The returned slice is existing-first with admitted candidates appended in
// provider order. The input slice is not mutated.
func Merge(existing []Property, candidates []json.RawMessage) ([]Property, int) {
	seen := make(map[ID]struct{}, len(existing))
	for _, p := range existing {
		seen[p.ID] = struct{}{}
	}

	merged := make([]Property, len(existing), len(existing)+len(candidates))
	copy(merged, existing)

	admitted := 0
	for _, raw := range candidates {
		var p Property
		if err := json.Unmarshal(raw, &p); err != nil {
			continue
		}
		if p.ID == "" {
			continue
		}
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		merged = append(merged, p)
		admitted++
	}

	return merged, admitted
}
