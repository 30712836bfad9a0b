package search

import (
	"fmt"
	"strings"
)

// responseDirective is part of the wire contract: the parser in pkg/listings
// relies on the single-array shape this demands.
const responseDirective = "\n\nRespond with ONLY a single JSON array of property objects. " +
	"No prose, no markdown, no code fences, nothing before or after the array. " +
	"Each object must have the fields: id (unique string), address, rent (monthly, number), " +
	"imageUrl, score (0-10 desirability), summary, link, contact (object with name and phone), " +
	"rating (0-5, may be fractional), reviewCount, reviewQuote, " +
	"amenities (object with boolean petFriendly, dogFriendly, laundry, garage)."

// BuildPrompt compiles the criteria into the provider request text. Pure and
// deterministic: the same criteria always produce the same prompt. The radius
// and max-rent clauses are always present; type, bedroom and bathroom clauses
// appear only when the corresponding filter is not "any".
func BuildPrompt(c Criteria) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Find rental properties currently listed within %g km of %s.", c.RadiusKM, c.Destination)

	if c.PropertyType != "" && c.PropertyType != PropertyTypeAny {
		fmt.Fprintf(&b, " Only include properties of type: %s.", c.PropertyType)
	}
	if c.MinBedrooms != "" && c.MinBedrooms != ThresholdAny {
		fmt.Fprintf(&b, " Require at least %s bedrooms.", c.MinBedrooms)
	}
	if c.MinBathrooms != "" && c.MinBathrooms != ThresholdAny {
		fmt.Fprintf(&b, " Require at least %s bathrooms.", c.MinBathrooms)
	}

	fmt.Fprintf(&b, " The monthly rent must not exceed %g.", c.MaxRent)

	if nuance := strings.TrimSpace(c.Nuance); nuance != "" {
		fmt.Fprintf(&b, " Additional preferences from the user: %s", nuance)
	}

	b.WriteString(responseDirective)
	return b.String()
}
