package search

// PropertyType filters the kind of listing the agent asks for. Any means no
// type clause is added to the prompt.
type PropertyType string

const (
	PropertyTypeAny       PropertyType = "any"
	PropertyTypeApartment PropertyType = "apartment"
	PropertyTypeHouse     PropertyType = "house"
	PropertyTypeCondo     PropertyType = "condo"
	PropertyTypeTownhouse PropertyType = "townhouse"
	PropertyTypeStudio    PropertyType = "studio"
)

// Threshold is a minimum-count filter for bedrooms or bathrooms. Values are
// "any" or the stringified minimum ("1", "2", "3", "4").
type Threshold string

const ThresholdAny Threshold = "any"

// Criteria is the user's filter state. The agent snapshots it at the start
// of every cycle; it round-trips through JSON without loss, including the
// free-text nuance prompt.
type Criteria struct {
	Destination  string       `json:"destination"`
	RadiusKM     float64      `json:"radiusKm"`
	PropertyType PropertyType `json:"propertyType"`
	MinBedrooms  Threshold    `json:"minBedrooms"`
	MinBathrooms Threshold    `json:"minBathrooms"`
	MaxRent      float64      `json:"maxRent"`
	Nuance       string       `json:"nuance"`
}
