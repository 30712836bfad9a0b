package listings

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ID is the provider-assigned listing identifier. Providers are inconsistent
// about emitting it as a JSON string or number, so both are accepted and
// normalized to a string. An absent or null id decodes to the empty ID.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*id = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*id = ID(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("listing id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(id))
}

// Contact is the optional listing contact person.
type Contact struct {
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// Amenities is the structured amenity flag set.
type Amenities struct {
	PetFriendly bool `json:"petFriendly"`
	DogFriendly bool `json:"dogFriendly"`
	Laundry     bool `json:"laundry"`
	Garage      bool `json:"garage"`
}

// Property is one admitted rental listing. Everything besides the ID is an
// opaque snapshot of what the provider returned; nothing is recomputed
// locally and nothing is mutated after admission.
type Property struct {
	ID          ID        `json:"id"`
	Address     string    `json:"address"`
	Rent        float64   `json:"rent"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	Score       float64   `json:"score"`
	Summary     string    `json:"summary"`
	Link        string    `json:"link,omitempty"`
	Contact     *Contact  `json:"contact,omitempty"`
	Rating      float64   `json:"rating"`
	ReviewCount int       `json:"reviewCount"`
	ReviewQuote string    `json:"reviewQuote,omitempty"`
	Amenities   Amenities `json:"amenities"`
}
