package domain

import "time"

type PassengerType string

const (
	PassengerTypeAdult  PassengerType = "ADULT"
	PassengerTypeChild  PassengerType = "CHILD"
	PassengerTypeInfant PassengerType = "INFANT"
)

func (p PassengerType) Valid() bool {
	switch p {
	case PassengerTypeAdult, PassengerTypeChild, PassengerTypeInfant:
		return true
	}
	return false
}

type Passenger struct {
	ID       int64
	TicketID int64
	Type     PassengerType
	FullName string
	Birthday time.Time
	// NationalID is the citizen identity card number (cccd).
	NationalID  string
	CountryCode string
	// AssociatedAdultID is a lookup key into the ticket's manifest, set only for infants.
	AssociatedAdultID *int64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Manifest holds the passengers of one ticket keyed by id.
type Manifest map[int64]Passenger

func NewManifest(passengers []Passenger) Manifest {
	m := make(Manifest, len(passengers))
	for _, p := range passengers {
		m[p.ID] = p
	}
	return m
}

func (m Manifest) Lookup(id int64) (Passenger, bool) {
	p, ok := m[id]
	return p, ok
}

// Dependents returns the ids of passengers whose associated adult is adultID.
func (m Manifest) Dependents(adultID int64) []int64 {
	var ids []int64
	for id, p := range m {
		if p.AssociatedAdultID != nil && *p.AssociatedAdultID == adultID {
			ids = append(ids, id)
		}
	}
	return ids
}
