package passenger

import (
	"fmt"
	"time"

	"github.com/Domenick1991/airticket/internal/domain"
)

const (
	adultMinAge = 12
	childMinAge = 2
)

// Age returns the number of whole years between birthday and now. The year
// difference is reduced by one while now precedes the birthday's month and
// day.
func Age(birthday, now time.Time) int {
	age := now.Year() - birthday.Year()
	if now.Month() < birthday.Month() || (now.Month() == birthday.Month() && now.Day() < birthday.Day()) {
		age--
	}
	return age
}

// AgeError reports a passenger whose age does not fit the declared type.
type AgeError struct {
	Type domain.PassengerType
	Age  int
}

func (e *AgeError) Error() string {
	return fmt.Sprintf("%s: age %d is out of band for %s", domain.ErrInvalidAge, e.Age, e.Type)
}

func (e *AgeError) Unwrap() error { return domain.ErrInvalidAge }

// Classify checks the declared passenger type against the age on now.
// ADULT needs at least 12 years, CHILD 2 up to 12, INFANT under 2.
func Classify(passengerType domain.PassengerType, birthday, now time.Time) error {
	if birthday.After(now) {
		return &AgeError{Type: passengerType, Age: -1}
	}

	age := Age(birthday, now)
	var ok bool
	switch passengerType {
	case domain.PassengerTypeAdult:
		ok = age >= adultMinAge
	case domain.PassengerTypeChild:
		ok = age >= childMinAge && age < adultMinAge
	case domain.PassengerTypeInfant:
		ok = age < childMinAge
	}
	if !ok {
		return &AgeError{Type: passengerType, Age: age}
	}
	return nil
}

type AssociationReason string

const (
	ReasonMissingOrInvalidAdult AssociationReason = "infant must be associated with an adult passenger"
	ReasonUnexpectedAssociation AssociationReason = "only infants can be associated with an adult"
	ReasonOtherTicket           AssociationReason = "associated adult belongs to another ticket"
	ReasonHasDependents         AssociationReason = "adult passenger is associated with an infant"
)

// AssociationError reports a malformed adult/infant link.
type AssociationError struct {
	Type   domain.PassengerType
	Reason AssociationReason
}

func (e *AssociationError) Error() string {
	return fmt.Sprintf("%s: %s passenger: %s", domain.ErrInvalidAssociation, e.Type, e.Reason)
}

func (e *AssociationError) Unwrap() error { return domain.ErrInvalidAssociation }

// ValidateAssociation checks that exactly infants carry an associated
// adult and that the associated passenger is an adult.
func ValidateAssociation(passengerType domain.PassengerType, associatedAdult *domain.Passenger) error {
	if passengerType == domain.PassengerTypeInfant {
		if associatedAdult == nil || associatedAdult.Type != domain.PassengerTypeAdult {
			return &AssociationError{Type: passengerType, Reason: ReasonMissingOrInvalidAdult}
		}
		return nil
	}
	if associatedAdult != nil {
		return &AssociationError{Type: passengerType, Reason: ReasonUnexpectedAssociation}
	}
	return nil
}
