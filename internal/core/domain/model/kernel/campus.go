package kernel

import (
	"fmt"
	"time"

	"campusmarket/internal/pkg/errs"
)

// City is where a shop dispatches from.
type City string

const (
	CityHarar    City = "HARAR"
	CityDireDawa City = "DIRE_DAWA"
)

// Campus is where an order is delivered to. Haramaya main campus sits
// between the two cities.
type Campus string

const (
	CampusHarar    Campus = "HARAR_CAMPUS"
	CampusHaramaya Campus = "HARAMAYA_MAIN"
	CampusDireDawa Campus = "DIRE_DAWA_CAMPUS"
)

func Cities() []City {
	return []City{CityHarar, CityDireDawa}
}

func Campuses() []Campus {
	return []Campus{CampusHarar, CampusHaramaya, CampusDireDawa}
}

func ParseCity(s string) (City, error) {
	c := City(s)
	return c, c.Validate()
}

func (c City) Validate() error {
	switch c {
	case CityHarar, CityDireDawa:
		return nil
	}
	return errs.NewValueIsInvalidErrorWithCause("city", fmt.Errorf("%q is not a served city", string(c)))
}

func (c City) String() string {
	return string(c)
}

func ParseCampus(s string) (Campus, error) {
	c := Campus(s)
	return c, c.Validate()
}

func (c Campus) Validate() error {
	switch c {
	case CampusHarar, CampusHaramaya, CampusDireDawa:
		return nil
	}
	return errs.NewValueIsInvalidErrorWithCause("campus", fmt.Errorf("%q is not a served campus", string(c)))
}

func (c Campus) String() string {
	return string(c)
}

// ETA is a delivery time band.
type ETA struct {
	min time.Duration
	max time.Duration
}

func NewETA(minimum, maximum time.Duration) (ETA, error) {
	if minimum <= 0 || maximum < minimum {
		return ETA{}, errs.NewValueIsOutOfRangeError("eta", maximum, minimum, "max >= min > 0")
	}
	return ETA{min: minimum, max: maximum}, nil
}

func (e ETA) Min() time.Duration {
	return e.min
}

func (e ETA) Max() time.Duration {
	return e.max
}

// Widen returns the smallest band that covers both e and other's worst case:
// the later of the two minimums and the later of the two maximums.
func (e ETA) Widen(other ETA) ETA {
	return ETA{min: max(e.min, other.min), max: max(e.max, other.max)}
}

func (e ETA) IsZero() bool {
	return e.min == 0 && e.max == 0
}

func (e ETA) String() string {
	return fmt.Sprintf("%d-%d min", int(e.min.Minutes()), int(e.max.Minutes()))
}
