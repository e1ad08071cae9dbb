package domain

import (
	"fmt"
	"math"
)

type RatingAction int

const (
	RatingCreate RatingAction = iota + 1
	RatingUpdate
)

// RatingPolicy decides how a submitted rating reaches the API. current is
// the user's existing rating, zero when the dish is not rated yet.
type RatingPolicy struct {
	Editable bool
}

func (p RatingPolicy) Decide(current, rating int) (RatingAction, error) {
	if rating < 1 || rating > 5 {
		return 0, fmt.Errorf("rating must be between 1 and 5: %w", ErrValidation)
	}
	if current == 0 {
		return RatingCreate, nil
	}
	if !p.CanRate(current) {
		return 0, ErrRatingLocked
	}
	return RatingUpdate, nil
}

// CanRate reports whether a user whose rating is current may submit one.
func (p RatingPolicy) CanRate(current int) bool {
	return current == 0 || p.Editable
}

type Stars struct {
	Full  int
	Half  bool
	Empty int
}

// StarsFor renders an average in 0..5 as full, half and empty stars.
// Fractions of .5 and above give a half star.
func StarsFor(avg float64) Stars {
	avg = math.Max(0, math.Min(5, avg))
	full := int(math.Floor(avg))
	half := avg-float64(full) >= 0.5
	empty := 5 - full
	if half {
		empty--
	}
	return Stars{Full: full, Half: half, Empty: empty}
}
