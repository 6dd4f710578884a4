package rules

import (
	"time"

	"schedule-engine/internal/domain"
)

// Estimated event durations per sport, used to project when a game ends
// when only its start time is scheduled.
var sportDurations = map[domain.Sport]time.Duration{
	domain.SportFootball:   time.Duration(3.5 * float64(time.Hour)),
	domain.SportBasketball: 2 * time.Hour,
	domain.SportBaseball:   3 * time.Hour,
	domain.SportSoftball:   time.Duration(2.5 * float64(time.Hour)),
	domain.SportSoccer:     2 * time.Hour,
	domain.SportVolleyball: time.Duration(2.5 * float64(time.Hour)),
	domain.SportWrestling:  2 * time.Hour,
	domain.SportGymnastics: time.Duration(2.5 * float64(time.Hour)),
	domain.SportTennis:     4 * time.Hour,
}

const defaultDuration = time.Duration(2.5 * float64(time.Hour))

// GameDuration returns the estimated duration for a sport.
func GameDuration(sport domain.Sport) time.Duration {
	if d, ok := sportDurations[sport]; ok {
		return d
	}
	return defaultDuration
}

type sportPair struct{ a, b domain.Sport }

func pairOf(a, b domain.Sport) sportPair {
	if b < a {
		a, b = b, a
	}
	return sportPair{a: a, b: b}
}

// Changeover minimums for sport pairs needing floor conversion beyond the
// venue-type baseline (mat/floor installs, netting, court resurfacing).
var changeoverOverrides = map[sportPair]time.Duration{
	pairOf(domain.SportBasketball, domain.SportWrestling):  4 * time.Hour,
	pairOf(domain.SportBasketball, domain.SportGymnastics): 4 * time.Hour,
	pairOf(domain.SportBasketball, domain.SportVolleyball): time.Duration(2.5 * float64(time.Hour)),
	pairOf(domain.SportGymnastics, domain.SportWrestling):  3 * time.Hour,
}

const (
	sharedVenueChangeover    = 2 * time.Hour
	dedicatedVenueChangeover = 1 * time.Hour
	idealChangeoverMargin    = 2 * time.Hour
)

// ChangeoverRequirement returns the minimum and ideal gap between two
// back-to-back events at one venue, as a function of the two sports and
// whether the venue is dedicated to a single sport.
func ChangeoverRequirement(a, b domain.Sport, dedicated bool) (minimum, ideal time.Duration) {
	minimum = sharedVenueChangeover
	if dedicated {
		minimum = dedicatedVenueChangeover
	}
	if override, ok := changeoverOverrides[pairOf(a, b)]; ok && override > minimum {
		minimum = override
	}
	return minimum, minimum + idealChangeoverMargin
}
