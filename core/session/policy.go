package session

import "time"

// TieredPolicy is the default PenaltyPolicy: the penalty grows as the request
// gets closer to the session start. The exact curve is a policy choice;
// adjudicators can always override the suggestion.
//
//	>= 24h notice: 0%
//	>= 12h notice: 25%
//	>=  6h notice: 50%
//	<   6h notice: 100%
//
// A request after the scheduled start forfeits the full price.
func TieredPolicy(s Session, requestedAt time.Time) int {
	price := s.EffectivePrice()
	notice := s.ScheduledAt.Sub(requestedAt)

	switch {
	case notice >= 24*time.Hour:
		return 0
	case notice >= 12*time.Hour:
		return price / 4
	case notice >= 6*time.Hour:
		return price / 2
	default:
		return price
	}
}

// FlatPolicy returns a PenaltyPolicy charging the same amount regardless of
// notice; the workflow clamps it to the session price.
func FlatPolicy(amount int) PenaltyPolicy {
	return func(Session, time.Time) int { return amount }
}
