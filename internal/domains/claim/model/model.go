package model

import (
	"math"
	"time"
)

const (
	TableName  = "room_claims"
	EntityName = "claim"

	FieldClaimID  = "claim_id"
	FieldRoomID   = "room_id"
	FieldStartsAt = "starts_at"
	FieldEndsAt   = "ends_at"
)

const (
	TypeReservation = "RESERVATION"
	TypeCheckIn     = "CHECK_IN"
)

// Claim is one row of the room_claims view: an active reservation or stay holding a room
// over [StartsAt, EndsAt). A stay without a check-out date ends at the close of the current day.
type Claim struct {
	ClaimID   string    `db:"claim_id"`
	ClaimType string    `db:"claim_type"`
	RoomID    string    `db:"room_id"`
	StartsAt  time.Time `db:"starts_at"`
	EndsAt    time.Time `db:"ends_at"`
}

// Interval is half-open, [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

func NewInterval(start, end time.Time) Interval {
	return Interval{Start: start, End: end}
}

// StayInterval is the span a stay holds its room. Without a check-out date the stay is bounded to
// the end of the later of its start day and now's day, matching the room_claims view.
func StayInterval(start time.Time, checkOut *time.Time, now time.Time) Interval {
	if checkOut != nil {
		return NewInterval(start, *checkOut)
	}

	last := start
	if now.After(last) {
		last = now
	}

	return NewInterval(start, nextMidnight(last))
}

func nextMidnight(t time.Time) time.Time {
	year, month, day := t.Date()

	return time.Date(year, month, day+1, 0, 0, 0, 0, t.Location())
}

// Valid requires the interval to end strictly after it starts.
func (i Interval) Valid() bool {
	return i.End.After(i.Start)
}

// Overlaps uses the same predicate as the availability query: a.start < b.end && b.start < a.end.
// Touching intervals (a.end == b.start) do not overlap.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}

// SpanDays counts started days between two instants, so a partial day counts as a full one.
func SpanDays(from, to time.Time) int {
	return int(math.Ceil(to.Sub(from).Hours() / 24)) //nolint:mnd
}
