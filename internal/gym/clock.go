package gym

import (
	"time"

	"github.com/google/uuid"
)

type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// FixedClock always returns the same instant; handy in tests and replays.
type FixedClock time.Time

func (c FixedClock) Now() time.Time {
	return time.Time(c)
}

// IDGenerator returns a fresh unique id on each call.
type IDGenerator func() string

func NewID() string {
	return uuid.NewString()
}
