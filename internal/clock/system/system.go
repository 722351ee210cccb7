// Package system provides the wall clock the mirror uses to decide "today".
package system

import (
	"fmt"
	"time"
)

// Clock implements site.Clock, reporting times in a fixed location.
type Clock struct {
	loc *time.Location
}

// New creates a Clock in loc; nil means UTC.
func New(loc *time.Location) *Clock {
	if loc == nil {
		loc = time.UTC
	}
	return &Clock{loc: loc}
}

// NewInZone creates a Clock for an IANA zone name such as "Europe/Berlin".
// An empty name means UTC.
func NewInZone(name string) (*Clock, error) {
	if name == "" {
		return New(time.UTC), nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load time zone %q: %w", name, err)
	}
	return New(loc), nil
}

// Now returns the current time in the clock's location.
func (c *Clock) Now() time.Time {
	return time.Now().In(c.loc)
}

// Fixed is a Clock frozen at one instant.
type Fixed time.Time

// Now returns the frozen instant.
func (f Fixed) Now() time.Time {
	return time.Time(f)
}
