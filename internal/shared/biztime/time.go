// Package biztime provides time helpers shared by the domain and persistence layers.
// All storage and transport use UTC. The business timezone is only used when
// a time is shown to people, for example in CLI output.
package biztime

import (
	"fmt"
	"sync"
	"time"
)

const (
	// DefaultTimezone is the default business timezone.
	DefaultTimezone = "UTC"
)

var (
	bizLocation     *time.Location
	bizLocationOnce sync.Once
	initErr         error

	nowFunc = func() time.Time { return time.Now() }
	nowMu   sync.RWMutex
)

// Init initializes the business timezone. Should be called once at startup.
func Init(tz string) error {
	bizLocationOnce.Do(func() {
		if tz == "" {
			tz = DefaultTimezone
		}
		bizLocation, initErr = time.LoadLocation(tz)
	})
	return initErr
}

// Location returns the business timezone location, initializing the default on first use.
func Location() *time.Location {
	if bizLocation == nil {
		if err := Init(""); err != nil {
			panic(fmt.Sprintf("biztime: failed to auto-initialize with default timezone: %v", err))
		}
	}
	return bizLocation
}

// NowUTC returns current time in UTC truncated to milliseconds, the precision
// timestamps are stored with.
func NowUTC() time.Time {
	nowMu.RLock()
	defer nowMu.RUnlock()
	return nowFunc().UTC().Truncate(time.Millisecond)
}

// SetClock replaces the clock used by NowUTC and returns a restore func. Tests only.
func SetClock(fn func() time.Time) func() {
	nowMu.Lock()
	prev := nowFunc
	nowFunc = fn
	nowMu.Unlock()
	return func() {
		nowMu.Lock()
		nowFunc = prev
		nowMu.Unlock()
	}
}

// ToMillis converts a time to unix milliseconds.
func ToMillis(t time.Time) int64 {
	return t.UnixMilli()
}

// ToMillisPtr converts an optional time to unix milliseconds.
func ToMillisPtr(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	ms := t.UnixMilli()
	return &ms
}

// FromMillis converts unix milliseconds to a UTC time.
func FromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// FromMillisPtr converts optional unix milliseconds to a UTC time.
func FromMillisPtr(ms *int64) *time.Time {
	if ms == nil {
		return nil
	}
	t := FromMillis(*ms)
	return &t
}

// FormatInBizTimezone formats a UTC time as a string in business timezone.
func FormatInBizTimezone(t time.Time, layout string) string {
	return t.In(Location()).Format(layout)
}
