package util

import (
	"sync/atomic"
	"time"
)

var mockTime int64

// GetTime returns the unix time in seconds, or the mock time if one is set.
func GetTime() int64 {
	if t := atomic.LoadInt64(&mockTime); t > 0 {
		return t
	}
	return time.Now().Unix()
}

// SetMockTime pins GetTime to t; zero restores the wall clock.
func SetMockTime(t int64) {
	atomic.StoreInt64(&mockTime, t)
}
