/*
Copyright © 2025 Benny Powers <web@bennypowers.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/
package platform

import (
	"time"
)

// TimeProvider abstracts the clock used for transform_fs run timing and
// watch-mode debounce delays, so tests can observe elapsed-time logging
// without sleeping for real.
type TimeProvider interface {
	// Sleep pauses execution for the given duration
	Sleep(d time.Duration)

	// Now returns the current time
	Now() time.Time

	// After returns a channel that delivers the current time after the duration
	After(d time.Duration) <-chan time.Time
}

// RealTimeProvider is the production TimeProvider, backed by the time
// package. cmd/transform.go uses it to time a transform_fs run.
type RealTimeProvider struct{}

func NewRealTimeProvider() *RealTimeProvider {
	return &RealTimeProvider{}
}

func (t *RealTimeProvider) Sleep(d time.Duration) {
	time.Sleep(d)
}

func (t *RealTimeProvider) Now() time.Time {
	return time.Now()
}

func (t *RealTimeProvider) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}
