/*
Copyright © 2025 The qoptimizer Authors

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
package hashid

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSumIsStableAndSensitiveToInputs(t *testing.T) {
	a := Sum("", "./app.tsx", "App_component")
	b := Sum("", "./app.tsx", "App_component")
	assert.Equal(t, a, b)

	c := Sum("", "./app.tsx", "App_other")
	assert.NotEqual(t, a, c)

	d := Sum("scope1", "./app.tsx", "App_component")
	assert.NotEqual(t, a, d)
}

func TestSumNormalizesLeadingDotSlash(t *testing.T) {
	a := Sum("", "./app.tsx", "x")
	b := Sum("", "app.tsx", "x")
	assert.Equal(t, a, b)
}

func TestEncodeLengthAndAlphabet(t *testing.T) {
	enc := Encode(0xDEADBEEFCAFEBABE)
	assert.Len(t, enc, 11)
	assert.False(t, strings.ContainsAny(enc, "-_"))
}

func TestEncodedSumMatchesSumAndEncode(t *testing.T) {
	raw, enc := EncodedSum("", "./app.tsx", "App_component")
	assert.Equal(t, Sum("", "./app.tsx", "App_component"), raw)
	assert.Equal(t, Encode(raw), enc)
}
