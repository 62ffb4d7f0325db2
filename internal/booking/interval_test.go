package booking

import (
	"testing"
	"time"

	"shareit/internal/apperr"

	"github.com/stretchr/testify/assert"
)

var base = time.Date(2030, 1, 10, 10, 0, 0, 0, time.UTC)

func at(hours int) time.Time {
	return base.Add(time.Duration(hours) * time.Hour)
}

func iv(from, to int) Interval {
	return Interval{Start: at(from), End: at(to)}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Interval
		want bool
	}{
		{"identical", iv(0, 24), iv(0, 24), true},
		{"partial tail", iv(0, 24), iv(12, 48), true},
		{"partial head", iv(12, 48), iv(0, 24), true},
		{"contained", iv(0, 48), iv(10, 12), true},
		{"touching end to start", iv(0, 24), iv(24, 48), false},
		{"touching start to end", iv(24, 48), iv(0, 24), false},
		{"disjoint", iv(0, 1), iv(5, 6), false},
		{"one hour shared", iv(0, 25), iv(24, 48), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Overlaps(tt.b))
		})
	}
}

func TestOverlapsIsSymmetric(t *testing.T) {
	points := []int{-3, 0, 1, 2, 5, 8}
	for _, s1 := range points {
		for _, e1 := range points {
			for _, s2 := range points {
				for _, e2 := range points {
					a, b := iv(s1, e1), iv(s2, e2)
					if !a.Valid() || !b.Valid() {
						continue
					}
					assert.Equal(t, a.Overlaps(b), b.Overlaps(a), "%v %v", a, b)
				}
			}
		}
	}
}

func TestValid(t *testing.T) {
	assert.True(t, iv(0, 1).Valid())
	assert.False(t, iv(1, 1).Valid())
	assert.False(t, iv(2, 1).Valid())
}

func TestCovers(t *testing.T) {
	i := iv(0, 24)
	assert.True(t, i.Covers(at(0)))
	assert.True(t, i.Covers(at(12)))
	assert.True(t, i.Covers(at(24)))
	assert.False(t, i.Covers(at(-1)))
	assert.False(t, i.Covers(at(25)))
}

func TestValidateInterval(t *testing.T) {
	now := at(0)

	assert.NoError(t, ValidateInterval(iv(1, 2), now))

	for name, i := range map[string]Interval{
		"empty":         {},
		"reversed":      iv(5, 2),
		"zero length":   iv(3, 3),
		"starts now":    iv(0, 2),
		"starts before": iv(-2, 2),
	} {
		t.Run(name, func(t *testing.T) {
			err := ValidateInterval(i, now)
			assert.True(t, apperr.IsValidation(err), "got %v", err)
		})
	}
}
