package revolver

import (
	"testing"

	"github.com/lox/liarsbar/internal/randutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedRand int

func (f fixedRand) IntN(n int) int { return int(f) % n }

func TestNewPlacesBulletFromRand(t *testing.T) {
	r := New(fixedRand(3))
	assert.Equal(t, 3, r.Bullet())
	assert.Equal(t, 0, r.Chamber())
	assert.Equal(t, 0, r.Pulls())
}

func TestPullAdvancesBeforeComparing(t *testing.T) {
	r := Loaded(0, 3)

	for want := 1; want <= 2; want++ {
		res := r.Pull()
		assert.False(t, res.Fired)
		assert.Equal(t, want, res.Chamber)
	}

	res := r.Pull()
	assert.True(t, res.Fired)
	assert.Equal(t, 3, res.Chamber)
}

func TestFreshRevolverCannotFireOnBulletZeroFirstPull(t *testing.T) {
	r := New(fixedRand(0))
	res := r.Pull()
	assert.False(t, res.Fired, "chamber advances to 1 before comparing")
}

func TestSpunFirstPullLandsOnChamberZero(t *testing.T) {
	r := Spun(fixedRand(0))
	assert.Equal(t, Chambers-1, r.Chamber())

	res := r.Pull()
	assert.Equal(t, 0, res.Chamber)
	assert.True(t, res.Fired)
}

func TestExactlyOneShotPerSixPulls(t *testing.T) {
	rng := randutil.New(5)
	for i := 0; i < 200; i++ {
		r := Spun(rng)
		for cycle := 0; cycle < 3; cycle++ {
			fired := 0
			for p := 0; p < Chambers; p++ {
				if r.Pull().Fired {
					fired++
				}
			}
			require.Equal(t, 1, fired, "cycle %d of revolver %d", cycle, i)
		}
	}
}

func TestChamberCyclesDeterministically(t *testing.T) {
	r := Loaded(2, 4)
	var seen []int
	for i := 0; i < 12; i++ {
		seen = append(seen, r.Pull().Chamber)
	}
	assert.Equal(t, []int{3, 4, 5, 0, 1, 2, 3, 4, 5, 0, 1, 2}, seen)
	assert.Equal(t, 4, r.Bullet(), "bullet never moves")
}

func TestSurvivalRateOfSpunRevolver(t *testing.T) {
	rng := randutil.New(42)
	const trials = 6000
	survived := 0
	for i := 0; i < trials; i++ {
		if !Spun(rng).Pull().Fired {
			survived++
		}
	}
	assert.InDelta(t, trials*5/6, survived, trials/30)
}

func TestLoadedNormalises(t *testing.T) {
	r := Loaded(-1, 13)
	assert.Equal(t, 5, r.Chamber())
	assert.Equal(t, 1, r.Bullet())
}

func TestStringHidesBullet(t *testing.T) {
	r := Loaded(0, 4)
	assert.NotContains(t, r.String(), "4")
}
