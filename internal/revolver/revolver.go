// Package revolver models the six-chamber, single-bullet penalty gun.
//
// The bullet position is fixed when a revolver is created. Every trigger pull
// advances the chamber by exactly one (mod 6) before checking it, so six
// consecutive pulls from any starting point fire exactly once.
package revolver

import "fmt"

// Chambers is the number of chambers in the cylinder
const Chambers = 6

// Rand is the randomness needed to load a revolver. *math/rand/v2.Rand
// satisfies it.
type Rand interface {
	IntN(n int) int
}

// Revolver holds the cylinder state. The zero value is not loaded; use New or
// Spun.
type Revolver struct {
	chamber int
	bullet  int
	pulls   int
}

// Result is the outcome of one trigger pull
type Result struct {
	Fired   bool
	Chamber int
}

// New loads a revolver with the bullet in a uniformly random chamber and the
// cylinder resting at chamber 0.
func New(rng Rand) *Revolver {
	return &Revolver{bullet: rng.IntN(Chambers)}
}

// Spun loads a revolver like New and then spins the cylinder so that it rests
// on the last chamber. The first pull therefore lands on chamber 0 and each of
// the six chambers is visited exactly once over the next six pulls.
func Spun(rng Rand) *Revolver {
	r := New(rng)
	r.chamber = Chambers - 1
	return r
}

// Loaded builds a revolver with explicit positions. Both values are taken
// mod 6.
func Loaded(chamber, bullet int) *Revolver {
	return &Revolver{chamber: mod(chamber), bullet: mod(bullet)}
}

// Pull advances the cylinder by one chamber and reports whether it fired
func (r *Revolver) Pull() Result {
	r.chamber = (r.chamber + 1) % Chambers
	r.pulls++
	return Result{Fired: r.chamber == r.bullet, Chamber: r.chamber}
}

// Chamber returns the current chamber index
func (r *Revolver) Chamber() int { return r.chamber }

// Bullet returns the bullet's chamber index
func (r *Revolver) Bullet() int { return r.bullet }

// Pulls returns how many times the trigger has been pulled
func (r *Revolver) Pulls() int { return r.pulls }

// String implements fmt.Stringer without revealing the bullet
func (r *Revolver) String() string {
	return fmt.Sprintf("revolver(pulls=%d)", r.pulls)
}

func mod(n int) int {
	n %= Chambers
	if n < 0 {
		n += Chambers
	}
	return n
}
