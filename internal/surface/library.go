package surface

import (
	"fmt"
	"math/rand"
	"strings"
)

type Name string

const (
	Wave      Name = "wave"
	MultiWave Name = "multiwave"
	Ripple    Name = "ripple"
	Sphere    Name = "sphere"
	Torus     Name = "torus"
)

type entry struct {
	fn          Function
	description string
}

var library = map[Name]entry{
	Wave:      {WaveFunc, "travelling sine sheet"},
	MultiWave: {MultiWaveFunc, "three summed waves"},
	Ripple:    {RippleFunc, "radial ripple"},
	Sphere:    {SphereFunc, "banded pulsing sphere"},
	Torus:     {TorusFunc, "twisted star torus"},
}

// cycle is the order used by Next.
var cycle = []Name{Wave, MultiWave, Ripple, Sphere, Torus}

func (n Name) String() string { return string(n) }

// Valid reports whether n names a library function.
func (n Name) Valid() bool {
	_, ok := library[n]
	return ok
}

func Count() int { return len(cycle) }

// Names returns the library in cycle order.
func Names() []Name {
	names := make([]Name, len(cycle))
	copy(names, cycle)
	return names
}

func Get(name Name) (Function, error) {
	e, ok := library[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFunction, string(name))
	}
	return e.fn, nil
}

// MustGet is Get for names known at compile time.
func MustGet(name Name) Function {
	fn, err := Get(name)
	if err != nil {
		panic(err)
	}
	return fn
}

func Description(name Name) string {
	return library[name].description
}

// ParseName accepts names case-insensitively, with "multi_wave" and
// "multi-wave" spellings for MultiWave.
func ParseName(s string) (Name, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer("_", "", "-", "", " ", "").Replace(key)
	n := Name(key)
	if !n.Valid() {
		return "", fmt.Errorf("%w: %q (available: %v)", ErrUnknownFunction, s, Names())
	}
	return n, nil
}

func position(name Name) int {
	for i, n := range cycle {
		if n == name {
			return i
		}
	}
	return -1
}

// Next returns the successor of name in cycle order, wrapping after the last.
// Unknown names start the cycle over.
func Next(name Name) Name {
	i := position(name)
	return cycle[(i+1)%len(cycle)]
}

// RandomOtherThan picks uniformly among the names other than name. A nil rng
// uses the global source.
func RandomOtherThan(name Name, rng *rand.Rand) Name {
	intn := rand.Intn
	if rng != nil {
		intn = rng.Intn
	}

	i := position(name)
	if i < 0 {
		return cycle[intn(len(cycle))]
	}
	choice := intn(len(cycle) - 1)
	if choice >= i {
		choice++
	}
	return cycle[choice]
}
