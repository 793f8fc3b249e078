package room

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"github.com/Faultbox/dice-arena/internal/dice"
	"github.com/Faultbox/dice-arena/internal/random"
)

// ErrEmptyNotation indicates a roll request with no dice.
var ErrEmptyNotation = errors.New("notation contains no dice")

// Source supplies random fractions in [0,1), one per die. An external
// randomness service implements this; errors and short reads are
// recovered locally, never surfaced to the roller.
type Source interface {
	Fractions(n int) ([]float64, error)
}

// LocalSource is the pseudo-random fallback source.
type LocalSource struct {
	rng *rand.Rand
}

// NewLocalSource creates a local source from an explicit seed.
// Deterministic given the seed.
func NewLocalSource(seed int64) *LocalSource {
	return &LocalSource{rng: rand.New(rand.NewSource(seed))}
}

// NewEntropySource creates a local source seeded from crypto/rand.
func NewEntropySource() (*LocalSource, error) {
	seed, err := random.NewSeed()
	if err != nil {
		return nil, err
	}
	return NewLocalSource(seed), nil
}

// Fractions returns n pseudo-random fractions in [0,1).
func (s *LocalSource) Fractions(n int) ([]float64, error) {
	out := make([]float64, n)
	for i := range out {
		out[i] = s.rng.Float64()
	}
	return out, nil
}

// Notation is a parsed roll request: ordered die kinds plus a constant.
type Notation struct {
	Kinds    []dice.Kind
	Constant int
}

// ParseNotation parses strings like "d20", "2d6+d8", "d100+d4+3".
// Terms are joined by '+'; a bare integer term is the constant.
func ParseNotation(s string) (Notation, error) {
	var n Notation
	for _, term := range strings.Split(s, "+") {
		term = strings.TrimSpace(strings.ToLower(term))
		if term == "" {
			continue
		}

		if c, err := strconv.Atoi(term); err == nil {
			n.Constant += c
			continue
		}

		count := 1
		tag := term
		if i := strings.Index(term, "d"); i > 0 {
			c, err := strconv.Atoi(term[:i])
			if err != nil || c < 1 || c > 100 {
				return Notation{}, fmt.Errorf("bad die count in term %q", term)
			}
			count = c
			tag = term[i:]
		}

		kind, err := dice.Parse(tag)
		if err != nil {
			return Notation{}, fmt.Errorf("bad term %q: %w", term, err)
		}
		for i := 0; i < count; i++ {
			n.Kinds = append(n.Kinds, kind)
		}
	}
	if len(n.Kinds) == 0 {
		return Notation{}, ErrEmptyNotation
	}
	return n, nil
}

// String renders the notation back into its wire form.
func (n Notation) String() string {
	var parts []string
	for _, k := range n.Kinds {
		parts = append(parts, k.Tag())
	}
	if n.Constant != 0 {
		parts = append(parts, strconv.Itoa(n.Constant))
	}
	return strings.Join(parts, "+")
}

// DieResult is one die's resolved numeric value.
type DieResult struct {
	Tag   string
	Value int
}

// Result is a fully resolved notation roll.
type Result struct {
	Dice     []DieResult
	Constant int
	Total    int
}

// Values returns the per-die values in notation order.
func (r Result) Values() []int {
	out := make([]int, len(r.Dice))
	for i, d := range r.Dice {
		out[i] = d.Value
	}
	return out
}

// Resolve maps one random fraction per physical die to a face value over
// each kind's numeric range. A d100 in the notation consumes two
// fractions (tens plus units) and yields their percentile composite. If
// the source errors or returns fewer fractions than needed, the missing
// tail comes from the fallback and the roll proceeds.
func Resolve(n Notation, src Source, fallback *LocalSource) (Result, error) {
	if len(n.Kinds) == 0 {
		return Result{}, ErrEmptyNotation
	}

	need := 0
	for _, k := range n.Kinds {
		if k == dice.KindD100 {
			need += 2
		} else {
			need++
		}
	}

	fracs, err := src.Fractions(need)
	if err != nil {
		fracs = nil
	}
	if len(fracs) < need {
		fill, ferr := fallback.Fractions(need - len(fracs))
		if ferr != nil {
			return Result{}, fmt.Errorf("fallback source: %w", ferr)
		}
		fracs = append(fracs, fill...)
	}

	res := Result{Constant: n.Constant, Total: n.Constant}
	i := 0
	next := func() float64 {
		f := fracs[i]
		i++
		return f
	}

	for _, k := range n.Kinds {
		var value int
		if k == dice.KindD100 {
			tens, _ := dice.Get(dice.KindTens)
			units, _ := dice.Get(dice.KindUnits)
			value = dice.PercentileValue(tens.NumericValue(next()), units.NumericValue(next()))
		} else {
			spec, err := dice.Get(k)
			if err != nil {
				return Result{}, err
			}
			value = spec.NumericValue(next())
		}
		res.Dice = append(res.Dice, DieResult{Tag: k.Tag(), Value: value})
		res.Total += value
	}
	return res, nil
}
