package rubric

import (
	"errors"
	"fmt"
	"sort"
)

var ErrUnknown = errors.New("unknown rubric")

type Rubric struct {
	Name       string
	Title      string
	Criteria   []string // criterion keys the model must score, in order
	Guidelines string
}

var registry = map[string]Rubric{
	Clarity.Name:   Clarity,
	Viability.Name: Viability,
	Trend.Name:     Trend,
}

func Lookup(name string) (Rubric, error) {
	r, ok := registry[name]
	if !ok {
		return Rubric{}, fmt.Errorf("%w: %q", ErrUnknown, name)
	}
	return r, nil
}

// All returns every registered rubric sorted by name.
func All() []Rubric {
	out := make([]Rubric, 0, len(registry))
	for _, r := range registry {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
