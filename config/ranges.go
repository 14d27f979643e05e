package config

import "fmt"

// Range is an inclusive integer range.
type Range struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// Span is shorthand for Range{start, end}.
func Span(start, end int) Range { return Range{Start: start, End: end} }

func (r Range) Len() int {
	if r.End < r.Start {
		return 0
	}
	return r.End - r.Start + 1
}

func (r Range) validate(name string) error {
	if r.Start < 1 || r.End < 1 {
		return fmt.Errorf("%w: %s bounds must be positive, got %d..=%d", ErrInvalidRange, name, r.Start, r.End)
	}
	if r.Start > r.End {
		return fmt.Errorf("%w: %s start %d is after end %d", ErrInvalidRange, name, r.Start, r.End)
	}
	return nil
}

// SearchRanges bounds the three dimensions of the configuration search.
type SearchRanges struct {
	KLength    Range `json:"k_length" yaml:"k_length"`
	KSmoothing Range `json:"k_smoothing" yaml:"k_smoothing"`
	DLength    Range `json:"d_length" yaml:"d_length"`
}

// Validate fails on the first empty or non-positive range.
func (s SearchRanges) Validate() error {
	if err := s.KLength.validate("k_length"); err != nil {
		return err
	}
	if err := s.KSmoothing.validate("k_smoothing"); err != nil {
		return err
	}
	return s.DLength.validate("d_length")
}

// Count is the size of the Cartesian product.
func (s SearchRanges) Count() int {
	return s.KLength.Len() * s.KSmoothing.Len() * s.DLength.Len()
}

// At returns the configuration with the given ordinal in the enumeration
// k_length ascending, then k_smoothing, then d_length. ordinal must lie in
// [0, Count()) of validated ranges.
func (s SearchRanges) At(ordinal int) StochasticConfig {
	ks, d := s.KSmoothing.Len(), s.DLength.Len()
	return StochasticConfig{
		KLength:    s.KLength.Start + ordinal/(ks*d),
		KSmoothing: s.KSmoothing.Start + ordinal/d%ks,
		DLength:    s.DLength.Start + ordinal%d,
	}
}

// Configs materializes the whole enumeration; the slice index is the
// configuration's ordinal. Search walks ordinals through At instead.
func (s SearchRanges) Configs() []StochasticConfig {
	n := s.Count()
	out := make([]StochasticConfig, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, s.At(i))
	}
	return out
}

// Single is a degenerate range covering exactly one configuration.
func Single(c StochasticConfig) SearchRanges {
	return SearchRanges{
		KLength:    Span(c.KLength, c.KLength),
		KSmoothing: Span(c.KSmoothing, c.KSmoothing),
		DLength:    Span(c.DLength, c.DLength),
	}
}
