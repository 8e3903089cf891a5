package dice

// Script is a Source that replays fixed values, for tests and replays.
//
// IntN returns the next value of Ints clamped into [0, n); once Ints runs out
// it returns 0. Float64 returns the next value of Floats; once Floats runs out
// it returns 0.99.
type Script struct {
	Ints   []int
	Floats []float64
}

func (s *Script) IntN(n int) int {
	if len(s.Ints) == 0 {
		return 0
	}
	v := s.Ints[0]
	s.Ints = s.Ints[1:]
	if v < 0 {
		return 0
	}
	if v >= n {
		return n - 1
	}
	return v
}

func (s *Script) Float64() float64 {
	if len(s.Floats) == 0 {
		return 0.99
	}
	v := s.Floats[0]
	s.Floats = s.Floats[1:]
	return v
}

// Scripted returns a Roller replaying ints and floats.
func Scripted(ints []int, floats []float64) *Roller {
	return New(&Script{Ints: ints, Floats: floats})
}
