package testhelpers

import "fmt"

// ScriptedRandom returns queued values in order. Once a queue runs dry it returns 0.
type ScriptedRandom struct {
	Ints   []int
	Floats []float64
}

func (r *ScriptedRandom) Intn(n int) int {
	if len(r.Ints) == 0 {
		return 0
	}
	v := r.Ints[0]
	r.Ints = r.Ints[1:]
	if v < 0 || v >= n {
		panic(fmt.Sprintf("scripted int %d out of range [0,%d)", v, n))
	}
	return v
}

func (r *ScriptedRandom) Float64() float64 {
	if len(r.Floats) == 0 {
		return 0
	}
	v := r.Floats[0]
	r.Floats = r.Floats[1:]
	return v
}
