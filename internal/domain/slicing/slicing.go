package slicing

import "time"

// Spec is one extraction window within a source.
type Spec struct {
	Index  int
	Offset time.Duration
	Length time.Duration
}

// Derive computes the ordered extraction windows for a source of the given
// total duration. The count is quantized to milliseconds so that float
// durations from the probe tool do not drift the arithmetic. A trailing
// fragment shorter than sliceLen is dropped, not emitted short; the last
// window may therefore run past total and relies on the audio tool clamping
// to source end.
func Derive(total, sliceLen time.Duration) []Spec {
	if sliceLen <= 0 {
		return nil
	}
	n := int(total.Milliseconds() / sliceLen.Milliseconds())
	if n <= 0 {
		return nil
	}
	specs := make([]Spec, n)
	for i := 0; i < n; i++ {
		specs[i] = Spec{
			Index:  i,
			Offset: time.Duration(i) * sliceLen,
			Length: sliceLen,
		}
	}
	return specs
}
