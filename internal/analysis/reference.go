package analysis

import (
	"fmt"

	"github.com/san-kum/polytrope/internal/emden"
)

// Reference holds tabulated surface values for one index.
type Reference struct {
	N            float64
	XI1          float64
	ThetaPrime   float64
	DensityRatio float64
}

// References are the classical values (Chandrasekhar 1939) for the indices
// usually quoted in textbooks.
var References = []Reference{
	{N: 0, XI1: 2.4494, ThetaPrime: 0.81650, DensityRatio: 1.0000},
	{N: 1, XI1: 3.14159, ThetaPrime: 0.31831, DensityRatio: 3.28987},
	{N: 1.5, XI1: 3.65375, ThetaPrime: 0.20330, DensityRatio: 5.99071},
	{N: 2, XI1: 4.35287, ThetaPrime: 0.12725, DensityRatio: 11.40254},
	{N: 3, XI1: 6.89685, ThetaPrime: 0.04243, DensityRatio: 54.1825},
	{N: 4, XI1: 14.97155, ThetaPrime: 0.00802, DensityRatio: 622.408},
}

// LookupReference returns the tabulated values for n.
func LookupReference(n float64) (Reference, error) {
	for _, r := range References {
		if r.N == n {
			return r, nil
		}
	}
	return Reference{}, fmt.Errorf("%w: no tabulated values for n=%g", emden.ErrUnsupportedIndex, n)
}

// ReferenceFor returns exact values for n = 0 and n = 1 and tabulated
// values for the other classical indices.
func ReferenceFor(n float64) (Reference, error) {
	surf, err := AnalyticSurface(n)
	if err != nil {
		return LookupReference(n)
	}
	ratio, err := AnalyticDensityRatio(n)
	if err != nil {
		return Reference{}, err
	}
	return Reference{N: n, XI1: surf.XI1, ThetaPrime: surf.ThetaPrime, DensityRatio: ratio}, nil
}
