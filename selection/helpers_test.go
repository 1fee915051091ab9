package selection

import (
	"github.com/hupe1980/pairsel/collection"
)

type obj struct {
	pt, eta, phi float64
}

func newColl(name string, objs ...obj) *collection.Collection {
	n := len(objs)
	pt, eta, phi := make([]float64, n), make([]float64, n), make([]float64, n)
	for i, o := range objs {
		pt[i], eta[i], phi[i] = o.pt, o.eta, o.phi
	}
	return collection.New(name, pt, eta, phi, make([]float64, n))
}

func all(c *collection.Collection) []int {
	out := make([]int, c.Len())
	for i := range out {
		out[i] = i
	}
	return out
}
