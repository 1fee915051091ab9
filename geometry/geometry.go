package geometry

import (
	"math"

	"go-hep.org/x/hep/fmom"
)

// P4 builds a four-vector from transverse momentum, pseudorapidity, azimuth and mass.
func P4(pt, eta, phi, mass float64) fmom.PtEtaPhiM {
	return fmom.NewPtEtaPhiM(pt, eta, phi, mass)
}

// DeltaPhi returns phi1-phi2 reduced into (-π, π].
func DeltaPhi(phi1, phi2 float64) float64 {
	d := math.Remainder(phi1-phi2, 2*math.Pi)
	if d <= -math.Pi {
		d += 2 * math.Pi
	}
	return d
}

// DeltaR returns the angular separation between two (eta, phi) directions.
// It is evaluated on unit-pt massless four-vectors so that it agrees bit for
// bit with DeltaRP4 on the same directions.
func DeltaR(eta1, phi1, eta2, phi2 float64) float64 {
	a := fmom.NewPtEtaPhiM(1, eta1, phi1, 0)
	b := fmom.NewPtEtaPhiM(1, eta2, phi2, 0)
	return fmom.DeltaR(&a, &b)
}

// DeltaRP4 returns the angular separation between two four-vectors.
func DeltaRP4(a, b *fmom.PtEtaPhiM) float64 {
	return fmom.DeltaR(a, b)
}

// InvariantMass returns the invariant mass of the two-object system.
func InvariantMass(a, b *fmom.PtEtaPhiM) float64 {
	return fmom.InvMass(a, b)
}
