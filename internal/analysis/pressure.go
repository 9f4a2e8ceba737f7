package analysis

// centralPressureScale is G M_sun^2 / (4 pi R_sun^4) in dyne/cm^2.
const centralPressureScale = 8.952e14

// CentralPressure returns P_c in dyne/cm^2 for a polytrope of the given
// index and surface gradient, with mass and radius in solar units.
func CentralPressure(n, thetaPrime, mass, radius float64) float64 {
	return centralPressureScale / ((n + 1) * thetaPrime * thetaPrime) * mass * mass / (radius * radius * radius * radius)
}
