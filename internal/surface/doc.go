// Package surface locates the outer boundary of a polytrope from the tail of
// a fixed-step trajectory.
//
// The integration loop stops one step short of the zero crossing, so the
// boundary lies just beyond the recorded data. Rather than root-find on
// y(x), the last three points are re-read with -y as the abscissa, which is
// strictly increasing there, and x(-y) and z(-y) are evaluated at -y = 0 by
// polynomial interpolation. Three nodes determine the not-a-knot cubic
// uniquely, and it coincides with the quadratic through them.
package surface
