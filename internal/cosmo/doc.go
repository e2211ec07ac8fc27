// Package cosmo integrates the Friedmann equation for a mixture of radiation,
// matter, curvature and dark energy, and computes the epochs at which pairs of
// components have equal density.
//
// Time is measured in Hubble times (1/H0) with t = 0 at the present and the
// scale factor normalised to a(0) = 1. The integrator is a first-order Euler
// scheme whose step is a fixed fraction of the local Hubble time, walked
// forward and backward from the present and merged into a single series.
package cosmo
