// Package analysis computes the reported metrics over a validated working
// set: scalar summary statistics, per-site and per-age-bucket aggregates, a
// pairwise Pearson correlation matrix, and the categorical site grade.
//
// All functions are pure: they read the working set, allocate their result,
// and return. Nothing is cached or mutated between calls, so repeated runs
// over the same working set are idempotent and concurrent runs over separate
// working sets need no coordination.
//
// # Rounding
//
// Percentages and mean ages are rounded to 2 decimal places, correlation
// coefficients to 3, using math.Round (half away from zero). This is the one
// rounding rule used everywhere in the package.
//
// # Undefined values
//
// A correlation over a zero-variance field is undefined and reported as the
// NaN sentinel (serialized as null), never as zero. An empty stratum or age
// bucket reports rate 0 so the output schema stays total.
package analysis
