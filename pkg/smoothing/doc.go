/*
Package smoothing converts raw observation counts into probability
distributions over an alphabet of a fixed number of bins, reserving
probability mass for events that were never observed.

Every estimator accepts a frequency distribution (a map from any comparable
event to its count) and the total alphabet size, and returns a Distribution.
Estimators are available both as named functions (Laplace, Lidstone,
WittenBell, SimpleGoodTuring, ...) and through the Smooth dispatcher, which
selects one by its Method name.

	freqs := map[string]int{"a": 2, "b": 1}
	dist, err := smoothing.Laplace(freqs, 4)
	// dist.Prob("a") == 3/7, dist.Prob("z") == 1/7
*/
package smoothing
