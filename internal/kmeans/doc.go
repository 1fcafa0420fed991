// Package kmeans partitions RGB samples into k clusters and returns one
// representative colour (the rounded mean) per cluster.
//
// A run seeds k centroids, then repeats assign → recompute until no sample
// changes cluster or the iteration cap is hit. Centroids that end an
// iteration with no samples collapse to black (0,0,0); they are not reseeded.
//
// Runs are synchronous and own all of their state. The random source used
// for seeding can be injected with WithRand or WithSeed, which makes a run
// fully reproducible.
package kmeans
