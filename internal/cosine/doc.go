// Package cosine holds the half-cosine transform f(v) = (cos(v) + 1) * 0.5
// and the index series built by applying it twice per index.
package cosine
