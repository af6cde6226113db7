// Package extract implements the receipt extraction pipeline: a vision
// model pass over the receipt image, an AI categorization pass over the
// extracted fields, and heuristic fallbacks for both. The pipeline is a
// total function; callers always receive a well-typed result.
package extract
