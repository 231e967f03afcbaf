// Package post owns the in-memory collection of blog posts.
//
// # Overview
//
// A Post is an id/title/content triple. Store holds posts in insertion order
// and assigns identifiers as one greater than the largest id currently held,
// or 1 when the store is empty. Because the rule looks only at the current
// contents, numbering restarts at 1 once every post has been deleted.
//
// Concurrency & Safety
//
// Store is safe for concurrent use. Every method takes the internal lock for
// its whole duration, so compound operations such as Create (next id + append)
// and Update (lookup + mutate) are atomic. Read methods return copies; the
// only way to change a stored post in place is Update.
//
// # Queries
//
// Sorted orders a copy of the collection by title or content, comparing
// case-insensitively with a stable sort. Search keeps posts whose title and
// content contain the given substrings, ignoring case. Neither touches the
// stored order.
//
// The package knows nothing about HTTP or JSON; the api package maps posts to
// wire types.
package post
