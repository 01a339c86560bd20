/*
Package markov provides an in-memory word-transition model and the tools to
train it from a text corpus and walk it to produce short pseudo-random
sentences.

A Model interns every distinct whitespace-delimited token as a Node and keeps,
per node, an ordered list of successor edges weighted by how often the pair was
observed. A token ending in "." is a sentence terminator: it never gets an
outgoing link during ingestion and a walk stops as soon as it reaches one.

All randomness comes from a caller-supplied Rand, so the same seed, corpus and
parameters always produce the same output.
*/
package markov
