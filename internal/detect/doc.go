// Package detect holds the frame-level detection decision core: the Candidate
// and Decision types shared by every detector implementation, and the pure
// aggregation function that turns a set of candidates into a single
// present/absent verdict.
package detect
