// Package analysis orchestrates a single video assessment: it admits the
// request through the per-user task registry, takes the per-video lock,
// makes exactly one call to the external model, validates and normalizes the
// returned scores, hands the result to persistence, and tears the
// coordination state down on every exit path.
package analysis
