// Package pipeline runs a complete gallery build.
//
// Run drives the stages in order: scan the input tree, generate thumbnails
// on a bounded worker pool, build every album's page context in one pass,
// then render the pages on a second pool. The stages are separated by hard
// barriers; rendering never starts before the context pass has finished.
//
// Recoverable problems (corrupt images, unreadable subdirectories, failed
// pages) are collected on a report.Report and returned in the Summary. Run
// returns an error only for fatal conditions: an unreadable input root, a
// broken theme, a second build holding the output lock, cancellation, or
// any page failure when strict mode is on.
//
// Watch runs a build and then rebuilds whenever the input tree or the
// theme changes.
package pipeline
