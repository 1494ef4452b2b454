// Package preflight provides readiness checks for the filesystem paths,
// store, and remote provider that par depends on.
//
// The CLI "par doctor" command runs RunAll and renders the results. Each
// check returns a Result rather than an error so one failure never hides
// the others.
package preflight
