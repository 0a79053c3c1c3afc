// Package params defines the ordered parameter model edited by the form data
// editor together with the application/x-www-form-urlencoded codec that turns
// it into a single encoded string and back. Every operation is pure: mutations
// return a new Model and never touch the receiver, so callers (the formsync
// engine in particular) decide when a change becomes observable.
package params
