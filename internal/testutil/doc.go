// Package testutil holds shared test fixtures: a fake control service that
// speaks the datamodel protocol and thread-safe output capture.
package testutil
