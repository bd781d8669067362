// Package controlclient talks to the mProv control service (mPCC).
//
// A Client learns the service's object model during Connect and then turns
// shell-level CRUD commands into validated HTTP requests. Requests are built
// in full before anything goes on the wire, so a finished Request together
// with the Transport is all a background job needs; it never reads the
// client's mutable connection state.
package controlclient
