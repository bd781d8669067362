// Package shellerr defines the error taxonomy shared by every layer of the
// shell. Each failure class is a sentinel so callers can branch on it with
// errors.Is regardless of how many times it has been wrapped on the way up.
package shellerr
