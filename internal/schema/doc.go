// Package schema models the object types the control service declares about
// itself. Each Model carries the REST endpoint for the type and its fields in
// the order the service listed them; a Catalog is the full set fetched during
// one connect and is read-only once built.
package schema
