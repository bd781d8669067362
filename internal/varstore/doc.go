// Package varstore holds the shell's session variables and renders text
// templates against them.
//
// Every value is a cty.Value: plain strings from `let`, lists from `seq` and
// `foreach`, and whole JSON documents returned by the control service. Values
// are immutable, so copying one variable into another can never alias.
//
// Templates use `{{ expr }}` placeholders. The text between the braces is an
// HCL expression evaluated against the store, which allows attribute and
// index access into structured results:
//
//	print {{ MPROV_RESULT.hostname }} has {{ MPROV_RESULT.nics[0].mac }}
//
// A Store is owned by a single session goroutine and is not safe for
// concurrent use.
package varstore
