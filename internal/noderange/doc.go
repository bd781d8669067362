/*
Package noderange expands the compact bracketed notation used for cluster
host names into the list of names it denotes.

The format is `prefix[token,token,...]suffix` where each token is either a
single zero-padded number or an inclusive `start-end` range, e.g.
`compute00[01-03,05]`. Generated numbers keep the width of the range's start
token, so fixed-width host names stay fixed-width.
*/
package noderange
