// Package shell implements the mash command language.
//
// A Shell is one session: a variable store, a control service client, the
// pending foreach block, the background jobs and the console. Feed takes raw
// input lines. Outside a foreach block each line is rendered against the
// variable store and handed to Dispatch; inside one it is buffered and only
// rendered when the block is replayed at endforeach.
//
// Keywords that are not built in are looked up in the plugin registry. Every
// command reports its own failure and the session continues, except for a
// failing connect while running a script.
package shell
