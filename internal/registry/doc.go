// Package registry maps plugin names to factories.
//
// Plugins are compiled in. Each plugin package exposes a Module whose
// Register method adds one or more named factories to the Registry during
// application startup. When the shell meets a keyword it does not know, it
// looks the keyword up here, builds the plugin for the current session via
// its Factory and hands it the rest of the line.
//
// CommandSet is the small nested interpreter most plugins are built on: it
// splits the plugin line into a sub-command and its arguments, prints a help
// listing and reports unknown sub-commands with a suggestion.
package registry
