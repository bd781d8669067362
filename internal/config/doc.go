// Package config finds and parses the mash connection file.
//
// The file is YAML. Its top level is either a mapping of section names, or a
// list of single-section mappings that are merged in order (later sections
// win). Only the `global` section is interpreted:
//
//	- global:
//	    mprovURL: https://mpcc.example.org/
//	    apikey: 0123456789abcdef
//
// Instead of `apikey`, `user` and `password` select basic authentication.
package config
