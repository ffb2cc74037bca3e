// Command flipbook edits and exports layered animation documents from the
// command line.
//
// A document is a YAML file holding the layer stack, with its palette kept
// in a sibling "<file>.data" directory. Every command that changes the
// document saves it back in place.
package main
