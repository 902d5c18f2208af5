// Package pwlink implements graph.Provider on top of the PipeWire pw-link
// command line tool.
//
// Queries run `pw-link --links --id` and parse the forward (`|->`) entries so
// every link is reported once. Mutations shell out one pw-link invocation per
// link, which keeps each call atomic at the server boundary.
package pwlink
