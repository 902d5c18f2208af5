// Package routing holds the built-in route tables and the installer that
// wires them into the audio graph after teardown.
//
// A Route pairs a source selector with a destination selector. Selectors name
// either a captured slot or a literal port; Install resolves both ends,
// connects them in table order, and reports which optional routes it skipped.
package routing
