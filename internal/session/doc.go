// Package session runs one reconfiguration of the audio graph: query the
// current links, tear down the watched devices, then install the selected
// route table.
//
// A run is strictly sequential and not transactional. Result always reports
// how far the run got; a failed run may leave the graph partially wired and
// the caller decides whether to re-run.
package session
