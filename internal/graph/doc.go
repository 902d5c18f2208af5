// Package graph models the PipeWire link graph as the routing core sees it.
//
// A Port is addressed by (device identity, port name); its Direction says
// whether it produces audio (Capture, an output port) or consumes it
// (Playback, an input port). A Link joins one capture port to one playback
// port. LinkGroup clusters links that share one endpoint channel so rules can
// reason about "the recorder's in1" rather than individual link ids.
//
// Provider is the only I/O boundary of the routing core. Implementations live
// in subpackages (pwlink) and in test support; the core never talks to the
// audio server directly.
package graph
