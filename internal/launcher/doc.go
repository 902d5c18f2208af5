// Package launcher orchestrates a recording session around a reconfigure
// run: it starts the soundboard and effects applications, sets the playback
// stream volume, launches the recorder with its project template, waits for
// the recorder process to appear and settle, then reconfigures the graph.
//
// These are external collaborators of the routing core. Failures starting
// the optional helpers are logged and the session continues; a missing
// template or a recorder that never starts abort before any graph mutation.
package launcher
