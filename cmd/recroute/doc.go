// Package main hosts the recroute CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration once, builds the pw-link
// graph provider and structured logger, and hands off to the internal
// packages: `route` reconfigures the graph, `launch` starts a full recording
// session, `watch` re-routes on USB sound hotplug, and `links`, `history` and
// `status` inspect the graph and the run journal.
//
// Keep this package thin: routing behaviour belongs in internal/session and
// its collaborators, surfaced here through flags and rendering only.
package main
