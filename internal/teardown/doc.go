// Package teardown disconnects the links attached to watched devices and
// records the freed ports into named slots for the route installer.
//
// A Scanner walks the link groups returned by a graph query. Every group
// whose common device and side match a MatchRule has all of its links
// disconnected, and the watched device's own port is captured into the slot
// the rule's Disambiguator picks for the group's channel.
package teardown
