package graph

import (
	"fmt"
	"strings"
)

// Direction is the data-flow side of a port.
type Direction string

const (
	// Capture ports emit audio (PipeWire output ports).
	Capture Direction = "capture"
	// Playback ports receive audio (PipeWire input ports).
	Playback Direction = "playback"
)

// Opposite returns the other side of a link.
func (d Direction) Opposite() Direction {
	if d == Capture {
		return Playback
	}
	return Capture
}

// Port identifies one addressable endpoint.
type Port struct {
	Device    string
	Name      string
	Direction Direction
}

// Valid reports whether the port carries a full address.
func (p Port) Valid() bool {
	return strings.TrimSpace(p.Device) != "" && strings.TrimSpace(p.Name) != ""
}

// Address renders the device:port form accepted by pw-link.
func (p Port) Address() string {
	return p.Device + ":" + p.Name
}

// SameAddress compares ports by (device, name) only.
func (p Port) SameAddress(other Port) bool {
	return p.Device == other.Device && p.Name == other.Name
}

func (p Port) String() string {
	if p.Direction == "" {
		return p.Address()
	}
	return fmt.Sprintf("%s (%s)", p.Address(), p.Direction)
}

// CapturePort builds an output port address.
func CapturePort(device, name string) Port {
	return Port{Device: device, Name: name, Direction: Capture}
}

// PlaybackPort builds an input port address.
func PlaybackPort(device, name string) Port {
	return Port{Device: device, Name: name, Direction: Playback}
}

// Link is a live connection from a capture port to a playback port. ID is the
// server-assigned link id, zero when unknown.
type Link struct {
	ID     uint32
	Output Port
	Input  Port
}

// Endpoint returns the link's port on the given side.
func (l Link) Endpoint(side Direction) Port {
	if side == Capture {
		return l.Output
	}
	return l.Input
}

func (l Link) String() string {
	return l.Output.Address() + " -> " + l.Input.Address()
}

// LinkGroup is a query-time cluster of links sharing a device pair and a
// logical channel on one side. CommonDevice and Side describe the shared
// endpoint; PeerDevice is the device at the other end of every link.
type LinkGroup struct {
	CommonDevice string
	PeerDevice   string
	Channel      string
	Side         Direction
	Links        []Link
}

func (g LinkGroup) String() string {
	return fmt.Sprintf("%s/%s (%s) <-> %s [%d links]", g.CommonDevice, g.Channel, g.Side, g.PeerDevice, len(g.Links))
}
