package routing

import (
	"fmt"

	"recroute/internal/graph"
)

// SlotLookup is the read side of a teardown's captured slots.
type SlotLookup interface {
	Lookup(name string) (graph.Port, bool)
}

// Selector resolves one end of a route.
type Selector struct {
	slot     string
	fallback graph.Port
	literal  bool
}

// Slot selects the port captured into name.
func Slot(name string) Selector {
	return Selector{slot: name}
}

// Literal selects a fixed port address.
func Literal(port graph.Port) Selector {
	return Selector{fallback: port, literal: true}
}

// SlotOr selects the port captured into name, or fallback when the slot is
// unset.
func SlotOr(name string, fallback graph.Port) Selector {
	return Selector{slot: name, fallback: fallback, literal: true}
}

// Resolve returns the port for the selector. The port must sit on the
// expected side of a link.
func (s Selector) Resolve(slots SlotLookup, want graph.Direction) (graph.Port, error) {
	port, err := s.lookup(slots)
	if err != nil {
		return graph.Port{}, err
	}
	if port.Direction == "" {
		port.Direction = want
	}
	if port.Direction != want {
		return graph.Port{}, fmt.Errorf("%s is a %s port, route needs %s", port.Address(), port.Direction, want)
	}
	return port, nil
}

func (s Selector) lookup(slots SlotLookup) (graph.Port, error) {
	if s.slot != "" && slots != nil {
		if port, ok := slots.Lookup(s.slot); ok {
			return port, nil
		}
	}
	if s.literal {
		return s.fallback, nil
	}
	return graph.Port{}, fmt.Errorf("%w: %s", ErrSlotUnset, s.slot)
}

func (s Selector) String() string {
	switch {
	case s.slot != "" && s.literal:
		return fmt.Sprintf("slot(%s|%s)", s.slot, s.fallback.Address())
	case s.slot != "":
		return fmt.Sprintf("slot(%s)", s.slot)
	default:
		return s.fallback.Address()
	}
}

// Route is one static connection in a table. Required routes abort
// installation on failure; optional routes are skipped.
type Route struct {
	Name        string
	Source      Selector
	Destination Selector
	Required    bool
}

// Table is an ordered route list selected by template name.
type Table struct {
	Name   string
	Routes []Route
}
