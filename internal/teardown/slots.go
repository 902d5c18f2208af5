package teardown

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"recroute/internal/graph"
)

// Slots maps slot names to captured ports. A slot is absent until a scan
// assigns it.
type Slots map[string]graph.Port

// Lookup returns the port captured for name.
func (s Slots) Lookup(name string) (graph.Port, bool) {
	port, ok := s[name]
	return port, ok
}

// Names returns the assigned slot names in sorted order.
func (s Slots) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s Slots) assign(name string, port graph.Port) error {
	if existing, ok := s[name]; ok {
		if existing.SameAddress(port) {
			return nil
		}
		return fmt.Errorf("%w: slot %q holds %s, refusing %s", ErrDuplicateSlot, name, existing.Address(), port.Address())
	}
	s[name] = port
	return nil
}

// Disambiguator picks the slot for a link group's channel name.
type Disambiguator func(channel string) (slot string, ok bool)

var upper = cases.Upper(language.Und)

// StereoSlots maps channels containing "FR" to right and "FL" to left,
// ignoring case. FR is checked first.
func StereoSlots(left, right string) Disambiguator {
	return func(channel string) (string, bool) {
		folded := upper.String(channel)
		switch {
		case strings.Contains(folded, "FR"):
			return right, true
		case strings.Contains(folded, "FL"):
			return left, true
		default:
			return "", false
		}
	}
}

// NumberedSlots maps channels channelPrefix1..channelPrefixN exactly to
// slotPrefix1..slotPrefixN.
func NumberedSlots(slotPrefix, channelPrefix string, n int) Disambiguator {
	return func(channel string) (string, bool) {
		suffix, found := strings.CutPrefix(channel, channelPrefix)
		if !found {
			return "", false
		}
		k, err := strconv.Atoi(suffix)
		if err != nil || k < 1 || k > n || strconv.Itoa(k) != suffix {
			return "", false
		}
		return slotPrefix + suffix, true
	}
}
