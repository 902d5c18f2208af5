package graph

import (
	"sort"
	"strings"
)

// ChannelName derives the logical channel of a port. JACK clients such as the
// recorder expose stereo pairs as "in1-L"/"in1-R"; a single trailing L/R
// letter after '-' or '_' is trimmed so both halves share channel "in1".
// Two-letter positions like "_FL" are kept intact.
func ChannelName(port Port) string {
	name := strings.TrimSpace(port.Name)
	if len(name) < 3 {
		return name
	}
	sep := name[len(name)-2]
	last := name[len(name)-1]
	if (sep == '-' || sep == '_') && strings.ContainsRune("LRlr", rune(last)) {
		return name[:len(name)-2]
	}
	return name
}

type groupKey struct {
	common  string
	peer    string
	channel string
	side    Direction
}

// GroupLinks clusters links into LinkGroups. Every link is placed in one group
// for its capture side and one for its playback side. Groups and the links
// inside them keep first-seen order so callers iterate deterministically.
func GroupLinks(links []Link) []LinkGroup {
	index := make(map[groupKey]int)
	var groups []LinkGroup

	add := func(link Link, side Direction) {
		own := link.Endpoint(side)
		peer := link.Endpoint(side.Opposite())
		key := groupKey{common: own.Device, peer: peer.Device, channel: ChannelName(own), side: side}
		pos, ok := index[key]
		if !ok {
			pos = len(groups)
			index[key] = pos
			groups = append(groups, LinkGroup{
				CommonDevice: key.common,
				PeerDevice:   key.peer,
				Channel:      key.channel,
				Side:         side,
			})
		}
		groups[pos].Links = append(groups[pos].Links, link)
	}

	for _, link := range links {
		add(link, Capture)
		add(link, Playback)
	}
	return groups
}

// Devices returns the sorted set of device identities present in groups.
func Devices(groups []LinkGroup) []string {
	seen := make(map[string]struct{})
	for _, group := range groups {
		seen[group.CommonDevice] = struct{}{}
		seen[group.PeerDevice] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for device := range seen {
		out = append(out, device)
	}
	sort.Strings(out)
	return out
}
