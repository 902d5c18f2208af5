package testsupport

import (
	"context"
	"fmt"
	"sync"

	"recroute/internal/graph"
)

// FakeGraph is an in-memory graph.Provider that records every mutation.
type FakeGraph struct {
	mu     sync.Mutex
	links  []graph.Link
	nextID uint32

	// ListErr fails every query when set.
	ListErr error
	// DisconnectErr fails every disconnect when set.
	DisconnectErr error
	// ConnectErrs fails connects keyed by "out -> in" address.
	ConnectErrs map[string]error

	Disconnected []graph.Link
	Connected    []graph.Link
	Queries      int
}

var _ graph.Provider = (*FakeGraph)(nil)

// NewFakeGraph seeds a fake with links. Links without ids get sequential ones.
func NewFakeGraph(links ...graph.Link) *FakeGraph {
	f := &FakeGraph{nextID: 100, ConnectErrs: map[string]error{}}
	for _, link := range links {
		f.add(link)
	}
	return f
}

// Link builds a link from two device:port pairs.
func Link(outDevice, outPort, inDevice, inPort string) graph.Link {
	return graph.Link{
		Output: graph.CapturePort(outDevice, outPort),
		Input:  graph.PlaybackPort(inDevice, inPort),
	}
}

func (f *FakeGraph) add(link graph.Link) graph.Link {
	if link.ID == 0 {
		f.nextID++
		link.ID = f.nextID
	}
	f.links = append(f.links, link)
	return link
}

// FailConnect makes Connect fail for the given pair.
func (f *FakeGraph) FailConnect(output, input graph.Port, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ConnectErrs[connectKey(output, input)] = err
}

// Links returns a snapshot of the live links.
func (f *FakeGraph) Links() []graph.Link {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]graph.Link(nil), f.links...)
}

func (f *FakeGraph) ListLinkGroups(context.Context) ([]graph.LinkGroup, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Queries++
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	return graph.GroupLinks(f.links), nil
}

func (f *FakeGraph) Disconnect(_ context.Context, link graph.Link) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.DisconnectErr != nil {
		return f.DisconnectErr
	}
	for i, existing := range f.links {
		if existing.ID == link.ID {
			f.links = append(f.links[:i], f.links[i+1:]...)
			f.Disconnected = append(f.Disconnected, link)
			return nil
		}
	}
	return fmt.Errorf("link %d not found", link.ID)
}

func (f *FakeGraph) Connect(_ context.Context, output, input graph.Port) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.ConnectErrs[connectKey(output, input)]; err != nil {
		return err
	}
	link := f.add(graph.Link{Output: output, Input: input})
	f.Connected = append(f.Connected, link)
	return nil
}

func connectKey(output, input graph.Port) string {
	return output.Address() + " -> " + input.Address()
}
