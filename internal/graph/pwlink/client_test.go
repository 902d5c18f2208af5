package pwlink_test

import (
	"context"
	"errors"
	"os/exec"
	"reflect"
	"testing"

	"recroute/internal/graph"
	"recroute/internal/graph/pwlink"
)

type stubExecutor struct {
	lines []string
	err   error
	calls int
	args  [][]string
}

func (s *stubExecutor) Run(ctx context.Context, binary string, args []string, onStdout func(string)) error {
	s.calls++
	s.args = append(s.args, append([]string(nil), args...))
	if onStdout != nil {
		for _, line := range s.lines {
			onStdout(line)
		}
	}
	return s.err
}

func newClient(t *testing.T, stub *stubExecutor) *pwlink.Client {
	t.Helper()
	client, err := pwlink.New("pw-link", pwlink.WithExecutor(stub))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return client
}

func TestNewRequiresBinary(t *testing.T) {
	if _, err := pwlink.New("  "); err == nil {
		t.Fatal("expected error for empty binary")
	}
}

func TestListLinkGroups(t *testing.T) {
	stub := &stubExecutor{lines: []string{
		"  57 hw:capture_FL",
		"  94   |->   77 REAPER:in1-L",
	}}
	groups, err := newClient(t, stub).ListLinkGroups(context.Background())
	if err != nil {
		t.Fatalf("ListLinkGroups: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("expected both sides grouped, got %v", groups)
	}
	if !reflect.DeepEqual(stub.args[0], []string{"--links", "--id"}) {
		t.Fatalf("unexpected args %v", stub.args[0])
	}
}

func TestListLinkGroupsWrapsUnavailable(t *testing.T) {
	stub := &stubExecutor{err: errors.New("failed to connect to pipewire")}
	_, err := newClient(t, stub).ListLinkGroups(context.Background())
	if !errors.Is(err, graph.ErrGraphUnavailable) {
		t.Fatalf("expected ErrGraphUnavailable, got %v", err)
	}
}

func TestDisconnectByID(t *testing.T) {
	stub := &stubExecutor{}
	link := graph.Link{ID: 94, Output: graph.CapturePort("hw", "capture_FL"), Input: graph.PlaybackPort("REAPER", "in1-L")}
	if err := newClient(t, stub).Disconnect(context.Background(), link); err != nil {
		t.Fatalf("Disconnect: %v", err)
	}
	if !reflect.DeepEqual(stub.args[0], []string{"--disconnect", "94"}) {
		t.Fatalf("unexpected args %v", stub.args[0])
	}
}

func TestDisconnectByAddress(t *testing.T) {
	stub := &stubExecutor{}
	link := graph.Link{Output: graph.CapturePort("hw", "capture_FL"), Input: graph.PlaybackPort("REAPER", "in1-L")}
	if err := newClient(t, stub).Disconnect(context.Background(), link); err != nil {
		t.Fatalf("Disconnect: %v", err)
	}
	want := []string{"--disconnect", "hw:capture_FL", "REAPER:in1-L"}
	if !reflect.DeepEqual(stub.args[0], want) {
		t.Fatalf("unexpected args %v", stub.args[0])
	}
}

func TestConnectTreatsExistingLinkAsSuccess(t *testing.T) {
	stub := &stubExecutor{err: errors.New("failed to link ports: File exists: exit status 1")}
	err := newClient(t, stub).Connect(context.Background(), graph.CapturePort("hw", "capture_FL"), graph.PlaybackPort("REAPER", "in1"))
	if err != nil {
		t.Fatalf("expected existing link to succeed, got %v", err)
	}
	if !reflect.DeepEqual(stub.args[0], []string{"hw:capture_FL", "REAPER:in1"}) {
		t.Fatalf("unexpected args %v", stub.args[0])
	}
}

func TestConnectReportsFailure(t *testing.T) {
	stub := &stubExecutor{err: errors.New("failed to link ports: No such file or directory")}
	err := newClient(t, stub).Connect(context.Background(), graph.CapturePort("hw", "capture_FL"), graph.PlaybackPort("REAPER", "in9"))
	if err == nil {
		t.Fatal("expected connect failure")
	}
	if errors.Is(err, graph.ErrGraphUnavailable) {
		t.Fatalf("missing port should not read as unavailable server: %v", err)
	}
}

func TestConnectMissingBinaryIsUnavailable(t *testing.T) {
	stub := &stubExecutor{err: &exec.Error{Name: "pw-link", Err: exec.ErrNotFound}}
	err := newClient(t, stub).Connect(context.Background(), graph.CapturePort("a", "b"), graph.PlaybackPort("c", "d"))
	if !errors.Is(err, graph.ErrGraphUnavailable) {
		t.Fatalf("expected ErrGraphUnavailable, got %v", err)
	}
}
