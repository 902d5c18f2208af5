package launcher_test

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"recroute/internal/config"
	"recroute/internal/launcher"
	"recroute/internal/logging"
	"recroute/internal/session"
	"recroute/internal/testsupport"
)

type startCall struct {
	binary string
	args   []string
}

type stubStarter struct {
	calls []startCall
	fail  map[string]error
}

func (s *stubStarter) Start(_ context.Context, binary string, args []string) (int, error) {
	s.calls = append(s.calls, startCall{binary: binary, args: append([]string(nil), args...)})
	if err := s.fail[binary]; err != nil {
		return 0, err
	}
	return 1000 + len(s.calls), nil
}

type stubExecutor struct {
	sinkInputs string
	listErr    error
	args       [][]string
}

func (s *stubExecutor) Run(_ context.Context, _ string, args []string) ([]byte, error) {
	s.args = append(s.args, append([]string(nil), args...))
	if len(args) > 0 && args[0] == "--format=json" {
		return []byte(s.sinkInputs), s.listErr
	}
	return nil, nil
}

type stubFinder struct {
	readyAfter int
	probes     int
}

func (f *stubFinder) Running(string) (bool, error) {
	f.probes++
	return f.probes > f.readyAfter, nil
}

type stubReconfigurer struct {
	template string
	calls    int
}

func (r *stubReconfigurer) Reconfigure(_ context.Context, template string) (*session.Result, error) {
	r.calls++
	r.template = template
	return &session.Result{Template: template, State: session.StateDone}, nil
}

type sleepLog struct {
	total time.Duration
	calls int
}

func (s *sleepLog) sleep(_ context.Context, d time.Duration) error {
	s.calls++
	s.total += d
	return nil
}

type fixture struct {
	cfg     *config.Config
	starter *stubStarter
	exec    *stubExecutor
	finder  *stubFinder
	recon   *stubReconfigurer
	sleeps  *sleepLog
}

func newFixture(t *testing.T, opts ...testsupport.ConfigOption) *fixture {
	t.Helper()
	cfg := testsupport.NewConfig(t, opts...)
	cfg.Launch.SoundboardCommand = "/opt/soundux/launch.sh --hidden"
	return &fixture{
		cfg:     cfg,
		starter: &stubStarter{fail: map[string]error{}},
		exec: &stubExecutor{sinkInputs: `[
			{"index": 41, "properties": {"media.name": "Playback", "application.name": "ZOOM VoiceEngine"}},
			{"index": 42, "properties": {"media.name": "Music"}}
		]`},
		finder: &stubFinder{},
		recon:  &stubReconfigurer{},
		sleeps: &sleepLog{},
	}
}

func (f *fixture) launcher(t *testing.T) *launcher.Launcher {
	t.Helper()
	l, err := launcher.New(f.cfg, f.recon, logging.NewNop(),
		launcher.WithStarter(f.starter),
		launcher.WithExecutor(f.exec),
		launcher.WithProcessFinder(f.finder),
		launcher.WithSleep(f.sleeps.sleep),
	)
	if err != nil {
		t.Fatalf("launcher.New: %v", err)
	}
	return l
}

func TestRunStartsSessionInOrder(t *testing.T) {
	f := newFixture(t, testsupport.WithTemplateFile())
	f.cfg.Launch.SettleDelay = 15
	f.cfg.Launch.ReadyTimeout = 10
	f.finder.readyAfter = 2

	result, err := f.launcher(t).Run(context.Background(), "")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.State != session.StateDone || f.recon.template != "multichannel" {
		t.Fatalf("unexpected result %+v template %q", result, f.recon.template)
	}

	if len(f.starter.calls) != 3 {
		t.Fatalf("expected soundboard, effects and recorder starts, got %+v", f.starter.calls)
	}
	if f.starter.calls[0].binary != "/opt/soundux/launch.sh" || !reflect.DeepEqual(f.starter.calls[0].args, []string{"--hidden"}) {
		t.Fatalf("unexpected soundboard start %+v", f.starter.calls[0])
	}
	if f.starter.calls[1].binary != "easyeffects" {
		t.Fatalf("unexpected effects start %+v", f.starter.calls[1])
	}
	recorder := f.starter.calls[2]
	wantArgs := []string{"reaper", "-template", f.cfg.TemplatePath()}
	if recorder.binary != "pw-jack" || !reflect.DeepEqual(recorder.args, wantArgs) {
		t.Fatalf("unexpected recorder start %+v", recorder)
	}

	if f.finder.probes != 3 {
		t.Fatalf("expected 3 readiness probes, got %d", f.finder.probes)
	}
	if f.sleeps.total != 2*time.Second+15*time.Second {
		t.Fatalf("expected two polls plus settle delay, got %s", f.sleeps.total)
	}
}

func TestRunSetsPlaybackVolume(t *testing.T) {
	f := newFixture(t, testsupport.WithTemplateFile())
	if _, err := f.launcher(t).Run(context.Background(), "analog"); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if f.recon.template != "analog" {
		t.Fatalf("expected template override, got %q", f.recon.template)
	}
	var volumeCalls [][]string
	for _, args := range f.exec.args {
		if args[0] == "set-sink-input-volume" {
			volumeCalls = append(volumeCalls, args)
		}
	}
	want := [][]string{{"set-sink-input-volume", "41", "74%"}}
	if !reflect.DeepEqual(volumeCalls, want) {
		t.Fatalf("unexpected volume calls %v", volumeCalls)
	}
}

func TestRunContinuesWhenHelpersFail(t *testing.T) {
	f := newFixture(t, testsupport.WithTemplateFile())
	f.starter.fail["easyeffects"] = errors.New("not found")
	f.exec.listErr = errors.New("connection refused")

	if _, err := f.launcher(t).Run(context.Background(), ""); err != nil {
		t.Fatalf("expected helper failures to be non-fatal, got %v", err)
	}
	if f.recon.calls != 1 {
		t.Fatal("expected reconfigure to run")
	}
}

func TestRunFailsWithoutTemplate(t *testing.T) {
	f := newFixture(t)

	_, err := f.launcher(t).Run(context.Background(), "")
	if !errors.Is(err, launcher.ErrTemplateMissing) {
		t.Fatalf("expected ErrTemplateMissing, got %v", err)
	}
	for _, call := range f.starter.calls {
		if call.binary == "pw-jack" {
			t.Fatal("recorder should not start without a template")
		}
	}
	if f.recon.calls != 0 {
		t.Fatal("reconfigure should not run")
	}
}

func TestRunFailsWhenRecorderNeverStarts(t *testing.T) {
	f := newFixture(t, testsupport.WithTemplateFile())
	f.finder.readyAfter = 1000

	_, err := f.launcher(t).Run(context.Background(), "")
	if !errors.Is(err, launcher.ErrRecorderNotReady) {
		t.Fatalf("expected ErrRecorderNotReady, got %v", err)
	}
	if !strings.Contains(err.Error(), "reaper") {
		t.Fatalf("expected process name in error, got %v", err)
	}
	if f.recon.calls != 0 {
		t.Fatal("reconfigure should not run")
	}
}

func TestRunWithoutJackWrapper(t *testing.T) {
	f := newFixture(t, testsupport.WithTemplateFile())
	f.cfg.Launch.JackWrapper = ""
	if _, err := f.launcher(t).Run(context.Background(), ""); err != nil {
		t.Fatalf("Run: %v", err)
	}
	last := f.starter.calls[len(f.starter.calls)-1]
	if last.binary != "reaper" || last.args[0] != "-template" {
		t.Fatalf("unexpected recorder start %+v", last)
	}
}

func TestNewValidatesInputs(t *testing.T) {
	if _, err := launcher.New(nil, &stubReconfigurer{}, nil); err == nil {
		t.Fatal("expected error for nil config")
	}
	cfg := testsupport.NewConfig(t)
	if _, err := launcher.New(cfg, nil, nil); err == nil {
		t.Fatal("expected error for nil reconfigurer")
	}
}
