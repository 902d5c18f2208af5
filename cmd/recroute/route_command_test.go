package main

import (
	"encoding/json"
	"errors"
	"testing"

	"recroute/internal/routing"
	"recroute/internal/runlock"
	"recroute/internal/testsupport"
)

func TestRouteCommandRewiresGraph(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.Link("HW_IN", "capture_FL", "REC", "in1"))

	out, _, err := runCLI(t, []string{"route", "--template", "analog"}, env.configPath)
	if err != nil {
		t.Fatalf("route: %v", err)
	}
	requireContains(t, out, "template analog, state done")
	requireContains(t, out, "reaper_in1")
	requireContains(t, out, "analog-left")

	if len(env.graph.Disconnected) != 1 {
		t.Fatalf("expected one disconnect, got %v", env.graph.Disconnected)
	}
	if len(env.graph.Connected) != 2 {
		t.Fatalf("expected two connects, got %v", env.graph.Connected)
	}
}

func TestRouteCommandDryRunLeavesGraph(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.Link("HW_IN", "capture_FL", "REC", "in1"))

	out, _, err := runCLI(t, []string{"route", "--dry-run"}, env.configPath)
	if err != nil {
		t.Fatalf("route --dry-run: %v", err)
	}
	requireContains(t, out, "(dry run)")
	if len(env.graph.Disconnected) != 0 || len(env.graph.Connected) != 0 {
		t.Fatalf("dry run mutated graph: -%v +%v", env.graph.Disconnected, env.graph.Connected)
	}
	if len(env.graph.Links()) != 1 {
		t.Fatalf("expected original link to survive, got %v", env.graph.Links())
	}

	history, _, err := runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, history, "No runs recorded")
}

func TestRouteCommandJSON(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.Link("HW_IN", "capture_FL", "REC", "in1"))

	out, _, err := runCLI(t, []string{"route", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("route --json: %v", err)
	}
	var payload resultJSON
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode json: %v\n%s", err, out)
	}
	if payload.Template != "multichannel" || payload.State != "done" {
		t.Fatalf("unexpected payload %+v", payload)
	}
	if payload.Slots["reaper_in1"] != "REC:in1" {
		t.Fatalf("unexpected slots %v", payload.Slots)
	}
	if len(payload.Installed) != 4 || len(payload.Skipped) != 6 {
		t.Fatalf("expected 4 installed and 6 skipped, got %d/%d", len(payload.Installed), len(payload.Skipped))
	}
}

func TestRouteCommandUnknownTemplate(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"route", "--template", "podcast"}, env.configPath)
	if !errors.Is(err, routing.ErrUnknownTemplate) {
		t.Fatalf("expected unknown template error, got %v", err)
	}
	if env.graph.Queries != 0 {
		t.Fatalf("expected no graph query, got %d", env.graph.Queries)
	}
}

func TestRouteCommandRequiredDeviceMissingFails(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.Link("HW_IN", "capture_FL", "HW_OUT", "playback_FL"))

	out, _, err := runCLI(t, []string{"route"}, env.configPath)
	if err == nil {
		t.Fatal("expected failure without recorder links")
	}
	requireContains(t, out, "state failed")
	requireContains(t, out, "Failed during torn_down")
	if len(env.graph.Connected) != 0 {
		t.Fatalf("expected no connects, got %v", env.graph.Connected)
	}
}

func TestRouteCommandRefusesWhileLocked(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.Link("HW_IN", "capture_FL", "REC", "in1"))
	if err := env.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure dirs: %v", err)
	}
	lock := runlock.New(env.cfg.LockPath())
	if err := lock.TryAcquire(); err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer func() { _ = lock.Release() }()

	_, _, err := runCLI(t, []string{"route"}, env.configPath)
	if !errors.Is(err, runlock.ErrBusy) {
		t.Fatalf("expected busy error, got %v", err)
	}
	if env.graph.Queries != 0 {
		t.Fatalf("expected no graph query while locked, got %d", env.graph.Queries)
	}
}
