package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lixenwraith/marble-lottery/engine"
)

func TestRunPrintsFinishOrder(t *testing.T) {
	var out, errOut bytes.Buffer
	err := run([]string{"-seed", "5", "-entities", "a:2,b:1", "-layout", "classic"}, &out, &errOut)
	if err != nil {
		t.Fatalf("run: %v (stderr %q)", err, errOut.String())
	}
	text := out.String()
	if !strings.HasPrefix(text, "board classic (classic), seed 5, 3 marbles") {
		t.Errorf("unexpected header in %q", text)
	}
	if !strings.Contains(text, "winner: marble") {
		t.Errorf("Expected winner line in %q", text)
	}
	// Header plus one row per marble between the board line and the winner line
	if lines := strings.Count(text, "\n"); lines != 6 {
		t.Errorf("Expected 6 lines, got %d in %q", lines, text)
	}
}

func TestRunDeterministic(t *testing.T) {
	args := []string{"-seed", "11", "-entities", "a:3,b:3", "-layout", "corridor"}
	var first, second bytes.Buffer
	if err := run(args, &first, &bytes.Buffer{}); err != nil {
		t.Fatal(err)
	}
	if err := run(args, &second, &bytes.Buffer{}); err != nil {
		t.Fatal(err)
	}
	if first.String() != second.String() {
		t.Errorf("Expected identical output\n%s\nvs\n%s", first.String(), second.String())
	}
}

func TestRunJSON(t *testing.T) {
	var out bytes.Buffer
	if err := run([]string{"-entities", "a:2", "-json"}, &out, &bytes.Buffer{}); err != nil {
		t.Fatal(err)
	}
	var snap engine.TextSnapshot
	if err := json.Unmarshal(out.Bytes(), &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if snap.Finished != 2 || snap.Winner == nil || len(snap.Results) != 2 {
		t.Errorf("unexpected snapshot %+v", snap)
	}
}

func TestRunBudgetExhausted(t *testing.T) {
	var out bytes.Buffer
	err := run([]string{"-entities", "a:2", "-steps", "10"}, &out, &bytes.Buffer{})
	if !errors.Is(err, errNoWinner) {
		t.Errorf("Expected errNoWinner, got %v", err)
	}
	if !strings.Contains(out.String(), "no winner") {
		t.Errorf("Expected partial results, got %q", out.String())
	}
}

func TestRunRejectsBadInput(t *testing.T) {
	tests := [][]string{
		{"-entities", "a:x"},
		{"-layout", "spiral"},
		{"-tick", "0"},
		{"-seed", "4294967296"},
		{"-seed", "-1"},
		{"-nope"},
	}
	for _, args := range tests {
		if err := run(args, &bytes.Buffer{}, &bytes.Buffer{}); err == nil {
			t.Errorf("run(%v): expected error", args)
		}
	}
}

func TestRunArchiveAndList(t *testing.T) {
	db := filepath.Join(t.TempDir(), "runs.db")
	var errOut bytes.Buffer
	for _, seed := range []string{"1", "2"} {
		if err := run([]string{"-seed", seed, "-entities", "a:1,b:1", "-archive", "-db", db}, &bytes.Buffer{}, &errOut); err != nil {
			t.Fatal(err)
		}
	}
	if !strings.Contains(errOut.String(), "archived run 2") {
		t.Errorf("Expected archive notice, got %q", errOut.String())
	}

	var out bytes.Buffer
	if err := run([]string{"-list", "5", "-db", db}, &out, &bytes.Buffer{}); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected header and 2 runs, got %q", out.String())
	}
	if !strings.HasPrefix(lines[1], "2 ") || !strings.HasPrefix(lines[2], "1 ") {
		t.Errorf("Expected newest first, got %q", out.String())
	}
}
