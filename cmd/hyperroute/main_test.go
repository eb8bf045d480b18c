package main

import "testing"

func TestRunRequiresCommand(t *testing.T) {
	if err := run(nil); err == nil {
		t.Fatal("expected an error when no command is given")
	}
}

func TestRunUnknownCommand(t *testing.T) {
	if err := run([]string{"frobnicate"}); err == nil {
		t.Fatal("expected an error for an unknown command")
	}
}

func TestRunVersion(t *testing.T) {
	if err := run([]string{"version"}); err != nil {
		t.Fatalf("run(version): %v", err)
	}
}

func TestRunHelp(t *testing.T) {
	if err := run([]string{"help"}); err != nil {
		t.Fatalf("run(help): %v", err)
	}
}

func TestRunRouteMissingDB(t *testing.T) {
	if err := run([]string{"route", "list"}); err == nil {
		t.Fatal("expected an error when --db is not supplied")
	}
}
