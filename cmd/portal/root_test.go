package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestRootCmd_Commands(t *testing.T) {
	root := newRootCmd()
	want := map[string]bool{"serve": false, "migrate": false, "admin": false}
	for _, c := range root.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("missing %q command", name)
		}
	}
}

func TestAdminCmd_RequiresEmail(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"admin", "promote"})

	err := root.Execute()
	if err == nil || !strings.Contains(err.Error(), "accepts 1 arg") {
		t.Fatalf("expected argument error, got %v", err)
	}
}

func TestServeCmd_SkipMigrateFlag(t *testing.T) {
	cmd := newServeCmd()
	if cmd.Flags().Lookup("skip-migrate") == nil {
		t.Fatalf("serve should expose --skip-migrate")
	}
}
