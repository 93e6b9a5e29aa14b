package config

import (
	"strings"
	"testing"
)

func TestLookup(t *testing.T) {
	if Lookup("account") == nil {
		t.Error("expected to find key 'account'")
	}
	if Lookup("  ACCOUNT  ") == nil {
		t.Error("expected lookup to be case-insensitive and trimmed")
	}
	if Lookup("no-such-key") != nil {
		t.Error("expected nil for unknown key")
	}
}

func TestKeySpec_RoundTrip(t *testing.T) {
	cfg := &Config{}

	for _, tc := range []struct{ key, value string }{
		{"endpoint", "https://dns.staging.example/v1.0"},
		{"account", "1234"},
		{"default-ttl", "600"},
	} {
		spec := Lookup(tc.key)
		if spec == nil {
			t.Fatalf("key %q not registered", tc.key)
		}
		spec.Set(cfg, tc.value)
		if got := spec.Get(cfg); got != tc.value {
			t.Errorf("%s: Get = %q after Set(%q)", tc.key, got, tc.value)
		}
	}
}

func TestKeySpec_DefaultTTLUnsetIsEmpty(t *testing.T) {
	spec := Lookup("default-ttl")
	if got := spec.Get(&Config{}); got != "" {
		t.Errorf("unset default-ttl = %q, want empty", got)
	}
}

func TestKeysHelp_ListsEveryKey(t *testing.T) {
	help := KeysHelp()
	for _, name := range KeyNames() {
		if !strings.Contains(help, name) {
			t.Errorf("KeysHelp missing key %q", name)
		}
	}
}
