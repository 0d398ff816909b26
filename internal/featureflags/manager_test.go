package featureflags

import "testing"

const testViewer = "11111111-2222-3333-4444-555555555555"

func TestEnabled_BooleanValues(t *testing.T) {
	m := NewManager("a=on,b=off,c=true,d=false,e=1,f=0")

	if !m.Enabled("a", testViewer) || !m.Enabled("c", testViewer) || !m.Enabled("e", testViewer) {
		t.Fatal("expected enabled boolean values to evaluate true")
	}
	if m.Enabled("b", testViewer) || m.Enabled("d", testViewer) || m.Enabled("f", testViewer) {
		t.Fatal("expected disabled boolean values to evaluate false")
	}
}

func TestEnabled_PercentageValues(t *testing.T) {
	m := NewManager("always=100%,never=0%,canary=25%")

	if !m.Enabled("always", testViewer) {
		t.Fatal("100% rollout should always be enabled")
	}
	if m.Enabled("never", testViewer) {
		t.Fatal("0% rollout should always be disabled")
	}

	first := m.Enabled("canary", testViewer)
	for i := 0; i < 5; i++ {
		if got := m.Enabled("canary", testViewer); got != first {
			t.Fatal("rollout evaluation must be deterministic per viewer")
		}
	}

	if m.Enabled("canary", "") {
		t.Fatal("percentage rollout requires a signed-in viewer")
	}
}

func TestParseAndSnapshot(t *testing.T) {
	m := NewManager(" bad ,x=on, y = 20% ,z=off ")

	raw := m.Raw()
	if len(raw) != 3 {
		t.Fatalf("expected 3 parsed flags, got %d", len(raw))
	}
	if raw["x"] != "on" || raw["y"] != "20%" || raw["z"] != "off" {
		t.Fatalf("unexpected raw flags: %#v", raw)
	}

	snap := m.Snapshot(testViewer)
	if len(snap) != 3 {
		t.Fatalf("expected snapshot size 3, got %d", len(snap))
	}
}
