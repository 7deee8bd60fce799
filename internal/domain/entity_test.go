package domain

import (
	"net/netip"
	"testing"
)

func TestDefaultEntities(t *testing.T) {
	want := map[string]struct {
		address  string
		mirrored bool
	}{
		"head":       {"/tracking/vrsystem/head/pose", false},
		"leftwrist":  {"/tracking/vrsystem/leftwrist/pose", true},
		"rightwrist": {"/tracking/vrsystem/rightwrist/pose", true},
	}

	entities := DefaultEntities()
	if len(entities) != len(want) {
		t.Fatalf("len(DefaultEntities()) = %d, want %d", len(entities), len(want))
	}
	for _, e := range entities {
		w, ok := want[e.Name]
		if !ok {
			t.Errorf("unexpected entity %q", e.Name)
			continue
		}
		if e.Address != w.address {
			t.Errorf("%s: Address = %q, want %q", e.Name, e.Address, w.address)
		}
		if e.Mirrored != w.mirrored {
			t.Errorf("%s: Mirrored = %v, want %v", e.Name, e.Mirrored, w.mirrored)
		}
	}
}

func TestEntity_Args(t *testing.T) {
	pose := Pose{
		Position: Vec3{1, 2, 3},
		Rotation: Vec3{10, 20, 30},
	}

	tests := []struct {
		name     string
		mirrored bool
		want     [PoseArgs]float32
	}{
		{"head keeps rotation", false, [PoseArgs]float32{1, 2, 3, 10, 20, 30}},
		{"wrist negates x and z", true, [PoseArgs]float32{1, 2, 3, -10, 20, -30}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEntity("x", tt.mirrored, SourceHead, "")
			if got := e.Args(pose); got != tt.want {
				t.Errorf("Args() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEndpoint(t *testing.T) {
	var zero Endpoint
	if zero.IsValid() {
		t.Error("zero Endpoint should not be valid")
	}

	e := Endpoint{Addr: netip.MustParseAddr("192.168.1.20"), Port: 9001}
	if !e.IsValid() {
		t.Error("Endpoint should be valid")
	}
	if got := e.String(); got != "192.168.1.20:9001" {
		t.Errorf("String() = %q, want 192.168.1.20:9001", got)
	}
}
