package hash

import (
	"strings"
	"testing"
)

func TestSHA256Hex(t *testing.T) {
	// Known vector for "abc"
	got := SHA256Hex("abc")
	want := "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got != want {
		t.Errorf("SHA256Hex(abc) = %s, want %s", got, want)
	}
}

func TestIteratedSHA256_Deterministic(t *testing.T) {
	a := IteratedSHA256("device-42", 1000)
	b := IteratedSHA256("device-42", 1000)
	if a != b {
		t.Error("same input should produce same hash")
	}

	c := IteratedSHA256("device-43", 1000)
	if a == c {
		t.Error("different inputs should produce different hashes")
	}
}

func TestIteratedSHA256_IterationsMatter(t *testing.T) {
	one := IteratedSHA256("device-42", 1)
	thousand := IteratedSHA256("device-42", 1000)
	if one == thousand {
		t.Error("different iteration counts should produce different hashes")
	}

	// One iteration equals a plain hash.
	if one != SHA256Hex("device-42") {
		t.Error("single iteration should match SHA256Hex")
	}
}

func TestGuestVoterID(t *testing.T) {
	id := GuestVoterID("android-device-abc")
	if !strings.HasPrefix(id, "guest_") {
		t.Errorf("guest id %q should have guest_ prefix", id)
	}
	if len(id) != len("guest_")+12 {
		t.Errorf("guest id %q should carry a 12-char hash suffix", id)
	}

	if GuestVoterID("android-device-abc") != id {
		t.Error("same device should map to the same voter id")
	}
	if GuestVoterID("android-device-abd") == id {
		t.Error("different devices should map to different voter ids")
	}
}

func TestHashIPForKey(t *testing.T) {
	h := HashIPForKey("203.0.113.9")
	if len(h) != 12 {
		t.Errorf("expected 12-char hash, got %d chars", len(h))
	}
	if h == "203.0.113.9" || strings.Contains(h, ".") {
		t.Error("hash should not contain the raw IP")
	}
}
