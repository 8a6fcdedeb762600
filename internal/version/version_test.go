package version

import "testing"

func TestString(t *testing.T) {
	orig := [3]string{Version, Commit, Date}
	t.Cleanup(func() { Version, Commit, Date = orig[0], orig[1], orig[2] })

	Version, Commit, Date = "1.2.0", "abc123", "2026-10-01"
	if got, want := String(), "1.2.0 (abc123, 2026-10-01)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
