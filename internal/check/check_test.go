package check

import "testing"

// withCapturedExit swaps the exit hook and reports the code it was
// called with, or -1 when it never fired.
func withCapturedExit(f func()) int {
	code := -1
	orig := exit
	exit = func(c int) { code = c }
	defer func() { exit = orig }()
	f()
	return code
}

func TestFatalf(t *testing.T) {
	if code := withCapturedExit(func() { Fatalf("boom %d", 42) }); code != 1 {
		t.Errorf("Fatalf exit code = %d, want 1", code)
	}
}

func TestAssert(t *testing.T) {
	if code := withCapturedExit(func() { Assert(true, "fine") }); code != -1 {
		t.Errorf("Assert(true) exited with %d", code)
	}
	if code := withCapturedExit(func() { Assert(false, "broken") }); code != 1 {
		t.Errorf("Assert(false) exit code = %d, want 1", code)
	}
}
