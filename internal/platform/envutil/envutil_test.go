package envutil

import "testing"

func TestInt(t *testing.T) {
	t.Setenv("MAILGRAPH_TEST_INT", " 42 ")
	if got := Int("MAILGRAPH_TEST_INT", 7); got != 42 {
		t.Fatalf("Int: want=%d got=%d", 42, got)
	}
	t.Setenv("MAILGRAPH_TEST_INT", "nope")
	if got := Int("MAILGRAPH_TEST_INT", 7); got != 7 {
		t.Fatalf("Int fallback: want=%d got=%d", 7, got)
	}
}

func TestString(t *testing.T) {
	t.Setenv("MAILGRAPH_TEST_STR", "")
	if got := String("MAILGRAPH_TEST_STR", "def"); got != "def" {
		t.Fatalf("String: want=%q got=%q", "def", got)
	}
	t.Setenv("MAILGRAPH_TEST_STR", " bolt://db:7687 ")
	if got := String("MAILGRAPH_TEST_STR", "def"); got != "bolt://db:7687" {
		t.Fatalf("String: want=%q got=%q", "bolt://db:7687", got)
	}
}

func TestBool(t *testing.T) {
	cases := map[string]bool{"1": true, "TRUE": true, "on": true, "0": false, "no": false, "maybe": true}
	for raw, want := range cases {
		t.Setenv("MAILGRAPH_TEST_BOOL", raw)
		if got := Bool("MAILGRAPH_TEST_BOOL", true); got != want {
			t.Fatalf("Bool(%q): want=%v got=%v", raw, want, got)
		}
	}
}
