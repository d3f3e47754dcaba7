package domain

import "testing"

func TestTaskByIndex(t *testing.T) {
	if got := TaskByIndex(0); got != TaskTypes[0] {
		t.Fatalf("got %q", got)
	}
	if got := TaskByIndex(len(TaskTypes) - 1); got != TaskOther {
		t.Fatalf("last item = %q, want the catch-all", got)
	}
	for _, i := range []int{-1, len(TaskTypes), 999} {
		if got := TaskByIndex(i); got != "" {
			t.Fatalf("TaskByIndex(%d) = %q, want empty", i, got)
		}
	}
}

func TestTaskLabel(t *testing.T) {
	if got := (TaskCategory{Type: "📚 Research"}).Label(); got != "📚 Research" {
		t.Fatalf("got %q", got)
	}
	if got := (TaskCategory{Type: TaskOther, Description: "client call"}).Label(); got != "✍️ Other (client call)" {
		t.Fatalf("got %q", got)
	}

	desc := "filing"
	if got := TaskLabel(TaskOther, &desc); got != "✍️ Other (filing)" {
		t.Fatalf("got %q", got)
	}
	empty := ""
	if got := TaskLabel("📚 Research", &empty); got != "📚 Research" {
		t.Fatalf("empty description must render bare, got %q", got)
	}
	if got := TaskLabel("📚 Research", nil); got != "📚 Research" {
		t.Fatalf("got %q", got)
	}
}

func TestIsOther(t *testing.T) {
	if !(TaskCategory{Type: TaskOther}).IsOther() {
		t.Fatal("catch-all not detected")
	}
	if (TaskCategory{Type: "📚 Research"}).IsOther() {
		t.Fatal("fixed task misdetected as catch-all")
	}
}
