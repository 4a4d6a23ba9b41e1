package repository

import "testing"

func TestUpdateBuilderPlaceholders(t *testing.T) {
	b := newUpdateBuilder(7, 42)
	b.add("amount", 99.5)
	b.add("merchant", "Coffee Shop")

	if got := b.clause(); got != "amount = $3, merchant = $4" {
		t.Errorf("clause = %q", got)
	}
	want := []any{int64(7), int64(42), 99.5, "Coffee Shop"}
	if len(b.args) != len(want) {
		t.Fatalf("args = %v, want %v", b.args, want)
	}
	for i := range want {
		if b.args[i] != want[i] {
			t.Errorf("args[%d] = %v, want %v", i, b.args[i], want[i])
		}
	}
}

func TestUpdateBuilderEmpty(t *testing.T) {
	b := newUpdateBuilder(1, 1)
	if !b.empty() {
		t.Error("fresh builder should be empty")
	}
	b.add("paid", true)
	if b.empty() {
		t.Error("builder with a field should not be empty")
	}
}
