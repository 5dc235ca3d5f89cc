package service

import "testing"

func TestStoreNotifiesSubscribersInOrder(t *testing.T) {
	store := NewStore(0)
	var calls []string
	unsubscribeA := store.Subscribe(func(v int) { calls = append(calls, "a") })
	store.Subscribe(func(v int) {
		if v != store.Get() {
			t.Errorf("snapshot %d differs from current %d", v, store.Get())
		}
		calls = append(calls, "b")
	})

	if got := store.Update(func(v *int) { *v = 3 }); got != 3 {
		t.Fatalf("unexpected snapshot: %d", got)
	}
	unsubscribeA()
	unsubscribeA()
	store.Update(func(v *int) { *v++ })

	want := []string{"a", "b", "b"}
	if len(calls) != len(want) {
		t.Fatalf("unexpected calls: %v", calls)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Fatalf("unexpected calls: %v", calls)
		}
	}
	if store.Get() != 4 {
		t.Fatalf("unexpected final state: %d", store.Get())
	}
}
