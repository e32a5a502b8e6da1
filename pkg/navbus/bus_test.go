package navbus

import "testing"

func TestPublishOrderAndUnsubscribe(t *testing.T) {
	b := New[string]()
	var got []string

	unsubA := b.Subscribe(func(v string) { got = append(got, "a:"+v) })
	b.Subscribe(func(v string) { got = append(got, "b:"+v) })

	if n := b.Publish("x"); n != 2 {
		t.Errorf("Publish() = %d, want 2", n)
	}
	unsubA()
	unsubA()
	b.Publish("y")

	want := []string{"a:x", "b:x", "b:y"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
	if b.Len() != 1 {
		t.Errorf("Len() = %d, want 1", b.Len())
	}
}

func TestSubscribeDuringPublish(t *testing.T) {
	b := New[int]()
	late := 0
	b.Subscribe(func(int) {
		b.Subscribe(func(int) { late++ })
	})
	b.Publish(1)
	if late != 0 {
		t.Error("subscriber added during delivery must not get the current value")
	}
	b.Publish(2)
	if late != 1 {
		t.Errorf("late = %d, want 1", late)
	}
}
