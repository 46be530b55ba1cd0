package services

import (
	"testing"
	"time"
)

func TestSubscribeRoom_FanOut(t *testing.T) {
	ch1, unsub1 := SubscribeRoom("room-a")
	defer unsub1()
	ch2, unsub2 := SubscribeRoom("room-a")
	defer unsub2()
	chOther, unsubOther := SubscribeRoom("room-b")
	defer unsubOther()

	evt := ChatEvent{Type: EventTypeMessage, RoomID: "room-a", Text: "hi"}
	fanOutChatEvent(evt)

	for _, ch := range []<-chan ChatEvent{ch1, ch2} {
		select {
		case got := <-ch:
			if got.Text != "hi" {
				t.Errorf("event text = %q", got.Text)
			}
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive event")
		}
	}

	select {
	case got := <-chOther:
		t.Errorf("room-b subscriber received room-a event: %+v", got)
	default:
	}
}

func TestSubscribeRoom_UnsubscribeClosesChannel(t *testing.T) {
	ch, unsub := SubscribeRoom("room-c")
	unsub()
	// Double unsubscribe must be safe.
	unsub()

	if _, open := <-ch; open {
		t.Error("channel still open after unsubscribe")
	}

	// Fan-out to a room with no subscribers must not panic.
	fanOutChatEvent(ChatEvent{Type: EventTypeMessage, RoomID: "room-c"})
}

func TestFanOut_DropsWhenSubscriberFull(t *testing.T) {
	ch, unsub := SubscribeRoom("room-d")
	defer unsub()

	// Fill the buffer and overflow it; fanOut must not block.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			fanOutChatEvent(ChatEvent{Type: EventTypeMessage, RoomID: "room-d", Text: "x"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("fan-out blocked on a full subscriber")
	}
	if len(ch) == 0 {
		t.Error("no events buffered")
	}
}
