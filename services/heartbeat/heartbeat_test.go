package heartbeat

import (
	"context"
	"testing"
	"time"

	"datalogger-go/bus"
	"datalogger-go/types"
)

func TestHeartbeat_PublishesBeacon(t *testing.T) {
	b := bus.NewBus(8)
	conn := b.NewConnection("test-heartbeat")
	sub := conn.Subscribe(bus.T("sys", "heartbeat"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc := &Service{Samples: func() uint32 { return 42 }}
	if err := svc.Start(ctx, conn); err != nil {
		t.Fatalf("Start: %v", err)
	}

	select {
	case m := <-sub.Channel():
		hb, ok := m.Payload.(types.Heartbeat)
		if !ok {
			t.Fatalf("payload type %T", m.Payload)
		}
		if hb.Samples != 42 {
			t.Fatalf("Samples = %d, want 42", hb.Samples)
		}
		if !m.Retained {
			t.Fatal("beacon should be retained")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no beacon within 2s")
	}
}
