// Package heartbeat publishes a once-a-second liveness beacon carrying the
// uptime and the running capture sample count.
package heartbeat

import (
	"context"
	"time"

	"datalogger-go/bus"
	"datalogger-go/types"
)

var (
	topicHeartbeat       = bus.T("sys", "heartbeat")
	topicConfigHeartbeat = bus.T("config", "heartbeat")
)

// Service ticks and publishes. Samples is polled on every beat; leave it
// nil when no capture engine is wired.
type Service struct {
	Samples func() uint32
}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection) {
	cfgSub := conn.Subscribe(topicConfigHeartbeat)
	defer conn.Unsubscribe(cfgSub)

	start := time.Now()
	tick := time.NewTicker(1 * time.Second)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case t := <-tick.C:
			hb := types.Heartbeat{UptimeS: uint32(t.Sub(start) / time.Second)}
			if s.Samples != nil {
				hb.Samples = s.Samples()
			}
			conn.Publish(conn.NewMessage(topicHeartbeat, hb, true))
		case msg := <-cfgSub.Channel():
			if m, ok := msg.Payload.(map[string]any); ok {
				if iv, ok := m["interval"].(float64); ok && iv > 0 {
					tick.Reset(time.Duration(iv) * time.Second)
				}
			}
		}
	}
}

// Start launches the beacon in a goroutine.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	go s.serviceLoop(ctx, conn)
	return nil
}
