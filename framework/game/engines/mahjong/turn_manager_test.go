package mahjong

import (
	"context"
	"testing"
	"time"

	"gomahjong/framework/game/share"
)

func TestDecisionTicker_Timeout(t *testing.T) {
	ticker := NewDecisionTicker(share.SeatSouth)
	timedOut := make(chan struct{})
	ticker.SetOnTimeout(func() { close(timedOut) })

	ctx, err := ticker.Start(context.Background(), 30*time.Millisecond)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	<-ctx.Done()
	select {
	case <-timedOut:
	case <-time.After(time.Second):
		t.Fatalf("onTimeout not called")
	}
	ticker.Stop()
	if !ticker.TimedOut() {
		t.Fatalf("expected timeout state, got %s", ticker.GetState())
	}
}

func TestDecisionTicker_StopBeforeLimit(t *testing.T) {
	ticker := NewDecisionTicker(share.SeatEast)
	if _, err := ticker.Start(context.Background(), time.Minute); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := ticker.Start(context.Background(), time.Minute); err == nil {
		t.Fatalf("starting a running ticker should fail")
	}
	ticker.Stop()
	if ticker.TimedOut() || ticker.GetState() != StateStopped {
		t.Fatalf("expected stopped state, got %s", ticker.GetState())
	}
	if _, err := ticker.Start(context.Background(), 0); err != nil {
		t.Fatalf("restart after stop: %v", err)
	}
	ticker.Stop()
}

func TestSimpleTimeLimit(t *testing.T) {
	if _, ok := SimpleTimeLimit(0).Limit(nil, share.SeatEast); ok {
		t.Fatalf("zero limit should mean unlimited")
	}
	if d, ok := SimpleTimeLimit(5 * time.Second).Limit(nil, share.SeatEast); !ok || d != 5*time.Second {
		t.Fatalf("expected 5s limit, got %v %v", d, ok)
	}
	if _, ok := (NoLimit{}).Limit(nil, share.SeatEast); ok {
		t.Fatalf("NoLimit should be unlimited")
	}
}
