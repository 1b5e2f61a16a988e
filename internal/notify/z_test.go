package notify

import (
	"context"
	"strings"
	"testing"
	"time"

	"reelflow/internal/conf"
)

type countNotifier struct {
	sent []string
}

func (c *countNotifier) Send(_ context.Context, msg *Message) error {
	c.sent = append(c.sent, msg.Title)
	return nil
}

func TestThrottleSameTitle(t *testing.T) {
	next := &countNotifier{}
	th := Throttle(next, time.Minute)
	now := time.Unix(1000, 0)
	th.now = func() time.Time { return now }

	ctx := context.Background()
	_ = th.Send(ctx, &Message{Title: "a"})
	_ = th.Send(ctx, &Message{Title: "a"})
	_ = th.Send(ctx, &Message{Title: "b"})
	if len(next.sent) != 2 {
		t.Fatalf("sent=%v", next.sent)
	}

	now = now.Add(time.Minute)
	_ = th.Send(ctx, &Message{Title: "a"})
	if len(next.sent) != 3 || next.sent[2] != "a" {
		t.Fatalf("sent=%v", next.sent)
	}
	if err := th.Send(ctx, nil); err != nil || len(next.sent) != 3 {
		t.Fatalf("nil message err=%v sent=%v", err, next.sent)
	}
}

func TestBuildAlarmMessage(t *testing.T) {
	msg := BuildAlarmMessage(&AlarmReport{
		TableID:  "t-1",
		GameID:   18890,
		RoundID:  "r-9",
		State:    "spinning",
		Reason:   "SPIN_TIMEOUT",
		Detail:   "spin result did not arrive in time",
		Bet:      "1",
		Watchdog: 30 * time.Second,
	})
	if msg.Level != LevelAlarm || msg.Title != "牌局告警 SPIN_TIMEOUT" {
		t.Fatalf("level=%d title=%q", msg.Level, msg.Title)
	}
	for _, want := range []string{"t-1", "18890", "r-9", "spinning", "30s"} {
		if !strings.Contains(msg.Content, want) {
			t.Fatalf("content missing %q:\n%s", want, msg.Content)
		}
	}
	if BuildAlarmMessage(nil).Title != "牌局告警" {
		t.Fatalf("nil report title")
	}
}

func TestNewFeishuDisabled(t *testing.T) {
	if _, ok := NewFeishu(nil).(Noop); !ok {
		t.Fatalf("nil config must be noop")
	}
	if _, ok := NewFeishu(&conf.Notify{Enabled: true}).(Noop); !ok {
		t.Fatalf("empty webhook must be noop")
	}
	if _, ok := NewFeishu(&conf.Notify{Enabled: true, WebhookUrl: "http://127.0.0.1/hook"}).(*Throttled); !ok {
		t.Fatalf("configured webhook must be throttled feishu")
	}
}
