package event

import (
	"sync"

	"reelflow/internal/biz/round"

	"github.com/shopspring/decimal"
)

// Kind 事件类型
type Kind int32

const (
	StateChanged Kind = iota + 1
	SpinRequested
	ResultReceived
	ColumnStopped
	SlowMotion
	AllStopped
	WinLineShown
	WinAllShown
	Sound
	BigWinTier
	BigWinSettled
	RoundEnded
	Fatal
	Warning
)

var kindNames = map[Kind]string{
	StateChanged:   "state_changed",
	SpinRequested:  "spin_requested",
	ResultReceived: "result_received",
	ColumnStopped:  "column_stopped",
	SlowMotion:     "slow_motion",
	AllStopped:     "all_stopped",
	WinLineShown:   "win_line_shown",
	WinAllShown:    "win_all_shown",
	Sound:          "sound",
	BigWinTier:     "big_win_tier",
	BigWinSettled:  "big_win_settled",
	RoundEnded:     "round_ended",
	Fatal:          "fatal",
	Warning:        "warning",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "unknown"
}

// 音效名
const (
	SoundPayout  = "payout"
	SoundTrigger = "trigger"
	SoundStop    = "reel_stop"
)

// Event 发给渲染/音频层的通知
type Event struct {
	Kind     Kind
	State    round.State
	Previous round.State
	Column   int
	Line     *round.WinLine
	Lines    []round.WinLine
	Credit   decimal.Decimal
	Tier     round.BigWinTier
	Sound    string
	RoundID  string
	Err      error
}

// Handler 事件回调，在帧线程同步执行
type Handler func(Event)

type subscriber struct {
	id uint64
	fn Handler
}

// Bus 按事件类型分发的订阅表
type Bus struct {
	mu   sync.RWMutex
	seq  uint64
	subs map[Kind][]subscriber
	all  []subscriber
}

func NewBus() *Bus {
	return &Bus{subs: make(map[Kind][]subscriber)}
}

// Subscribe 订阅某类事件，返回取消函数
func (b *Bus) Subscribe(kind Kind, fn Handler) func() {
	b.mu.Lock()
	b.seq++
	id := b.seq
	b.subs[kind] = append(b.subs[kind], subscriber{id: id, fn: fn})
	b.mu.Unlock()
	return func() { b.remove(kind, id, false) }
}

// SubscribeAll 订阅全部事件
func (b *Bus) SubscribeAll(fn Handler) func() {
	b.mu.Lock()
	b.seq++
	id := b.seq
	b.all = append(b.all, subscriber{id: id, fn: fn})
	b.mu.Unlock()
	return func() { b.remove(0, id, true) }
}

func (b *Bus) remove(kind Kind, id uint64, all bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	list := b.subs[kind]
	if all {
		list = b.all
	}
	for i, s := range list {
		if s.id == id {
			list = append(list[:i:i], list[i+1:]...)
			break
		}
	}
	if all {
		b.all = list
	} else {
		b.subs[kind] = list
	}
}

// Publish 同步分发：先按类型，再全量订阅者
func (b *Bus) Publish(e Event) {
	if b == nil {
		return
	}
	b.mu.RLock()
	typed := b.subs[e.Kind]
	all := b.all
	b.mu.RUnlock()
	for _, s := range typed {
		s.fn(e)
	}
	for _, s := range all {
		s.fn(e)
	}
}
