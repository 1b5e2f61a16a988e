package clock

import "time"

// DefaultFrame 60 帧
const DefaultFrame = time.Second / 60

// Fake 测试用确定性时钟，只在 Step/Advance 时推进
type Fake struct {
	core
	frame time.Duration
}

var _ Scheduler = (*Fake)(nil)

func NewFake() *Fake {
	return &Fake{frame: DefaultFrame}
}

// Step 推进一帧 dt
func (f *Fake) Step(dt time.Duration) {
	f.step(dt)
}

// Advance 以帧为步长推进 total，不足一帧的尾部单独推进
func (f *Fake) Advance(total time.Duration) {
	for total >= f.frame {
		f.step(f.frame)
		total -= f.frame
	}
	if total > 0 {
		f.step(total)
	}
}

// Frame 帧时长
func (f *Fake) Frame() time.Duration {
	return f.frame
}

// Pending 未触发定时器数量
func (f *Fake) Pending() int {
	return f.pending()
}
