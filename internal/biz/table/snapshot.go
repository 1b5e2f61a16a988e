package table

import (
	"time"

	"reelflow/internal/biz/flow"
	"reelflow/internal/biz/game/base"
	"reelflow/internal/biz/reel"
)

// ColumnState 单列运动状态
type ColumnState struct {
	Phase  string      `json:"phase"`
	Speed  float64     `json:"speed"`
	Offset float64     `json:"offset"`
	Slow   bool        `json:"slow"`
	Cursor int         `json:"cursor"`
	Cells  []reel.Cell `json:"cells"`
}

// Snapshot 一张桌子的只读视图
type Snapshot struct {
	TableID    string            `json:"tableId"`
	GameID     int64             `json:"gameId"`
	GameName   string            `json:"gameName"`
	State      string            `json:"state"`
	Previous   string            `json:"previous"`
	Disabled   bool              `json:"disabled"`
	Context    flow.View         `json:"context"`
	Window     [][]base.SymbolID `json:"window"`
	Columns    []ColumnState     `json:"columns"`
	Shown      int               `json:"shown"`
	Rounds     int64             `json:"rounds"`
	CreatedAt  time.Time         `json:"createdAt"`
	LastRounds []Record          `json:"lastRounds,omitempty"`
	Archived   bool              `json:"archived,omitempty"`
}

// Snapshot 须在帧线程调用；recent 为附带的最近牌局数
func (t *Table) Snapshot(recent int) Snapshot {
	m := t.machine
	s := Snapshot{
		TableID:   t.id,
		GameID:    t.game.GameID(),
		GameName:  t.game.Name(),
		State:     m.Current().String(),
		Previous:  m.Previous().String(),
		Disabled:  m.Disabled(),
		Context:   m.View(),
		Shown:     t.presenter.Shown(),
		Rounds:    t.recorder.Rounds(),
		CreatedAt: t.createdAt,
	}
	engine := t.set.Engine()
	s.Window = engine.Visible()
	s.Columns = make([]ColumnState, t.set.Len())
	for i := range s.Columns {
		sp := t.set.Spinner(i)
		col := engine.Column(i)
		s.Columns[i] = ColumnState{
			Phase:  sp.Phase().String(),
			Speed:  sp.Speed(),
			Offset: sp.Offset(),
			Slow:   sp.Slow(),
			Cursor: col.Cursor(),
			Cells:  col.Window(),
		}
	}
	if recent > 0 {
		j := t.recorder.Journal()
		if len(j) > recent {
			j = j[len(j)-recent:]
		}
		s.LastRounds = j
	}
	return s
}
