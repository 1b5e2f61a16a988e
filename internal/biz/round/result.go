package round

import (
	"github.com/shopspring/decimal"
)

// Position 盘面格子，Row 为可见行（0 起）
type Position struct {
	Column int `json:"column"`
	Row    int `json:"row"`
}

// WinLine 一条中奖线
type WinLine struct {
	Positions     []Position      `json:"positions"`
	Symbol        int32           `json:"symbol"`
	Credit        decimal.Decimal `json:"credit"`
	IsFiveLine    bool            `json:"isFiveLine"`
	ChangesLayout bool            `json:"changesLayout"`
}

// WinGroup 中奖线列表 + 播放游标
type WinGroup struct {
	Lines  []WinLine
	cursor int
}

func NewWinGroup(lines []WinLine) *WinGroup {
	return &WinGroup{Lines: lines}
}

// Reset 每段新序列开始前必须归零游标
func (g *WinGroup) Reset() {
	g.cursor = 0
}

// Next 取下一条，耗尽返回 false
func (g *WinGroup) Next() (WinLine, bool) {
	if g == nil || g.cursor >= len(g.Lines) {
		return WinLine{}, false
	}
	l := g.Lines[g.cursor]
	g.cursor++
	return l, true
}

func (g *WinGroup) Cursor() int {
	if g == nil {
		return 0
	}
	return g.cursor
}

func (g *WinGroup) Len() int {
	if g == nil {
		return 0
	}
	return len(g.Lines)
}

// Total 所有线的赢分和
func (g *WinGroup) Total() decimal.Decimal {
	sum := decimal.Zero
	if g == nil {
		return sum
	}
	for _, l := range g.Lines {
		sum = sum.Add(l.Credit)
	}
	return sum
}

// Result 一次转动的服务端结果
type Result struct {
	RoundID string `json:"roundId"`
	// RngPerColumn 每列一个停轮位置
	RngPerColumn []int `json:"rngPerColumn"`
	// PayByPosition [列][可见行] 符号展示分值，缺失的格子视为未定义
	PayByPosition [][]int64 `json:"payByPosition"`
	// SlowColumns 需要慢动作停轮的列
	SlowColumns  []bool          `json:"slowColumns"`
	Lines        []WinLine       `json:"lines"`
	WinType      WinType         `json:"winType"`
	FeatureSpins int             `json:"featureSpins"`
	TotalCredit  decimal.Decimal `json:"totalCredit"`
	Jackpot      decimal.Decimal `json:"jackpot"`
	RedPacket    decimal.Decimal `json:"redPacket"`
	UserCoin     decimal.Decimal `json:"userCoin"`
}

// PayAt 已知结果的格子分值，越界表示未定义
func (r *Result) PayAt(col, row int) (int64, bool) {
	if r == nil || col < 0 || col >= len(r.PayByPosition) {
		return 0, false
	}
	rows := r.PayByPosition[col]
	if row < 0 || row >= len(rows) {
		return 0, false
	}
	return rows[row], true
}

// IsSlow 该列是否慢动作
func (r *Result) IsSlow(col int) bool {
	return r != nil && col >= 0 && col < len(r.SlowColumns) && r.SlowColumns[col]
}

// Payout 本次转动实际入账：线奖 + 彩金 + 红包 + 金币
func (r *Result) Payout() decimal.Decimal {
	if r == nil {
		return decimal.Zero
	}
	return r.TotalCredit.Add(r.Jackpot).Add(r.RedPacket).Add(r.UserCoin)
}

// WithoutCredit 复制一份清掉全部入账的结果，停轮位置与免费次数保留
func (r *Result) WithoutCredit() *Result {
	if r == nil {
		return nil
	}
	cp := *r
	cp.Lines = nil
	cp.TotalCredit = decimal.Zero
	cp.Jackpot = decimal.Zero
	cp.RedPacket = decimal.Zero
	cp.UserCoin = decimal.Zero
	return &cp
}

// BonusTriggered 本次结果触发（或再触发）免费游戏
func (r *Result) BonusTriggered() bool {
	return r != nil && r.WinType == WinBonus && r.FeatureSpins > 0
}
