package base

import (
	"fmt"
	"math/rand/v2"
)

// SymbolID 滚轴符号编号
type SymbolID int32

// Scene 场景：普通/免费
type Scene int32

const (
	SceneBase    Scene = 0
	SceneFeature Scene = 1
)

func (s Scene) String() string {
	if s == SceneFeature {
		return "feature"
	}
	return "base"
}

// SymbolClass 符号分类
type SymbolClass int32

const (
	ClassUnknown SymbolClass = iota
	ClassWild
	ClassScatter
	ClassHigh
	ClassLow
)

func (c SymbolClass) String() string {
	switch c {
	case ClassWild:
		return "wild"
	case ClassScatter:
		return "scatter"
	case ClassHigh:
		return "high"
	case ClassLow:
		return "low"
	default:
		return "unknown"
	}
}

// Band 闭区间 [From, To]
type Band struct {
	From SymbolID
	To   SymbolID
}

func (b Band) Contains(id SymbolID) bool {
	return id >= b.From && id <= b.To
}

// Bands 百搭、分散、高分、低分四段编号，必须首尾相接
type Bands struct {
	Wild    Band
	Scatter Band
	High    Band
	Low     Band
}

// Validate 校验四段连续且不重叠
func (b Bands) Validate() error {
	seq := []struct {
		name string
		band Band
	}{
		{"wild", b.Wild},
		{"scatter", b.Scatter},
		{"high", b.High},
		{"low", b.Low},
	}
	for i, s := range seq {
		if s.band.From > s.band.To {
			return fmt.Errorf("band %s: from %d > to %d", s.name, s.band.From, s.band.To)
		}
		if i > 0 && seq[i-1].band.To+1 != s.band.From {
			return fmt.Errorf("band %s: starts at %d, expected %d", s.name, s.band.From, seq[i-1].band.To+1)
		}
	}
	return nil
}

func (b Bands) Classify(id SymbolID) SymbolClass {
	switch {
	case b.Wild.Contains(id):
		return ClassWild
	case b.Scatter.Contains(id):
		return ClassScatter
	case b.High.Contains(id):
		return ClassHigh
	case b.Low.Contains(id):
		return ClassLow
	default:
		return ClassUnknown
	}
}

func (b Bands) IsWild(id SymbolID) bool { return b.Wild.Contains(id) }
func (b Bands) IsScatter(id SymbolID) bool { return b.Scatter.Contains(id) }

// PayWeight 加权赔付项
type PayWeight struct {
	Pay    int64
	Weight int
}

// PickPay 按权重抽取一项分值，权重全为 0 时返回 0
func PickPay(rnd *rand.Rand, table []PayWeight) int64 {
	total := 0
	for _, w := range table {
		if w.Weight > 0 {
			total += w.Weight
		}
	}
	if total == 0 {
		return 0
	}
	n := rnd.IntN(total)
	for _, w := range table {
		if w.Weight <= 0 {
			continue
		}
		if n < w.Weight {
			return w.Pay
		}
		n -= w.Weight
	}
	return 0
}
