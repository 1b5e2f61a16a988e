package g18890

import (
	"reelflow/internal/biz/game/base"
)

const ID int64 = 18890
const Name = "战火西岐"

var _ base.IGame = (*Game)(nil)

type Game struct {
	*base.Default
}

func New() base.IGame {
	return &Game{Default: base.NewBaseGame(ID, Name, config)}
}
