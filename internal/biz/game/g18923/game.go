package g18923

import (
	"reelflow/internal/biz/game/base"
)

const ID int64 = 18923
const Name = "巨龙传说"

var _ base.IGame = (*Game)(nil)

type Game struct {
	*base.Default
}

func New() base.IGame {
	return &Game{Default: base.NewBaseGame(ID, Name, config)}
}
