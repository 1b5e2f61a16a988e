package base

// LineHit 单条中奖线
type LineHit struct {
	Line       int
	Symbol     SymbolID
	Count      int
	Multiplier int64
	// Cells 中奖格子 [列, 可见行]
	Cells [][2]int
}

// Evaluation 盘面结算结果
type Evaluation struct {
	Hits         []LineHit
	Multiplier   int64
	Scatters     int
	ScatterCells [][2]int
}

// Evaluate 从左到右计算连线，百搭可替代除分散外的任意符号。
// window[col][row] 仅包含可见行。
func Evaluate(g IGame, window [][]SymbolID) Evaluation {
	var ev Evaluation
	bands := g.Bands()
	table := g.PayTable()

	for col, rows := range window {
		for row, id := range rows {
			if bands.IsScatter(id) {
				ev.Scatters++
				ev.ScatterCells = append(ev.ScatterCells, [2]int{col, row})
			}
		}
	}

	for li, line := range g.Paylines() {
		if len(line) != len(window) || len(window) == 0 {
			continue
		}
		target := SymbolID(-1)
		count := 0
		for col, row := range line {
			if row >= len(window[col]) {
				break
			}
			id := window[col][row]
			if bands.IsScatter(id) {
				break
			}
			if bands.IsWild(id) {
				count++
				continue
			}
			if target < 0 {
				target = id
				count++
				continue
			}
			if id != target {
				break
			}
			count++
		}
		if target < 0 {
			target = window[0][line[0]]
		}
		pays, ok := table[target]
		if !ok || count == 0 || count > len(pays) {
			continue
		}
		mul := pays[count-1]
		if mul <= 0 {
			continue
		}
		hit := LineHit{Line: li, Symbol: target, Count: count, Multiplier: mul}
		for col := 0; col < count; col++ {
			hit.Cells = append(hit.Cells, [2]int{col, line[col]})
		}
		ev.Hits = append(ev.Hits, hit)
		ev.Multiplier += mul
	}
	return ev
}
