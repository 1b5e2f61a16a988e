package base

// Strip 单列完整符号序列，下标一律对长度取模
type Strip []SymbolID

func (s Strip) Len() int {
	return len(s)
}

// Index 把任意整数下标折回 [0, len)，空 strip 返回 0
func (s Strip) Index(i int) int {
	n := len(s)
	if n == 0 {
		return 0
	}
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

func (s Strip) At(i int) SymbolID {
	if len(s) == 0 {
		return 0
	}
	return s[s.Index(i)]
}

// Window 从 start 起连续取 n 个符号（环绕）
func (s Strip) Window(start, n int) []SymbolID {
	out := make([]SymbolID, n)
	for k := 0; k < n; k++ {
		out[k] = s.At(start + k)
	}
	return out
}
