package filter

// ParseStipend extracts the first run of digits from free-text stipend strings
// like "₹20,000/month" or "15000-20000". Commas between digits are thousand
// separators. Returns false when no digits are present.
func ParseStipend(text string) (int, bool) {
	const maxStipend = 1 << 30

	val := 0
	seen := false
	runes := []rune(text)
	for i, r := range runes {
		if r >= '0' && r <= '9' {
			seen = true
			if val < maxStipend {
				val = val*10 + int(r-'0')
			}
			continue
		}
		if seen && r == ',' && i+1 < len(runes) && runes[i+1] >= '0' && runes[i+1] <= '9' {
			continue
		}
		if seen {
			break
		}
	}
	if !seen {
		return 0, false
	}
	if val > maxStipend {
		val = maxStipend
	}
	return val, true
}
