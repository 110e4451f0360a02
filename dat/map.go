package dat

const pageBits = 8

// Alphabet maps the symbols of a vocabulary to dense IDs in [1..Sigma];
// 0 means "not in the alphabet".
//
// Symbols of the Basic Multilingual Plane go through a two-level page table:
// the high byte selects a page of 256 slots, the low byte a slot. Only pages
// holding at least one symbol are allocated, so a vocabulary in one script
// touches a handful of pages. All other symbols, astral runes and the
// pseudo-symbols standing in for invalid UTF-8 bytes, live in a side map.
type Alphabet struct {
	pageOf [1 << pageBits]uint16 // 1-based page index per high byte; 0 = absent
	slots  []uint16              // allocated pages, back to back
	astral map[rune]uint16
}

// Dense returns the dense ID of r, or 0.
func (a *Alphabet) Dense(r rune) uint16 {
	if r < 0 || r > 0xFFFF {
		return a.astral[r]
	}
	page := a.pageOf[r>>pageBits]
	if page == 0 {
		return 0
	}
	return a.slots[slotIndex(page, r)]
}

// Set maps r to dense. A dense ID of 0 removes r and never allocates a page.
func (a *Alphabet) Set(r rune, dense uint16) {
	if r < 0 || r > 0xFFFF {
		if dense == 0 {
			delete(a.astral, r)
			return
		}
		if a.astral == nil {
			a.astral = make(map[rune]uint16)
		}
		a.astral[r] = dense
		return
	}
	page := a.pageOf[r>>pageBits]
	if page == 0 {
		if dense == 0 {
			return
		}
		a.slots = append(a.slots, make([]uint16, 1<<pageBits)...)
		page = uint16(len(a.slots) >> pageBits)
		a.pageOf[r>>pageBits] = page
	}
	a.slots[slotIndex(page, r)] = dense
}

// Pages returns the number of allocated BMP pages.
func (a *Alphabet) Pages() int { return len(a.slots) >> pageBits }

// AstralSymbols returns the number of symbols outside the BMP.
func (a *Alphabet) AstralSymbols() int { return len(a.astral) }

func slotIndex(page uint16, r rune) int {
	return int(page-1)<<pageBits | int(r&(1<<pageBits-1))
}
