// Package tui provides a Bubble Tea terminal UI for Predator's Odyssey.
package tui

// History keeps the commands a player has typed this run, so up/down can
// recall earlier picks ("explore", a skill number) without retyping.
// Navigation walks a cursor backwards from the newest entry; submitting a
// line resets it.
type History struct {
	entries []string
	max     int
	cursor  int // -1 = not navigating
}

// NewHistory creates a history holding at most max entries; the oldest
// entry is dropped when the cap is reached.
func NewHistory(max int) *History {
	return &History{
		entries: make([]string, 0, max),
		max:     max,
		cursor:  -1,
	}
}

// Push records a submitted command. Repeating the previous command is not
// recorded again, so mashing "1" through a fight leaves one entry.
func (h *History) Push(cmd string) {
	if len(h.entries) > 0 && h.entries[len(h.entries)-1] == cmd {
		return
	}
	h.entries = append(h.entries, cmd)
	if len(h.entries) > h.max {
		h.entries = h.entries[1:]
	}
}

// Prev steps the cursor to the next-older entry, staying on the oldest
// once reached. ok is false only when there is no history at all.
func (h *History) Prev() (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	if h.cursor == -1 {
		h.cursor = len(h.entries) - 1
	} else if h.cursor > 0 {
		h.cursor--
	}
	return h.entries[h.cursor], true
}

// Next steps the cursor back toward the newest entry. Stepping past it
// returns ok=false and leaves navigation, handing the input line back to
// the player.
func (h *History) Next() (string, bool) {
	if h.cursor == -1 {
		return "", false
	}
	h.cursor++
	if h.cursor >= len(h.entries) {
		h.cursor = -1
		return "", false
	}
	return h.entries[h.cursor], true
}

// ResetCursor leaves navigation; the next Prev starts from the newest
// entry again.
func (h *History) ResetCursor() {
	h.cursor = -1
}
