package diag

import "pyrefs/internal/source"

// Bag keeps diagnostics in report order. Past the limit they are counted
// but not stored.
type Bag struct {
	items   []Diagnostic
	limit   int
	dropped int
}

// NewBag returns a bag holding at most limit diagnostics, 0 for no limit.
func NewBag(limit int) *Bag {
	return &Bag{limit: limit}
}

// Report implements Reporter.
func (b *Bag) Report(code Code, pos source.Pos, msg string) {
	b.Add(Diagnostic{Code: code, Pos: pos, Message: msg})
}

// Add stores d and reports whether it fit under the limit.
func (b *Bag) Add(d Diagnostic) bool {
	if b == nil {
		return false
	}
	if b.limit > 0 && len(b.items) >= b.limit {
		b.dropped++
		return false
	}
	b.items = append(b.items, d)
	return true
}

// HasErrors counts dropped diagnostics too.
func (b *Bag) HasErrors() bool {
	return b != nil && len(b.items)+b.dropped > 0
}

// First returns the first diagnostic reported.
func (b *Bag) First() (Diagnostic, bool) {
	if b == nil || len(b.items) == 0 {
		return Diagnostic{}, false
	}
	return b.items[0], true
}

func (b *Bag) Len() int {
	if b == nil {
		return 0
	}
	return len(b.items)
}

// Dropped is how many diagnostics went over the limit.
func (b *Bag) Dropped() int {
	if b == nil {
		return 0
	}
	return b.dropped
}

// Items возвращает сохранённые диагностики; срез не копируется.
func (b *Bag) Items() []Diagnostic {
	if b == nil {
		return nil
	}
	return b.items
}
