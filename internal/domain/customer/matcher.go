package customer

import (
	"strings"
	"sync"
)

// MinQueryLen is the threshold below which no search runs, to avoid noisy
// matches on the first keystrokes.
const MinQueryLen = 2

// Search returns every customer whose "nombre apellido" contains the query
// as a case-insensitive substring. Matching is deliberately substring-based
// rather than token-based, so "an" hits both "Ana" and "Fernandez". Result
// order follows the directory snapshot; there is no ranking.
func Search(directory []Customer, query string) []Customer {
	if len(query) < MinQueryLen {
		return nil
	}
	q := strings.ToLower(query)
	var out []Customer
	for _, c := range directory {
		if strings.Contains(strings.ToLower(c.DisplayName()), q) {
			out = append(out, c)
		}
	}
	return out
}

// Picker resolves free-text input against the directory snapshot and holds
// the current selection. The snapshot may be replaced by the change feed
// while the user types.
type Picker struct {
	mu        sync.Mutex
	directory []Customer
	query     string
	input     string
	selected  *Customer
}

func NewPicker(directory []Customer) *Picker {
	return &Picker{directory: directory}
}

func (p *Picker) SetDirectory(directory []Customer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.directory = directory
}

func (p *Picker) SetQuery(q string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.query = q
	p.input = q
}

func (p *Picker) Results() []Customer {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Search(p.directory, p.query)
}

// NoMatches reports whether a long-enough query found nothing, which is the
// cue to offer creating a new customer.
func (p *Picker) NoMatches() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.query) >= MinQueryLen && len(Search(p.directory, p.query)) == 0
}

// Select binds the customer; the visible input becomes the customer name.
func (p *Picker) Select(c Customer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	sel := c
	p.selected = &sel
	p.input = c.Name
	p.query = ""
}

// Clear unbinds the selection and resets the visible input.
func (p *Picker) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.selected = nil
	p.input = ""
	p.query = ""
}

func (p *Picker) Selected() (Customer, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.selected == nil {
		return Customer{}, false
	}
	return *p.selected, true
}

func (p *Picker) Input() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.input
}
