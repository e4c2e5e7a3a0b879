// Package texts supplies reference passages for typing sessions.
package texts

import (
	"math/rand"
	"sync"
	"time"
)

var defaultPassages = []string{
	"The quick brown fox jumps over the lazy dog. This pangram contains every letter of the alphabet at least once, making it perfect for typing practice.",
	"Technology has revolutionized the way we communicate, work, and live. From smartphones to artificial intelligence, innovation continues to shape our future.",
	"Practice makes perfect when it comes to typing. The more you type, the faster and more accurate you become. Consistency is key to improvement.",
	"In the digital age, typing skills are essential for productivity. Whether you're writing emails, coding, or creating content, speed and accuracy matter.",
	"The art of touch typing involves using all ten fingers without looking at the keyboard. This skill can significantly increase your typing speed and efficiency.",
}

// Provider picks passages uniformly at random from a fixed pool.
type Provider struct {
	mu       sync.Mutex
	rnd      *rand.Rand
	passages []string
}

// New returns a Provider over passages, seeded with the current time.
// An empty pool falls back to the built-in passages.
func New(passages []string) *Provider {
	return NewWithSeed(passages, time.Now().UnixNano())
}

// NewWithSeed is New with a fixed seed.
func NewWithSeed(passages []string, seed int64) *Provider {
	if len(passages) == 0 {
		passages = defaultPassages
	}
	pool := make([]string, len(passages))
	copy(pool, passages)
	return &Provider{rnd: rand.New(rand.NewSource(seed)), passages: pool}
}

// Default returns the built-in passages.
func Default() []string {
	out := make([]string, len(defaultPassages))
	copy(out, defaultPassages)
	return out
}

// Select returns a random passage.
func (p *Provider) Select() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.passages[p.rnd.Intn(len(p.passages))]
}

// Passages returns a copy of the pool.
func (p *Provider) Passages() []string {
	out := make([]string, len(p.passages))
	copy(out, p.passages)
	return out
}
