package idx

import (
	"crypto/rand"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// ErrInvalid reports a malformed ULID string.
var ErrInvalid = errors.New("idx: invalid ulid")

// Generator hands out lexicographically sortable ULIDs. It is safe for
// concurrent use; IDs minted within the same millisecond stay ordered.
type Generator struct {
	mu      sync.Mutex
	now     func() time.Time
	entropy *ulid.MonotonicEntropy
}

// NewGenerator returns a generator that stamps IDs with now(). A nil now
// uses the wall clock.
func NewGenerator(now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{
		now:     now,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// New returns a new ID stamped with the generator's clock.
func (g *Generator) New() string {
	return g.NewAt(g.now())
}

// NewAt returns a new ID stamped with t.
func (g *Generator) NewAt(t time.Time) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	return ulid.MustNew(ulid.Timestamp(t.UTC()), g.entropy).String()
}

var (
	globalOnce sync.Once
	global     *Generator
)

// New returns a new ID from the process wide wall-clock generator.
func New() string {
	globalOnce.Do(func() { global = NewGenerator(nil) })
	return global.New()
}

// Parse validates s as a canonical ULID.
func Parse(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrInvalid
	}
	if _, err := ulid.ParseStrict(s); err != nil {
		return "", ErrInvalid
	}
	return s, nil
}

// Valid reports whether s is a canonical ULID.
func Valid(s string) bool {
	_, err := Parse(s)
	return err == nil
}

// Time extracts the embedded UTC timestamp, or the zero time for invalid IDs.
func Time(id string) time.Time {
	u, err := ulid.ParseStrict(id)
	if err != nil {
		return time.Time{}
	}
	return ulid.Time(u.Time()).UTC()
}
