package postgres

import (
	"crypto/rand"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// SessionIDGenerator issues ULIDs for staging sessions. Ids generated within
// the same millisecond still sort in issue order.
type SessionIDGenerator struct {
	mu      sync.Mutex
	entropy io.Reader
}

// NewSessionIDGenerator creates a new SessionIDGenerator.
func NewSessionIDGenerator() *SessionIDGenerator {
	return &SessionIDGenerator{
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// Generate returns a new ULID string.
func (g *SessionIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy).String()
}
