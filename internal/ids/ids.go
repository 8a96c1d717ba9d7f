package ids

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/google/uuid"

	"github.com/julianstephens/yearlit/internal/dates"
)

// Generator mints identifiers for ranges and milestones.
type Generator interface {
	// NewID returns a fresh identifier (timestamp plus random suffix)
	NewID() string
	// Suffix returns a short random numeric string used to disambiguate colliding ids
	Suffix() string
}

// Default builds ids from a clock and a random source
type Default struct {
	Clock dates.Clock
}

// New returns a Generator backed by the given clock
func New(clock dates.Clock) *Default {
	return &Default{Clock: clock}
}

func (g *Default) NewID() string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%d-%s", g.Clock.Now().UnixMilli(), random)
}

func (g *Default) Suffix() string {
	return fmt.Sprintf("%04d", rand.Intn(10000))
}

// Sequence is a deterministic Generator for tests and reproducible imports.
// NewID yields "<Prefix>1", "<Prefix>2", ...; Suffix yields "1", "2", ...
type Sequence struct {
	Prefix string
	next   int
	suffix int
}

func (s *Sequence) NewID() string {
	s.next++
	return fmt.Sprintf("%s%d", s.Prefix, s.next)
}

func (s *Sequence) Suffix() string {
	s.suffix++
	return fmt.Sprintf("%d", s.suffix)
}
