package cart

import (
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineAddon is an addon applied to a cart line, priced at selection time.
type LineAddon struct {
	ID    uuid.UUID       `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// Line is a single entry in a register's cart. Reward and standalone addon
// lines never merge; everything else merges on (ref id, addon id set).
type Line struct {
	ID        uuid.UUID       `json:"id"`
	RefID     uuid.UUID       `json:"refId"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int64           `json:"quantity"`
	Addons    []LineAddon     `json:"addons,omitempty"`
	AddonLine bool            `json:"addonLine"`
	Reward    bool            `json:"reward"`
}

// UnitTotal is the unit price plus the price of every attached addon.
func (l Line) UnitTotal() decimal.Decimal {
	total := l.UnitPrice
	for _, a := range l.Addons {
		total = total.Add(a.Price)
	}
	return total
}

// Total is the unit total multiplied by the quantity.
func (l Line) Total() decimal.Decimal {
	return l.UnitTotal().Mul(decimal.NewFromInt(l.Quantity))
}

func (l Line) mergeKey() string {
	ids := make([]string, 0, len(l.Addons))
	for _, a := range l.Addons {
		ids = append(ids, a.ID.String())
	}
	sort.Strings(ids)
	return l.RefID.String() + "|" + strings.Join(ids, ",")
}

// Session holds the live cart for one register. Safe for concurrent use.
type Session struct {
	mu    sync.Mutex
	lines []Line
}

// AddLine merges qty of the product into an existing compatible line or
// appends a new one, and returns the resulting line.
func (s *Session) AddLine(refID uuid.UUID, name string, unitPrice decimal.Decimal, quantity int64, addons []LineAddon) Line {
	line := Line{
		ID:        uuid.New(),
		RefID:     refID,
		Name:      name,
		UnitPrice: unitPrice,
		Quantity:  quantity,
		Addons:    addons,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := line.mergeKey()
	for i := range s.lines {
		existing := &s.lines[i]
		if existing.Reward || existing.AddonLine {
			continue
		}
		if existing.mergeKey() == key {
			existing.Quantity += quantity
			return *existing
		}
	}
	s.lines = append(s.lines, line)
	return line
}

// AddStandaloneAddon sells an addon on its own line. Standalone lines for the
// same addon merge with each other but never with product lines.
func (s *Session) AddStandaloneAddon(addonID uuid.UUID, name string, price decimal.Decimal, quantity int64) Line {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lines {
		existing := &s.lines[i]
		if existing.AddonLine && existing.RefID == addonID {
			existing.Quantity += quantity
			return *existing
		}
	}
	line := Line{
		ID:        uuid.New(),
		RefID:     addonID,
		Name:      name,
		UnitPrice: price,
		Quantity:  quantity,
		AddonLine: true,
	}
	s.lines = append(s.lines, line)
	return line
}

// AddRewardLine appends a zero-priced reward line. Reward lines are always
// distinct entries; they never merge.
func (s *Session) AddRewardLine(refID uuid.UUID, name string) Line {
	line := Line{
		ID:        uuid.New(),
		RefID:     refID,
		Name:      name + " (Reward)",
		UnitPrice: decimal.Zero,
		Quantity:  1,
		Reward:    true,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append(s.lines, line)
	return line
}

// SetQuantity replaces the quantity of the identified line. Quantities below
// one remove the line.
func (s *Session) SetQuantity(lineID uuid.UUID, quantity int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lines {
		if s.lines[i].ID != lineID {
			continue
		}
		if quantity < 1 {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
		} else {
			s.lines[i].Quantity = quantity
		}
		return true
	}
	return false
}

// RemoveLine deletes the identified line. Returns false when it is absent.
func (s *Session) RemoveLine(lineID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lines {
		if s.lines[i].ID == lineID {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			return true
		}
	}
	return false
}

// HasRewardLine reports whether any reward line is present.
func (s *Session) HasRewardLine() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, l := range s.lines {
		if l.Reward {
			return true
		}
	}
	return false
}

// Lines returns a copy of the current lines in insertion order.
func (s *Session) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

// Clear empties the session.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = nil
}

// Empty reports whether the session has no lines.
func (s *Session) Empty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lines) == 0
}

// Manager tracks one session per register id.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

// Session returns the cart for the register, creating it on first use.
func (m *Manager) Session(registerID string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[registerID]
	if !ok {
		sess = &Session{}
		m.sessions[registerID] = sess
	}
	return sess
}
