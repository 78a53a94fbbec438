package conversation

import (
	"sync"

	"github.com/google/uuid"
	"github.com/quotelane/salesagent/internal/catalog"
)

// Stage is the conversation's current phase.
type Stage string

const (
	// StageDiscovery is the initial stage: requirements are gathered and the
	// catalog is searched each turn.
	StageDiscovery Stage = "discovery"
	// StageQuote is terminal for the session: products are frozen and no
	// further retrieval occurs.
	StageQuote Stage = "quote"
)

// requirementCategoryKey is the sticky requirement key holding the locked
// category. Unlike entity keys it is never overwritten once set.
const requirementCategoryKey = "category"

// State holds everything accumulated for one session. Turns for the same
// session are serialized by locking mu for the whole turn; the containing
// session cache is safe for concurrent access across sessions.
type State struct {
	mu sync.Mutex

	SessionID              uuid.UUID          `json:"session_id"`
	Stage                  Stage              `json:"stage"`
	DiscoveredRequirements map[string]string  `json:"discovered_requirements"`
	SelectedProducts       []catalog.Document `json:"selected_products,omitempty"`
	TotalPrice             float64            `json:"total_price"`
}

func NewState(sessionID uuid.UUID) *State {
	return &State{
		SessionID:              sessionID,
		Stage:                  StageDiscovery,
		DiscoveredRequirements: make(map[string]string),
	}
}

// Category returns the locked category, or "" if none was detected yet.
func (s *State) Category() string {
	return s.DiscoveredRequirements[requirementCategoryKey]
}

// LockCategory records the category the first time one is detected. Later
// detections are ignored: category is sticky for the session.
func (s *State) LockCategory(category string) {
	if _, ok := s.DiscoveredRequirements[requirementCategoryKey]; ok {
		return
	}
	if category == "" {
		return
	}
	s.DiscoveredRequirements[requirementCategoryKey] = category
}

// MergeEntities folds freshly classified requirement entities into the state.
// Entity keys overwrite on repeated detection; the category key does not.
func (s *State) MergeEntities(entities map[string]string) {
	for k, v := range entities {
		if k == requirementCategoryKey {
			continue
		}
		if v == "" {
			continue
		}
		s.DiscoveredRequirements[k] = v
	}
}
