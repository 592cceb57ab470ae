package conversation

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/univade/testgen-ai/internal/infrastructure/metrics"
	"github.com/univade/testgen-ai/internal/utils/idgen"
)

const (
	// DefaultMaxPerOwner bounds how many conversations one owner may hold.
	DefaultMaxPerOwner = 20
	// DefaultInactivityThreshold is how long a conversation may sit idle
	// before the sweep removes it.
	DefaultInactivityThreshold = 30 * time.Minute
)

// Registry is the in-memory conversation store. Conversations are kept in a
// map keyed by conversation ID; a second index keeps, per owner, the IDs in
// insertion order so capacity eviction can drop the oldest conversation
// first. Both structures share one lock.
type Registry struct {
	mu                  sync.RWMutex
	conversations       map[string]*Context
	ownerIndex          map[string][]string
	maxPerOwner         int
	inactivityThreshold time.Duration
	log                 zerolog.Logger
}

// RegistryOption customises a Registry.
type RegistryOption func(*Registry)

// WithMaxPerOwner overrides the per-owner conversation cap.
func WithMaxPerOwner(n int) RegistryOption {
	return func(r *Registry) {
		if n > 0 {
			r.maxPerOwner = n
		}
	}
}

// WithInactivityThreshold overrides the sweep idle cutoff.
func WithInactivityThreshold(d time.Duration) RegistryOption {
	return func(r *Registry) {
		if d > 0 {
			r.inactivityThreshold = d
		}
	}
}

// NewRegistry creates an empty registry with the default limits.
func NewRegistry(log zerolog.Logger, opts ...RegistryOption) *Registry {
	r := &Registry{
		conversations:       make(map[string]*Context),
		ownerIndex:          make(map[string][]string),
		maxPerOwner:         DefaultMaxPerOwner,
		inactivityThreshold: DefaultInactivityThreshold,
		log:                 log.With().Str("component", "conversation-registry").Logger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start creates a new active conversation for the owner, linked to the
// session that opened it. When the owner already holds the maximum number
// of conversations, the oldest ones are evicted first.
func (r *Registry) Start(ownerID, sessionID string) *Context {
	conv := NewContext(idgen.MustGenerateSecureID("conv", 16), ownerID, sessionID)
	conv.AddMetadata("started_by", ownerID)
	if sessionID != "" {
		conv.AddMetadata("session_id", sessionID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.conversations[conv.ConversationID] = conv
	r.ownerIndex[ownerID] = append(r.ownerIndex[ownerID], conv.ConversationID)
	r.evictOverflowLocked(ownerID)

	metrics.ConversationsStartedTotal.Inc()
	r.log.Debug().
		Str("conversation_id", conv.ConversationID).
		Str("owner_id", ownerID).
		Str("session_id", sessionID).
		Msg("conversation started")

	return conv.clone()
}

// evictOverflowLocked drops conversations from the front of the owner index
// until the owner is within the cap. Caller holds the write lock.
func (r *Registry) evictOverflowLocked(ownerID string) {
	ids := r.ownerIndex[ownerID]
	for len(ids) > r.maxPerOwner {
		evictedID := ids[0]
		ids = ids[1:]
		delete(r.conversations, evictedID)

		metrics.ConversationsEvictedTotal.Inc()
		r.log.Debug().
			Str("conversation_id", evictedID).
			Str("owner_id", ownerID).
			Msg("conversation evicted over owner capacity")
	}
	r.ownerIndex[ownerID] = ids
}

// Get returns a snapshot of the conversation and marks it active: a read
// is an activity signal, so the idle clock restarts and a completed
// conversation is re-opened. The snapshot is a copy; later registry
// mutations do not show through it.
func (r *Registry) Get(conversationID string) (*Context, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conv, ok := r.conversations[conversationID]
	if !ok {
		return nil, false
	}
	conv.MarkActive()
	return conv.clone(), true
}

// Peek returns a snapshot without touching the activity state.
func (r *Registry) Peek(conversationID string) (*Context, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conv, ok := r.conversations[conversationID]
	if !ok {
		return nil, false
	}
	return conv.clone(), true
}

// End marks the conversation completed. The conversation stays retrievable
// until the expiry sweep removes it.
func (r *Registry) End(conversationID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	conv, ok := r.conversations[conversationID]
	if !ok {
		return false
	}
	conv.Status = StatusCompleted
	return true
}

// Delete removes the conversation outright. No-op on unknown IDs.
func (r *Registry) Delete(conversationID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conv, ok := r.conversations[conversationID]
	if !ok {
		return
	}
	delete(r.conversations, conversationID)
	r.removeFromOwnerIndexLocked(conv.OwnerID, conversationID)
}

// AppendMessage adds a message to the conversation. Best-effort: unknown
// IDs are ignored.
func (r *Registry) AppendMessage(conversationID string, msg Message) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	conv, ok := r.conversations[conversationID]
	if !ok {
		return false
	}
	conv.AddMessage(msg)
	return true
}

// IncrementMessageCount bumps the per-turn message counter and refreshes
// the activity timestamp. Best-effort: unknown IDs are ignored.
func (r *Registry) IncrementMessageCount(conversationID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if conv, ok := r.conversations[conversationID]; ok {
		conv.IncrementMessageCount()
	}
}

// UpdateMetadata merges the entries into the conversation metadata and
// marks the conversation active. Returns false on unknown IDs.
func (r *Registry) UpdateMetadata(conversationID string, metadata map[string]any) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	conv, ok := r.conversations[conversationID]
	if !ok {
		return false
	}
	for key, value := range metadata {
		conv.AddMetadata(key, value)
	}
	conv.MarkActive()
	return true
}

// IncrementGeneration bumps the generation counter. Best-effort.
func (r *Registry) IncrementGeneration(conversationID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if conv, ok := r.conversations[conversationID]; ok {
		conv.GenerationCount++
	}
}

// IncrementRefinement bumps the refinement counter. Best-effort.
func (r *Registry) IncrementRefinement(conversationID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if conv, ok := r.conversations[conversationID]; ok {
		conv.RefinementCount++
	}
}

// AddTokens adds model usage to the conversation total. Best-effort.
func (r *Registry) AddTokens(conversationID string, tokens int) {
	if tokens <= 0 {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if conv, ok := r.conversations[conversationID]; ok {
		conv.TotalTokens += tokens
	}
}

// SweepExpired removes every conversation whose last interaction predates
// the inactivity cutoff, regardless of status. Returns the number removed;
// an immediate second call removes nothing.
func (r *Registry) SweepExpired() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := time.Now().UTC().Add(-r.inactivityThreshold)
	removed := 0
	for id, conv := range r.conversations {
		if conv.LastInteractionAt.After(cutoff) {
			continue
		}
		conv.MarkInactive()
		delete(r.conversations, id)
		r.removeFromOwnerIndexLocked(conv.OwnerID, id)
		removed++
	}

	if removed > 0 {
		metrics.ConversationsSweptTotal.Add(float64(removed))
		r.log.Info().Int("removed", removed).Msg("expired conversations swept")
	}
	return removed
}

// ListByOwner returns summaries for all of an owner's conversations in
// insertion order. Listing is not an activity signal.
func (r *Registry) ListByOwner(ownerID string) []*Summary {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.ownerIndex[ownerID]
	summaries := make([]*Summary, 0, len(ids))
	for _, id := range ids {
		if conv, ok := r.conversations[id]; ok {
			summaries = append(summaries, conv.Summarize())
		}
	}
	return summaries
}

// Summarize builds a summary for the conversation and attaches it to the
// context. Not an activity signal.
func (r *Registry) Summarize(conversationID string) (*Summary, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conv, ok := r.conversations[conversationID]
	if !ok {
		return nil, false
	}
	summary := conv.Summarize()
	conv.Summary = summary
	return summary, true
}

// SetInactivityThreshold swaps the sweep idle cutoff at runtime. Values
// <= 0 are ignored.
func (r *Registry) SetInactivityThreshold(d time.Duration) {
	if d <= 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inactivityThreshold = d
}

// Len reports how many conversations are held.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conversations)
}

// removeFromOwnerIndexLocked deletes one ID from an owner's index slice.
// Caller holds the write lock.
func (r *Registry) removeFromOwnerIndexLocked(ownerID, conversationID string) {
	ids := r.ownerIndex[ownerID]
	for i, id := range ids {
		if id == conversationID {
			r.ownerIndex[ownerID] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	if len(r.ownerIndex[ownerID]) == 0 {
		delete(r.ownerIndex, ownerID)
	}
}
