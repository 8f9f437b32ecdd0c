// Package ai is the registration side of the enemy AI: it tracks which
// entities an external decision maker controls, with a blackboard per
// entity. It makes no decisions itself.
package ai

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/zeusync/skirmish/internal/core/events"
	"github.com/zeusync/skirmish/internal/core/events/bus"
	"github.com/zeusync/skirmish/internal/core/models"
	"github.com/zeusync/skirmish/internal/core/observability/log"
	"github.com/zeusync/skirmish/internal/core/systems"
)

var _ systems.Registrar = (*Roster)(nil)

const tagKey = "tag"

// Roster records RegisterEntity calls and forgets entities once they are
// destroyed.
type Roster struct {
	members map[models.EntityID]string
	board   Blackboard
	sub     bus.Subscription
	logger  log.Log
}

// NewRoster builds a roster. When eb is not nil the roster drops members on
// unit destruction events.
func NewRoster(eb bus.EventBus, logger log.Log) (*Roster, error) {
	r := &Roster{
		members: make(map[models.EntityID]string),
		board:   NewBlackboard(),
		logger:  log.OrNop(logger).With(log.String("component", "ai")),
	}
	if eb != nil {
		sub, err := eb.Subscribe(events.UnitDestroyed, r.onDestroyed)
		if err != nil {
			return nil, fmt.Errorf("subscribe roster: %w", err)
		}
		r.sub = sub
	}
	return r, nil
}

func (r *Roster) onDestroyed(e bus.Event) error {
	payload, ok := e.Data().(events.UnitDestroyedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T", e.Data())
	}
	r.Forget(payload.Entity)
	return nil
}

// RegisterEntity hands id over to the AI under typeTag.
func (r *Roster) RegisterEntity(id models.EntityID, typeTag string) {
	r.members[id] = typeTag
	r.Blackboard(id).Set(tagKey, typeTag)
	r.logger.Debug("entity registered", log.Entity("entity", uint64(id)), log.String("tag", typeTag))
}

// Forget drops id and its blackboard.
func (r *Roster) Forget(id models.EntityID) bool {
	if _, ok := r.members[id]; !ok {
		return false
	}
	delete(r.members, id)
	r.Blackboard(id).Clear()
	return true
}

// Prune forgets every member for which exists reports false.
func (r *Roster) Prune(exists func(models.EntityID) bool) int {
	n := 0
	for _, id := range r.Members() {
		if !exists(id) && r.Forget(id) {
			n++
		}
	}
	return n
}

func (r *Roster) Tag(id models.EntityID) (string, bool) {
	tag, ok := r.members[id]
	return tag, ok
}

// Members lists registered entities in id order.
func (r *Roster) Members() []models.EntityID {
	return slices.Sorted(maps.Keys(r.members))
}

// Count returns how many members carry tag.
func (r *Roster) Count(tag string) int {
	n := 0
	for _, t := range r.members {
		if t == tag {
			n++
		}
	}
	return n
}

func (r *Roster) Len() int { return len(r.members) }

// Blackboard returns the private blackboard of id.
func (r *Roster) Blackboard(id models.EntityID) Blackboard {
	return r.board.Namespace(strconv.FormatUint(uint64(id), 10))
}

// Close stops listening for destruction events.
func (r *Roster) Close() error {
	if r.sub == nil {
		return nil
	}
	return r.sub.Cancel()
}

type rosterState struct {
	Members map[models.EntityID]string
	Board   []byte
}

// Save encodes members and blackboards with gob.
func (r *Roster) Save() ([]byte, error) {
	board, err := r.board.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("encode blackboard: %w", err)
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(rosterState{Members: r.members, Board: board}); err != nil {
		return nil, fmt.Errorf("encode roster: %w", err)
	}
	return buf.Bytes(), nil
}

// Load replaces the roster with a state written by Save.
func (r *Roster) Load(data []byte) error {
	if len(data) == 0 {
		return errors.New("empty roster state")
	}
	var st rosterState
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&st); err != nil {
		return fmt.Errorf("decode roster: %w", err)
	}
	if err := r.board.UnmarshalBinary(st.Board); err != nil {
		return fmt.Errorf("decode blackboard: %w", err)
	}
	r.members = st.Members
	if r.members == nil {
		r.members = make(map[models.EntityID]string)
	}
	return nil
}
