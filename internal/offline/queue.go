package offline

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

type ActionType string

const (
	ActionUpdateVisitStatus ActionType = "UPDATE_VISIT_STATUS"
	ActionCreateLocation    ActionType = "CREATE_LOCATION"
)

// Action is one deferred mutating call, created when the network call
// failed or the client was known to be offline. It is removed only after
// a replay succeeds.
type Action struct {
	ID        string          `json:"id"`
	Type      ActionType      `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp int64           `json:"timestamp"`
}

// Executor performs the server calls a replayed action stands for.
type Executor interface {
	UpdateVisitStatus(ctx context.Context, visitId string, payload json.RawMessage) error
	CreateLocation(ctx context.Context, payload json.RawMessage) error
}

// FlushResult reports how far a replay got.
type FlushResult struct {
	Synced    int
	Remaining int
}

// Queue is the client-resident backlog of pending mutations. Actions
// replay strictly in enqueue order, one at a time: a completion must
// never race ahead of its own check-in.
type Queue struct {
	store *Store
	exec  Executor

	mu sync.Mutex
}

func NewQueue(store *Store, exec Executor) *Queue {
	return &Queue{store: store, exec: exec}
}

// EnqueueVisitStatus records a deferred status transition and applies it
// optimistically to the cached visit snapshot so the UI reflects the
// change immediately. An idempotency token is minted here, once, so that
// however many times the action replays, the server applies it once.
func (q *Queue) EnqueueVisitStatus(visitId string, payload map[string]interface{}) (Action, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if payload == nil {
		payload = map[string]interface{}{}
	}
	payload["visit_id"] = visitId
	if _, ok := payload["idempotency_token"]; !ok {
		payload["idempotency_token"] = uuid.New().String()
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return Action{}, err
	}

	action := Action{
		ID:        uuid.New().String(),
		Type:      ActionUpdateVisitStatus,
		Payload:   raw,
		Timestamp: time.Now().UnixMilli(),
	}
	if err := q.store.Append(action); err != nil {
		return Action{}, err
	}

	if err := q.applyOptimistic(visitId, payload); err != nil {
		return Action{}, err
	}
	return action, nil
}

func (q *Queue) EnqueueCreateLocation(payload map[string]interface{}) (Action, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	raw, err := json.Marshal(payload)
	if err != nil {
		return Action{}, err
	}

	action := Action{
		ID:        uuid.New().String(),
		Type:      ActionCreateLocation,
		Payload:   raw,
		Timestamp: time.Now().UnixMilli(),
	}
	if err := q.store.Append(action); err != nil {
		return Action{}, err
	}
	return action, nil
}

// Flush replays pending actions in order. The first failure halts the
// replay: the failed action and everything behind it keep their queue
// positions for a later retry.
func (q *Queue) Flush(ctx context.Context) (FlushResult, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	actions := q.store.Actions()
	result := FlushResult{Remaining: len(actions)}

	for _, action := range actions {
		if err := q.replay(ctx, action); err != nil {
			return result, fmt.Errorf("replay action %s: %w", action.ID, err)
		}
		if err := q.store.Remove(action.ID); err != nil {
			return result, err
		}
		result.Synced++
		result.Remaining--
	}
	return result, nil
}

func (q *Queue) Pending() []Action {
	return q.store.Actions()
}

// CachedVisit returns the optimistic local snapshot for a visit, if any.
func (q *Queue) CachedVisit(visitId string) (map[string]interface{}, bool) {
	raw, ok := q.store.CachedVisit(visitId)
	if !ok {
		return nil, false
	}
	var snapshot map[string]interface{}
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return nil, false
	}
	return snapshot, true
}

// CacheVisit stores a server-fetched visit snapshot for offline reads.
func (q *Queue) CacheVisit(visitId string, visit map[string]interface{}) error {
	raw, err := json.Marshal(visit)
	if err != nil {
		return err
	}
	return q.store.CacheVisit(visitId, raw)
}

func (q *Queue) replay(ctx context.Context, action Action) error {
	switch action.Type {
	case ActionUpdateVisitStatus:
		var p struct {
			VisitID string `json:"visit_id"`
		}
		if err := json.Unmarshal(action.Payload, &p); err != nil {
			return err
		}
		return q.exec.UpdateVisitStatus(ctx, p.VisitID, action.Payload)
	case ActionCreateLocation:
		return q.exec.CreateLocation(ctx, action.Payload)
	default:
		return fmt.Errorf("unknown action type %q", action.Type)
	}
}

// applyOptimistic merges the transition payload into the cached snapshot
// and stamps the times the server would have stamped. Server truth
// overwrites this on the next successful fetch.
func (q *Queue) applyOptimistic(visitId string, payload map[string]interface{}) error {
	snapshot, _ := q.CachedVisit(visitId)
	if snapshot == nil {
		snapshot = map[string]interface{}{"id": visitId}
	}

	for k, v := range payload {
		if k == "visit_id" || k == "idempotency_token" {
			continue
		}
		snapshot[k] = v
	}

	now := time.Now().UTC().Format(time.RFC3339)
	switch payload["status"] {
	case "IN_PROGRESS":
		snapshot["check_in_time"] = now
	case "COMPLETED":
		snapshot["check_out_time"] = now
	}
	snapshot["updated_at"] = now

	raw, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	return q.store.CacheVisit(visitId, raw)
}
