package ws

import "doge_heroes/internal/domain"

// Server -> client messages. The socket is push-only: mutations go through
// the HTTP API and every committed change is mirrored here as a snapshot.
type ReadyMessage struct {
	Type string `json:"type"` // "ready"
}

type StateMessage struct {
	Type  string            `json:"type"` // "state"
	State *domain.GameState `json:"state"`
}
