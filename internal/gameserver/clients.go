package gameserver

import (
	"maps"
	"slices"
	"sync"
)

// ClientManager maps online characters to their connections.
// Один персонаж может быть в мире только с одного соединения.
type ClientManager struct {
	mu      sync.RWMutex
	clients map[int64]*GameClient // characterID → client
}

// NewClientManager creates an empty registry.
func NewClientManager() *ClientManager {
	return &ClientManager{clients: make(map[int64]*GameClient)}
}

// Register binds characterID to client.
// It reports false when the character is already online elsewhere.
func (cm *ClientManager) Register(characterID int64, client *GameClient) bool {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	if _, online := cm.clients[characterID]; online {
		return false
	}
	cm.clients[characterID] = client
	return true
}

// Unregister drops characterID only while it is still bound to client,
// so a late disconnect never evicts a newer session.
func (cm *ClientManager) Unregister(characterID int64, client *GameClient) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	if cm.clients[characterID] == client {
		delete(cm.clients, characterID)
	}
}

// GetClient returns the client of an online character, or nil.
func (cm *ClientManager) GetClient(characterID int64) *GameClient {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.clients[characterID]
}

// Count returns the number of online characters.
func (cm *ClientManager) Count() int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return len(cm.clients)
}

// Snapshot returns the online clients. Callers may take player turns
// while walking it; the registry lock is not held.
func (cm *ClientManager) Snapshot() []*GameClient {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return slices.Collect(maps.Values(cm.clients))
}
