package service

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"hash/maphash"
	"sync"
)

// GenerateSessionID generates a cryptographically secure session ID
// Uses 32 bytes of random data encoded as base64 URL-safe string
func GenerateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	return base64.URLEncoding.EncodeToString(b), nil
}

const lockStripes = 64

// sessionLocks serializes work per session. Sessions hash onto a fixed set of
// mutexes, so unrelated sessions occasionally share one.
type sessionLocks struct {
	seed  maphash.Seed
	locks [lockStripes]sync.Mutex
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{seed: maphash.MakeSeed()}
}

// lock acquires the session's mutex and returns its unlock function.
func (l *sessionLocks) lock(sessionID string) func() {
	m := &l.locks[maphash.String(l.seed, sessionID)%lockStripes]
	m.Lock()
	return m.Unlock
}
