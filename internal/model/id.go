package model

import (
	"crypto/rand"
	"strconv"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

const (
	PrefixClient      = "clt"
	PrefixAccount     = "cpt"
	PrefixTransaction = "trx"
)

var (
	idMu    sync.Mutex
	entropy = ulid.Monotonic(rand.Reader, 0)
)

// NewID returns a sortable local key such as "cpt-01JB...".
func NewID(prefix string) string {
	idMu.Lock()
	defer idMu.Unlock()

	id := ulid.MustNew(ulid.Timestamp(time.Now()), entropy)
	return prefix + "-" + id.String()
}

// RemoteKey is the local key given to an entity first seen in a remote
// snapshot, e.g. RemoteKey(PrefixClient, 42) == "clt-42".
func RemoteKey(prefix string, remoteID int64) string {
	return prefix + "-" + strconv.FormatInt(remoteID, 10)
}
