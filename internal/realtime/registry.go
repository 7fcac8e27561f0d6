package realtime

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

type groupKind int

const (
	groupTenant groupKind = iota
	groupDevice
)

// GroupKey identifies a broadcast group: either every display of one masjid
// or a single device. Using a typed key keeps group identity out of
// string-concatenation territory.
type GroupKey struct {
	kind groupKind
	id   int
}

func TenantGroup(masjidID int) GroupKey { return GroupKey{kind: groupTenant, id: masjidID} }
func DeviceGroup(deviceID int) GroupKey { return GroupKey{kind: groupDevice, id: deviceID} }

// Sender delivers one envelope to a single transport connection. Send must
// not block on slow consumers; queue-full is treated as a dropped message.
type Sender interface {
	Send(env Envelope)
}

// Connection is the runtime record of one live display connection. Many
// connections may share a masjid (multiple displays in one building), and a
// device may briefly hold two during a reconnect race.
type Connection struct {
	ID          string
	MasjidID    int
	DeviceID    *int
	ConnectedAt time.Time
	Sender      Sender
}

// Registry tracks which displays are connected and fans pushes out to them.
// The default implementation is in-process; the interface exists so a
// multi-instance deployment can back it with a shared store without touching
// call sites.
type Registry interface {
	Register(conn *Connection)
	Unregister(connectionID string)
	BroadcastToTenant(masjidID int, event string, payload any)
	SendToDevice(deviceID int, event string, payload any)
	ConnectedCount(masjidID int) int
	IsDeviceConnected(deviceID int) bool
}

type memoryRegistry struct {
	mu     sync.RWMutex
	conns  map[string]*Connection
	groups map[GroupKey]map[string]*Connection
}

// NewRegistry returns the in-process registry.
func NewRegistry() Registry {
	return &memoryRegistry{
		conns:  make(map[string]*Connection),
		groups: make(map[GroupKey]map[string]*Connection),
	}
}

func (r *memoryRegistry) Register(conn *Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.conns[conn.ID]; ok {
		r.dropLocked(prev)
	}
	r.conns[conn.ID] = conn
	r.joinLocked(TenantGroup(conn.MasjidID), conn)
	if conn.DeviceID != nil {
		r.joinLocked(DeviceGroup(*conn.DeviceID), conn)
	}
	log.Debug().Str("connection_id", conn.ID).Int("masjid_id", conn.MasjidID).
		Msg("display connected")
}

// Unregister is idempotent: unknown ids are ignored so a disconnect hook
// firing twice cannot corrupt group membership.
func (r *memoryRegistry) Unregister(connectionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conn, ok := r.conns[connectionID]
	if !ok {
		return
	}
	r.dropLocked(conn)
	log.Debug().Str("connection_id", connectionID).Msg("display disconnected")
}

func (r *memoryRegistry) joinLocked(key GroupKey, conn *Connection) {
	if r.groups[key] == nil {
		r.groups[key] = make(map[string]*Connection)
	}
	r.groups[key][conn.ID] = conn
}

func (r *memoryRegistry) dropLocked(conn *Connection) {
	delete(r.conns, conn.ID)
	r.leaveLocked(TenantGroup(conn.MasjidID), conn.ID)
	if conn.DeviceID != nil {
		r.leaveLocked(DeviceGroup(*conn.DeviceID), conn.ID)
	}
}

func (r *memoryRegistry) leaveLocked(key GroupKey, connectionID string) {
	members, ok := r.groups[key]
	if !ok {
		return
	}
	delete(members, connectionID)
	if len(members) == 0 {
		delete(r.groups, key)
	}
}

func (r *memoryRegistry) BroadcastToTenant(masjidID int, event string, payload any) {
	r.sendToGroup(TenantGroup(masjidID), event, payload)
}

// SendToDevice is a silent no-op when the device is offline: a reload or
// template command aimed at a dark screen simply has no effect until it
// reconnects. Nothing is queued or retried.
func (r *memoryRegistry) SendToDevice(deviceID int, event string, payload any) {
	r.sendToGroup(DeviceGroup(deviceID), event, payload)
}

func (r *memoryRegistry) sendToGroup(key GroupKey, event string, payload any) {
	env := NewEnvelope(event, payload)

	// snapshot senders under the read lock, deliver outside it
	r.mu.RLock()
	senders := make([]Sender, 0, len(r.groups[key]))
	for _, conn := range r.groups[key] {
		senders = append(senders, conn.Sender)
	}
	r.mu.RUnlock()

	for _, s := range senders {
		s.Send(env)
	}
}

func (r *memoryRegistry) ConnectedCount(masjidID int) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.groups[TenantGroup(masjidID)])
}

func (r *memoryRegistry) IsDeviceConnected(deviceID int) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.groups[DeviceGroup(deviceID)]) > 0
}
