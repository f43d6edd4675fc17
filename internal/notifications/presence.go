package notifications

import (
	"context"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Presence keys are shared by every instance, so a user counts as online if
// any instance holds a socket for them.
const (
	presenceOnlineSetKey = "presence:online"
	presenceSeenPrefix   = "presence:seen:"
	presenceSeenTTL      = 90 * time.Second
	presenceOfflineGrace = 5 * time.Second
	presenceSweepEvery   = 60 * time.Second
)

// presenceTracker counts live sockets per user on this instance and mirrors
// the result into Redis. Offline transitions are held back for a short grace
// window so a page reload does not flap a friend's presence dot.
type presenceTracker struct {
	rdb *redis.Client

	mu        sync.RWMutex
	sockets   map[uint]int
	pending   map[uint]*time.Timer
	announced map[uint]bool

	grace      time.Duration
	sweepEvery time.Duration

	onOnline  func(userID uint)
	onOffline func(userID uint)

	stopOnce sync.Once
	quit     chan struct{}
}

func newPresenceTracker(rdb *redis.Client) *presenceTracker {
	p := &presenceTracker{
		rdb:        rdb,
		sockets:    make(map[uint]int),
		pending:    make(map[uint]*time.Timer),
		announced:  make(map[uint]bool),
		grace:      presenceOfflineGrace,
		sweepEvery: presenceSweepEvery,
		quit:       make(chan struct{}),
	}
	if p.rdb != nil {
		go p.sweepLoop()
	}
	return p
}

func (p *presenceTracker) setCallbacks(onOnline, onOffline func(userID uint)) {
	p.mu.Lock()
	p.onOnline = onOnline
	p.onOffline = onOffline
	p.mu.Unlock()
}

func (p *presenceTracker) setGrace(d time.Duration) {
	if d <= 0 {
		return
	}
	p.mu.Lock()
	p.grace = d
	p.mu.Unlock()
}

func (p *presenceTracker) stop() {
	p.stopOnce.Do(func() {
		close(p.quit)
		p.mu.Lock()
		for userID, timer := range p.pending {
			timer.Stop()
			delete(p.pending, userID)
		}
		p.mu.Unlock()
	})
}

// connect records one more socket for the user. A pending offline timer from
// a just-closed socket is cancelled, which is what absorbs quick reconnects.
func (p *presenceTracker) connect(ctx context.Context, userID uint) {
	wasOnline := p.isOnline(ctx, userID)

	p.mu.Lock()
	if timer, ok := p.pending[userID]; ok {
		timer.Stop()
		delete(p.pending, userID)
	}
	p.sockets[userID]++
	p.announced[userID] = false
	p.mu.Unlock()

	p.touch(ctx, userID)
	if !wasOnline {
		p.fireOnline(userID)
	}
}

// disconnect drops one socket. When it was the user's last one, the offline
// transition is deferred by the grace window instead of firing immediately.
func (p *presenceTracker) disconnect(userID uint) {
	p.mu.Lock()
	if n, ok := p.sockets[userID]; ok {
		n--
		if n > 0 {
			p.sockets[userID] = n
			p.mu.Unlock()
			return
		}
		delete(p.sockets, userID)
	}

	if timer, ok := p.pending[userID]; ok {
		timer.Stop()
	}
	p.pending[userID] = time.AfterFunc(p.grace, func() {
		p.settleOffline(context.Background(), userID)
	})
	p.mu.Unlock()
}

// touch refreshes the user's Redis presence. Called on connect and on every
// message or pong from the peer.
func (p *presenceTracker) touch(ctx context.Context, userID uint) {
	if p.rdb == nil {
		return
	}
	uid := strconv.FormatUint(uint64(userID), 10)
	if err := p.rdb.SAdd(ctx, presenceOnlineSetKey, uid).Err(); err != nil {
		log.Printf("presence: SADD failed for user %d: %v", userID, err)
	}
	now := strconv.FormatInt(time.Now().Unix(), 10)
	if err := p.rdb.SetEx(ctx, presenceSeenKey(userID), now, presenceSeenTTL).Err(); err != nil {
		log.Printf("presence: seen-key write failed for user %d: %v", userID, err)
	}
}

func (p *presenceTracker) isOnline(ctx context.Context, userID uint) bool {
	p.mu.RLock()
	local := p.sockets[userID] > 0
	p.mu.RUnlock()
	if local {
		return true
	}
	if p.rdb == nil {
		return false
	}
	exists, err := p.rdb.Exists(ctx, presenceSeenKey(userID)).Result()
	return err == nil && exists > 0
}

// settleOffline runs when the grace window for a user expires. If the user
// reconnected here, or another instance still sees them, nothing fires.
func (p *presenceTracker) settleOffline(ctx context.Context, userID uint) {
	p.mu.Lock()
	delete(p.pending, userID)
	if p.sockets[userID] > 0 {
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	if p.rdb != nil {
		exists, err := p.rdb.Exists(ctx, presenceSeenKey(userID)).Result()
		if err == nil && exists > 0 {
			return
		}
		uid := strconv.FormatUint(uint64(userID), 10)
		_ = p.rdb.SRem(ctx, presenceOnlineSetKey, uid).Err()
	}

	p.fireOffline(userID)
}

// sweep removes online-set entries whose seen key has expired, catching users
// whose instance died without unregistering them.
func (p *presenceTracker) sweep(ctx context.Context) {
	if p.rdb == nil {
		return
	}

	members, err := p.rdb.SMembers(ctx, presenceOnlineSetKey).Result()
	if err != nil {
		return
	}

	for _, raw := range members {
		id64, parseErr := strconv.ParseUint(raw, 10, 32)
		if parseErr != nil {
			continue
		}
		userID := uint(id64)

		exists, existsErr := p.rdb.Exists(ctx, presenceSeenKey(userID)).Result()
		if existsErr != nil || exists > 0 {
			continue
		}
		_ = p.rdb.SRem(ctx, presenceOnlineSetKey, raw).Err()

		p.mu.RLock()
		localConns := p.sockets[userID] > 0
		p.mu.RUnlock()
		if !localConns {
			p.fireOffline(userID)
		}
	}
}

func (p *presenceTracker) sweepLoop() {
	ticker := time.NewTicker(p.sweepEvery)
	defer ticker.Stop()
	for {
		select {
		case <-p.quit:
			return
		case <-ticker.C:
			p.sweep(context.Background())
		}
	}
}

func (p *presenceTracker) fireOnline(userID uint) {
	p.mu.Lock()
	p.announced[userID] = false
	cb := p.onOnline
	p.mu.Unlock()
	if cb != nil {
		cb(userID)
	}
}

// fireOffline is idempotent per offline transition; sweep and settleOffline
// can both reach it for the same user.
func (p *presenceTracker) fireOffline(userID uint) {
	p.mu.Lock()
	if p.announced[userID] {
		p.mu.Unlock()
		return
	}
	p.announced[userID] = true
	cb := p.onOffline
	p.mu.Unlock()
	if cb != nil {
		cb(userID)
	}
}

func presenceSeenKey(userID uint) string {
	return presenceSeenPrefix + strconv.FormatUint(uint64(userID), 10)
}
