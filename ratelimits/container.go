package ratelimits

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// How many commands a user may send in a burst
	BucketSize = 8

	// Default amount of commands per minute once the burst is spent
	DefaultPerMinute = 12

	// How often full buckets are dropped from the container
	SweepInterval = 10 * time.Minute
)

// Container holds one token bucket per user
type Container struct {
	mu      sync.Mutex
	limit   rate.Limit
	buckets map[string]*bucket
	now     func() time.Time

	lastSweep time.Time
}

type bucket struct {
	limiter *rate.Limiter
	// set once the user was told about the limit, cleared when tokens are back
	warned bool
}

// NewContainer allows $perMinute commands per user with a burst of BucketSize
func NewContainer(perMinute int) *Container {
	if perMinute <= 0 {
		perMinute = DefaultPerMinute
	}
	return &Container{
		limit:   rate.Every(time.Minute / time.Duration(perMinute)),
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

// Drain takes one key from $user's bucket.
// ok is false if the bucket is empty; warn is true the first time that happens.
func (c *Container) Drain(user string) (ok bool, warn bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if now.Sub(c.lastSweep) >= SweepInterval {
		c.sweep(now)
		c.lastSweep = now
	}

	b, exists := c.buckets[user]
	if !exists {
		b = &bucket{limiter: rate.NewLimiter(c.limit, BucketSize)}
		c.buckets[user] = b
	}

	if b.limiter.AllowN(now, 1) {
		b.warned = false
		return true, false
	}

	warn = !b.warned
	b.warned = true
	return false, warn
}

// sweep drops buckets that refilled completely, a new bucket starts full and unwarned
func (c *Container) sweep(now time.Time) {
	for user, b := range c.buckets {
		if b.limiter.TokensAt(now) < BucketSize {
			continue
		}
		delete(c.buckets, user)
	}
}

// Len returns the number of users currently tracked
func (c *Container) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.buckets)
}
