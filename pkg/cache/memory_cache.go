package cache

import (
	"context"
	"strconv"
	"sync"
	"time"
)

// MemoryCache is an in-process Client. It backs tests and single-node
// deployments without redis.
type MemoryCache struct {
	mu     sync.Mutex
	data   map[string]memoryItem
	config *Config
	logger Logger
	stopCh chan struct{}
	once   sync.Once
}

type memoryItem struct {
	value     []byte
	expiresAt time.Time
}

func (i memoryItem) expired(now time.Time) bool {
	return !i.expiresAt.IsZero() && now.After(i.expiresAt)
}

func NewMemoryCache(config *Config, logger Logger) *MemoryCache {
	if config == nil {
		config = &Config{}
	}
	setMemoryDefaults(config)
	m := &MemoryCache{
		data:   make(map[string]memoryItem),
		config: config,
		logger: logger,
		stopCh: make(chan struct{}),
	}
	go m.sweep()
	return m
}

func (m *MemoryCache) sweep() {
	ticker := time.NewTicker(m.config.CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			now := time.Now()
			m.mu.Lock()
			for k, item := range m.data {
				if item.expired(now) {
					delete(m.data, k)
				}
			}
			m.mu.Unlock()
		case <-m.stopCh:
			return
		}
	}
}

func (m *MemoryCache) expiry(ttl time.Duration) time.Time {
	if ttl == 0 {
		ttl = m.config.DefaultTTL
	}
	if ttl < 0 {
		return time.Time{}
	}
	return time.Now().Add(ttl)
}

// load must be called with mu held.
func (m *MemoryCache) load(key string) (memoryItem, bool) {
	item, ok := m.data[key]
	if !ok {
		return memoryItem{}, false
	}
	if item.expired(time.Now()) {
		delete(m.data, key)
		return memoryItem{}, false
	}
	return item, true
}

func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.load(key)
	if !ok {
		return nil, ErrKeyNotFound
	}
	out := make([]byte, len(item.value))
	copy(out, item.value)
	return out, nil
}

func (m *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	buf := make([]byte, len(value))
	copy(buf, value)
	m.mu.Lock()
	m.data[key] = memoryItem{value: buf, expiresAt: m.expiry(ttl)}
	m.mu.Unlock()
	return nil
}

func (m *MemoryCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	return nil
}

func (m *MemoryCache) Exists(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.load(key)
	return ok, nil
}

func (m *MemoryCache) Increment(_ context.Context, key string, delta int64, ttl time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.load(key)
	var current int64
	if ok {
		n, err := strconv.ParseInt(string(item.value), 10, 64)
		if err != nil {
			return 0, &Error{Operation: "increment", Key: key, Err: err}
		}
		current = n
	} else {
		item.expiresAt = m.expiry(ttl)
	}
	current += delta
	item.value = []byte(strconv.FormatInt(current, 10))
	m.data[key] = item
	return current, nil
}

func (m *MemoryCache) Lock(_ context.Context, key, owner string, ttl time.Duration) (bool, error) {
	lockKey := LockKey(key)
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, held := m.load(lockKey); held {
		return false, nil
	}
	m.data[lockKey] = memoryItem{value: []byte(owner), expiresAt: m.expiry(ttl)}
	return true, nil
}

func (m *MemoryCache) Unlock(_ context.Context, key, owner string) error {
	lockKey := LockKey(key)
	m.mu.Lock()
	defer m.mu.Unlock()
	item, held := m.load(lockKey)
	if !held {
		return nil
	}
	if string(item.value) != owner {
		return &Error{Operation: "unlock", Key: key, Err: ErrLockHeld}
	}
	delete(m.data, lockKey)
	return nil
}

func (m *MemoryCache) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return &Error{Operation: "serialize", Key: key, Err: err}
	}
	return m.Set(ctx, key, data, ttl)
}

func (m *MemoryCache) GetJSON(ctx context.Context, key string, dest interface{}) error {
	data, err := m.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return &Error{Operation: "deserialize", Key: key, Err: err}
	}
	return nil
}

func (m *MemoryCache) Ping(context.Context) error {
	return nil
}

func (m *MemoryCache) Close() error {
	m.once.Do(func() { close(m.stopCh) })
	return nil
}
