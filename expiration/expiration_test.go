package expiration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krisalay/smartcache/types"
)

var t0 = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func TestFixedTTL(t *testing.T) {
	s := &FixedTTL{TTL: time.Minute}
	ent := &types.CacheEntry{}

	s.OnWrite(ent, t0)
	assert.Equal(t, t0.Add(time.Minute), ent.ExpireAt)

	s.OnAccess(ent, t0.Add(30*time.Second))
	assert.Equal(t, t0.Add(time.Minute), ent.ExpireAt, "reads must not extend a fixed TTL")
	assert.Equal(t, t0.Add(30*time.Second), ent.LastAccessedAt)

	assert.False(t, s.IsExpired(ent, t0.Add(time.Minute)))
	assert.True(t, s.IsExpired(ent, t0.Add(time.Minute+time.Nanosecond)))
}

func TestFixedTTLKeepsExplicitDeadline(t *testing.T) {
	s := &FixedTTL{TTL: time.Hour}
	ent := &types.CacheEntry{ExpireAt: t0.Add(time.Second)}

	s.OnWrite(ent, t0)
	assert.Equal(t, t0.Add(time.Second), ent.ExpireAt)
}

func TestFixedTTLZeroNeverExpires(t *testing.T) {
	s := &FixedTTL{}
	ent := &types.CacheEntry{}

	s.OnWrite(ent, t0)
	assert.True(t, ent.ExpireAt.IsZero())
	assert.False(t, s.IsExpired(ent, t0.Add(100*365*24*time.Hour)))
}

func TestExpireAfterAccessSlides(t *testing.T) {
	s := &ExpireAfterAccess{TTL: time.Minute}
	ent := &types.CacheEntry{}

	s.OnWrite(ent, t0)
	s.OnAccess(ent, t0.Add(50*time.Second))

	assert.False(t, s.IsExpired(ent, t0.Add(90*time.Second)))
	assert.True(t, s.IsExpired(ent, t0.Add(111*time.Second)))
}

func TestExpireAfterAccessKeepsExplicitDeadline(t *testing.T) {
	s := &ExpireAfterAccess{TTL: time.Minute}
	ent := &types.CacheEntry{ExpireAt: t0.Add(time.Second), ExplicitTTL: true}

	s.OnWrite(ent, t0)
	assert.Equal(t, t0.Add(time.Second), ent.ExpireAt)

	s.OnAccess(ent, t0.Add(500*time.Millisecond))
	assert.Equal(t, t0.Add(time.Second), ent.ExpireAt, "reads must not replace an explicit deadline")
	assert.True(t, s.IsExpired(ent, t0.Add(2*time.Second)))
}

func TestNew(t *testing.T) {
	s, err := New("", time.Second)
	require.NoError(t, err)
	assert.IsType(t, &FixedTTL{}, s)

	s, err = New("Sliding", time.Second)
	require.NoError(t, err)
	assert.IsType(t, &ExpireAfterAccess{}, s)

	_, err = New("forever", time.Second)
	assert.Error(t, err)
}
