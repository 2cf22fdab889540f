package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/roadwise/roadwise/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemory()
	m.now = func() time.Time { return now }

	_, err := m.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, m.Set(ctx, "k", []byte("v"), time.Minute))
	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(got))

	now = now.Add(time.Minute)
	_, err = m.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, m.Set(ctx, "forever", []byte("x"), 0))
	now = now.Add(24 * time.Hour)
	_, err = m.Get(ctx, "forever")
	assert.NoError(t, err)

	require.NoError(t, m.Close())
	_, err = m.Get(ctx, "forever")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestMemory_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	value := []byte("abc")
	require.NoError(t, m.Set(ctx, "k", value, time.Minute))
	value[0] = 'z'

	got, _ := m.Get(ctx, "k")
	assert.Equal(t, "abc", string(got))
}

func TestRedis(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	r, err := NewRedis("redis://"+mr.Addr()+"/0", "roadwise:")
	require.NoError(t, err)
	defer r.Close()
	require.NoError(t, r.Ping(ctx))

	_, err = r.Get(ctx, "weather:1,2")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, r.Set(ctx, "weather:1,2", []byte(`{"weather":"Clear"}`), time.Minute))
	assert.True(t, mr.Exists("roadwise:weather:1,2"))

	got, err := r.Get(ctx, "weather:1,2")
	require.NoError(t, err)
	assert.JSONEq(t, `{"weather":"Clear"}`, string(got))

	mr.FastForward(2 * time.Minute)
	_, err = r.Get(ctx, "weather:1,2")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestNewRedis_InvalidURL(t *testing.T) {
	_, err := NewRedis("http://nope", "")
	assert.ErrorContains(t, err, "invalid redis url")
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()
	type point struct{ Lat, Lon float64 }

	require.NoError(t, SetJSON(ctx, c, "p", point{18.5, 73.8}, time.Minute))
	var got point
	require.NoError(t, GetJSON(ctx, c, "p", &got))
	assert.Equal(t, point{18.5, 73.8}, got)

	assert.ErrorIs(t, GetJSON(ctx, Nop{}, "p", &got), ErrMiss)
}

func TestNew(t *testing.T) {
	c, err := New(config.CacheConfig{Driver: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, c)

	c, err = New(config.CacheConfig{Driver: "none"})
	require.NoError(t, err)
	assert.IsType(t, Nop{}, c)

	mr := miniredis.RunT(t)
	c, err = New(config.CacheConfig{Driver: "redis", URL: "redis://" + mr.Addr()})
	require.NoError(t, err)
	assert.IsType(t, &Redis{}, c)
	c.Close()

	_, err = New(config.CacheConfig{Driver: "memcached"})
	assert.ErrorContains(t, err, "unsupported cache driver")
}
