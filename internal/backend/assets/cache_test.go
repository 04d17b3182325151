package assets

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type countingStore struct {
	present map[string]bool
	calls   int
}

func (s *countingStore) Exists(_ context.Context, key string) (bool, error) {
	s.calls++
	return s.present[key], nil
}

func (s *countingStore) Open(_ context.Context, key string) (io.ReadCloser, Info, error) {
	return nil, Info{}, notFound(key)
}

func (s *countingStore) Driver() Driver { return DriverFilesystem }

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestCachedStore_RemembersAnswers(t *testing.T) {
	mr, client := newTestRedis(t)
	inner := &countingStore{present: map[string]bool{"Neu5Ac.PNG": true}}
	cached := NewCachedStore(inner, client, "images", time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := cached.Exists(ctx, "Neu5Ac.PNG")
		if err != nil || !ok {
			t.Fatalf("Exists(Neu5Ac.PNG) = %v, %v; want true, nil", ok, err)
		}
		ok, err = cached.Exists(ctx, "KDN.PNG")
		if err != nil || ok {
			t.Fatalf("Exists(KDN.PNG) = %v, %v; want false, nil", ok, err)
		}
	}
	if inner.calls != 2 {
		t.Errorf("expected 2 lookups on the wrapped store, got %d", inner.calls)
	}

	if got, err := mr.Get("asset:exists:images:Neu5Ac.PNG"); err != nil || got != "1" {
		t.Errorf("expected cached positive answer, got %q (%v)", got, err)
	}
	if ttl := mr.TTL("asset:exists:images:KDN.PNG"); ttl != time.Minute {
		t.Errorf("expected TTL of one minute, got %v", ttl)
	}
}

func TestCachedStore_ExpiryTriggersLookup(t *testing.T) {
	mr, client := newTestRedis(t)
	inner := &countingStore{present: map[string]bool{}}
	cached := NewCachedStore(inner, client, "images", time.Minute)
	ctx := context.Background()

	if ok, _ := cached.Exists(ctx, "Neu5Gc.PNG"); ok {
		t.Fatal("expected Neu5Gc.PNG to be missing initially")
	}
	inner.present["Neu5Gc.PNG"] = true
	mr.FastForward(2 * time.Minute)

	if ok, _ := cached.Exists(ctx, "Neu5Gc.PNG"); !ok {
		t.Fatal("expected Neu5Gc.PNG to be found once the cached answer expired")
	}
}

func TestCachedStore_RedisUnavailable(t *testing.T) {
	mr, client := newTestRedis(t)
	inner := &countingStore{present: map[string]bool{"KDN.PNG": true}}
	cached := NewCachedStore(inner, client, "images", time.Minute)
	mr.Close()

	ok, err := cached.Exists(context.Background(), "KDN.PNG")
	if err != nil {
		t.Fatalf("expected fallback without error, got %v", err)
	}
	if !ok {
		t.Fatal("expected fallback lookup to report the asset")
	}
}
