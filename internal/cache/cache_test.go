package cache

import (
	"testing"
	"time"
)

func TestKey_StableAndDistinct(t *testing.T) {
	k1 := Key("loc", "87654321")
	k2 := Key("loc", "87654321")
	if k1 != k2 {
		t.Errorf("expected stable keys, got %q and %q", k1, k2)
	}

	k3 := Key("wikipedia", "87654321")
	if k1 == k3 {
		t.Error("expected different sources to produce different keys")
	}

	k4 := Key("loc", "12345678")
	if k1 == k4 {
		t.Error("expected different requests to produce different keys")
	}
}

func TestDiskCache_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)

	key := Key("loc", "test")
	if err := c.Set(key, []byte("payload"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	val, found := c.Get(key)
	if !found {
		t.Fatal("expected cache hit")
	}
	if string(val) != "payload" {
		t.Errorf("unexpected value: %q", val)
	}
}

func TestDiskCache_Expiry(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)

	key := Key("loc", "expired")
	if err := c.Set(key, []byte("payload"), -time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if _, found := c.Get(key); found {
		t.Error("expected expired entry to miss")
	}
}

func TestLayeredCache_DiskPromotion(t *testing.T) {
	dir := t.TempDir()
	c := NewLayeredCache(time.Minute, dir, time.Hour)

	key := Key("wikipedia", "promotion")
	if err := c.Set(key, []byte("value"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	// Drop the memory layer; the disk layer should still serve the value
	// and promote it back.
	_ = c.memory.Clear()

	val, found := c.Get(key)
	if !found {
		t.Fatal("expected disk hit after memory clear")
	}
	if string(val) != "value" {
		t.Errorf("unexpected value: %q", val)
	}

	if _, found := c.memory.Get(key); !found {
		t.Error("expected disk hit to be promoted to memory")
	}
}

func TestNop(t *testing.T) {
	var c Cache = Nop{}
	if err := c.Set("k", []byte("v"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if _, found := c.Get("k"); found {
		t.Error("Nop cache should never hit")
	}
}
