package catalog

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestCacheRoundTrip(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = client.Close() }()

	cache := NewCache(client, time.Minute)
	ctx := context.Background()

	var missed Page
	hit, err := cache.GetJSON(ctx, "catalog:list:a", &missed)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if hit {
		t.Fatal("expected cache miss")
	}

	page := Page{Items: []Product{{Slug: "hi-vis-polo", Name: "Hi-Vis Polo", UnitPrice: "24.99"}}, Page: 1, PerPage: 20, TotalItems: 1}
	if err := cache.SetJSON(ctx, "catalog:list:a", page); err != nil {
		t.Fatalf("set: %v", err)
	}

	var got Page
	hit, err = cache.GetJSON(ctx, "catalog:list:a", &got)
	if err != nil {
		t.Fatalf("get after set: %v", err)
	}
	if !hit {
		t.Fatal("expected cache hit")
	}
	if len(got.Items) != 1 || got.Items[0].Slug != "hi-vis-polo" {
		t.Fatalf("unexpected cached payload: %+v", got)
	}
}

func TestCacheNilClientNoops(t *testing.T) {
	cache := NewCache(nil, time.Minute)
	ctx := context.Background()
	if err := cache.SetJSON(ctx, "k", "v"); err != nil {
		t.Fatalf("set with nil client: %v", err)
	}
	var out string
	hit, err := cache.GetJSON(ctx, "k", &out)
	if err != nil || hit {
		t.Fatalf("expected silent miss, got hit=%v err=%v", hit, err)
	}
}
