package cache

import (
	"context"
	"testing"

	"github.com/crimesight/crime-risk-service/internal/models"
)

func TestInMemoryCache_GetMissingKey(t *testing.T) {
	c := NewInMemoryCache()
	result, ok, err := c.Get(context.Background(), "absent")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if ok || result != nil {
		t.Errorf("Get(absent) = (%v, %v), want (nil, false)", result, ok)
	}
}

func TestInMemoryCache_SetThenGet(t *testing.T) {
	c := NewInMemoryCache()
	ctx := context.Background()
	value := &models.ForecastResult{
		Summary:  models.ForecastSummary{Avg: 0.42, Min: 0.1, Max: 0.9},
		Metadata: models.ForecastMetadata{StartDate: "2025-03-12", TotalSamples: 28},
	}

	if err := c.Set(ctx, "2025-03-12_-87.6298_41.8781_6", value); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, ok, err := c.Get(ctx, "2025-03-12_-87.6298_41.8781_6")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !ok {
		t.Fatal("Get() ok = false after Set")
	}
	if got != value {
		t.Error("Get() returned a different pointer; cached entries should be shared, not copied")
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestInMemoryCache_KeysAreIndependent(t *testing.T) {
	c := NewInMemoryCache()
	ctx := context.Background()
	a := &models.ForecastResult{Metadata: models.ForecastMetadata{HourInterval: 6}}
	b := &models.ForecastResult{Metadata: models.ForecastMetadata{HourInterval: 3}}

	c.Set(ctx, "key-a", a)
	c.Set(ctx, "key-b", b)

	got, ok, _ := c.Get(ctx, "key-a")
	if !ok || got.Metadata.HourInterval != 6 {
		t.Errorf("key-a = %+v, want interval 6 entry", got)
	}
	got, ok, _ = c.Get(ctx, "key-b")
	if !ok || got.Metadata.HourInterval != 3 {
		t.Errorf("key-b = %+v, want interval 3 entry", got)
	}
}
