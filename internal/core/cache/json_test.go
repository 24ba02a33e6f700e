package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

type widget struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestGetOrLoadJSONPopulatesOnMiss(t *testing.T) {
	ctx := context.Background()
	l := NewLoader(NewMemory(16, time.Minute))

	loads := 0
	load := func(ctx context.Context) (*widget, error) {
		loads++
		return &widget{ID: "w1", Name: "gear"}, nil
	}

	got, err := GetOrLoadJSON(l, ctx, "widgets", "w1", time.Minute, load)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.Name != "gear" {
		t.Fatalf("got %+v", got)
	}

	// second read must come from cache
	got, err = GetOrLoadJSON(l, ctx, "widgets", "w1", time.Minute, load)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.Name != "gear" {
		t.Fatalf("got %+v", got)
	}
	if loads != 1 {
		t.Fatalf("loads = %d, want 1", loads)
	}
}

func TestGetOrLoadJSONCachesNotFound(t *testing.T) {
	ctx := context.Background()
	l := NewLoader(NewMemory(16, time.Minute))

	loads := 0
	load := func(ctx context.Context) (*widget, error) {
		loads++
		return nil, nil
	}

	for i := 0; i < 2; i++ {
		got, err := GetOrLoadJSON(l, ctx, "widgets", "missing", time.Minute, load)
		if err != nil {
			t.Fatal(err)
		}
		if got != nil {
			t.Fatalf("got %+v, want nil", got)
		}
	}
	if loads != 1 {
		t.Fatalf("loads = %d, want 1 (null must be cached)", loads)
	}
}

func TestGetOrLoadJSONPropagatesLoadError(t *testing.T) {
	ctx := context.Background()
	l := NewLoader(NewMemory(16, time.Minute))

	boom := errors.New("db down")
	_, err := GetOrLoadJSON(l, ctx, "widgets", "w1", time.Minute, func(ctx context.Context) (*widget, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}

	// the failure must not be cached
	got, err := GetOrLoadJSON(l, ctx, "widgets", "w1", time.Minute, func(ctx context.Context) (*widget, error) {
		return &widget{ID: "w1"}, nil
	})
	if err != nil || got == nil {
		t.Fatalf("got %+v err=%v", got, err)
	}
}

func TestGetOrLoadJSONSlice(t *testing.T) {
	ctx := context.Background()
	l := NewLoader(NewMemory(16, time.Minute))

	loads := 0
	load := func(ctx context.Context) ([]widget, error) {
		loads++
		return []widget{{ID: "a"}, {ID: "b"}}, nil
	}
	for i := 0; i < 2; i++ {
		got, err := GetOrLoadJSON(l, ctx, "widgets", "all", time.Minute, load)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 2 {
			t.Fatalf("len = %d", len(got))
		}
	}
	if loads != 1 {
		t.Fatalf("loads = %d, want 1", loads)
	}
}

func TestPutJSONOverwritesEntry(t *testing.T) {
	ctx := context.Background()
	store := NewMemory(16, time.Minute)
	l := NewLoader(store)

	if err := PutJSON(ctx, store, "widgets", "w1", &widget{ID: "w1", Name: "old"}, time.Minute); err != nil {
		t.Fatal(err)
	}
	if err := PutJSON(ctx, store, "widgets", "w1", &widget{ID: "w1", Name: "new"}, time.Minute); err != nil {
		t.Fatal(err)
	}

	got, err := GetOrLoadJSON(l, ctx, "widgets", "w1", time.Minute, func(ctx context.Context) (*widget, error) {
		t.Fatal("load must not run on a hit")
		return nil, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "new" {
		t.Fatalf("got %q, want overwritten value", got.Name)
	}
}
