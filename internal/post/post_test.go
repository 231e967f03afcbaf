package post_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/sanverite/blog-api/internal/post"
)

func ids(posts []post.Post) []int64 {
	out := make([]int64, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.ID)
	}
	return out
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestStore_NextID(t *testing.T) {
	tests := []struct {
		name string
		seed []post.Post
		want int64
	}{
		{"empty", nil, 1},
		{"seeded", post.Seed(), 3},
		{"gap", []post.Post{{ID: 7}, {ID: 2}}, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := post.NewStore(tt.seed...)
			if got := s.NextID(); got != tt.want {
				t.Fatalf("NextID: got %d want %d", got, tt.want)
			}
		})
	}
}

func TestStore_CreateAfterDelete_UsesMaxPlusOne(t *testing.T) {
	s := post.NewStore(post.Seed()...)

	third := s.Create("Third", "Third post.")
	if third.ID != 3 {
		t.Fatalf("third id: got %d want 3", third.ID)
	}
	if _, err := s.Delete(1); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := ids(s.List()); !equalIDs(got, []int64{2, 3}) {
		t.Fatalf("ids after delete: got %v", got)
	}
	fourth := s.Create("Fourth", "x")
	if fourth.ID != 4 {
		t.Fatalf("fourth id: got %d want 4", fourth.ID)
	}
}

func TestStore_EmptyingResetsNumbering(t *testing.T) {
	s := post.NewStore(post.Seed()...)
	for _, id := range []int64{1, 2} {
		if _, err := s.Delete(id); err != nil {
			t.Fatalf("delete %d: %v", id, err)
		}
	}
	if s.Len() != 0 {
		t.Fatalf("expected empty store, got %d posts", s.Len())
	}
	if p := s.Create("again", "body"); p.ID != 1 {
		t.Fatalf("id after emptying: got %d want 1", p.ID)
	}
}

func TestStore_Update(t *testing.T) {
	s := post.NewStore(post.Seed()...)
	title := "Renamed"

	got, err := s.Update(1, post.Patch{Title: &title})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	want := post.Post{ID: 1, Title: "Renamed", Content: "This is the first post."}
	if got != want {
		t.Fatalf("updated post: got %+v want %+v", got, want)
	}
	stored, ok := s.FindByID(1)
	if !ok || stored != want {
		t.Fatalf("stored post: got %+v (found=%v) want %+v", stored, ok, want)
	}
}

func TestStore_UpdateEmptyPatch_NoChange(t *testing.T) {
	s := post.NewStore(post.Seed()...)
	before := s.List()

	got, err := s.Update(2, post.Patch{})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got != before[1] {
		t.Fatalf("empty patch changed post: got %+v want %+v", got, before[1])
	}
	after := s.List()
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("store changed at %d: %+v -> %+v", i, before[i], after[i])
		}
	}
}

func TestStore_UnknownID(t *testing.T) {
	s := post.NewStore(post.Seed()...)
	if _, err := s.Update(99, post.Patch{}); !errors.Is(err, post.ErrNotFound) {
		t.Fatalf("update: expected ErrNotFound, got %v", err)
	}
	if _, err := s.Delete(99); !errors.Is(err, post.ErrNotFound) {
		t.Fatalf("delete: expected ErrNotFound, got %v", err)
	}
	if _, ok := s.FindByID(99); ok {
		t.Fatal("FindByID: expected miss")
	}
}

func TestStore_RemoveFirstEqual(t *testing.T) {
	dup := post.Post{ID: 5, Title: "dup", Content: "dup"}
	s := post.NewStore(dup, post.Post{ID: 6, Title: "other"}, dup)

	if !s.Remove(dup) {
		t.Fatal("expected Remove to find the post")
	}
	if got := ids(s.List()); !equalIDs(got, []int64{6, 5}) {
		t.Fatalf("ids after remove: got %v want [6 5]", got)
	}
	if s.Remove(post.Post{ID: 6}) {
		t.Fatal("Remove matched a post that differs in title")
	}
}

func TestStore_ListReturnsCopy(t *testing.T) {
	s := post.NewStore(post.Seed()...)
	list := s.List()
	list[0].Title = "mutated"

	p, _ := s.FindByID(1)
	if p.Title != "First post" {
		t.Fatalf("List leaked internal storage: title=%q", p.Title)
	}
}

func TestStore_ConcurrentCreate_UniqueIDs(t *testing.T) {
	s := post.NewStore()
	const n = 50

	var wg sync.WaitGroup
	got := make(chan int64, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got <- s.Create("t", "c").ID
		}()
	}
	wg.Wait()
	close(got)

	seen := make(map[int64]bool, n)
	for id := range got {
		if seen[id] {
			t.Fatalf("duplicate id %d", id)
		}
		seen[id] = true
	}
	if len(seen) != n {
		t.Fatalf("expected %d ids, got %d", n, len(seen))
	}
}
