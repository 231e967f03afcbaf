package post

import (
	"cmp"
	"errors"
	"slices"
	"strings"
)

// SortField names a post field that listings may be ordered by.
type SortField string

const (
	SortNone    SortField = ""
	SortTitle   SortField = "title"
	SortContent SortField = "content"
)

// Direction is the ordering applied to a sorted listing.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

var (
	ErrInvalidSortField = errors.New("invalid sort field")
	ErrInvalidDirection = errors.New("invalid sort direction")
)

// SortFields lists the accepted sort fields in their documented order.
var SortFields = []SortField{SortTitle, SortContent}

// Directions lists the accepted directions in their documented order.
var Directions = []Direction{Asc, Desc}

// ParseSortField validates a raw sort parameter. An empty value means no sort.
func ParseSortField(raw string) (SortField, error) {
	f := SortField(raw)
	if f == SortNone || slices.Contains(SortFields, f) {
		return f, nil
	}
	return SortNone, ErrInvalidSortField
}

// ParseDirection validates a raw direction parameter. An empty value means Asc.
func ParseDirection(raw string) (Direction, error) {
	if raw == "" {
		return Asc, nil
	}
	d := Direction(raw)
	if slices.Contains(Directions, d) {
		return d, nil
	}
	return "", ErrInvalidDirection
}

// SortSpec selects the field and direction for Sorted.
type SortSpec struct {
	Field     SortField
	Direction Direction
}

func (f SortField) value(p Post) string {
	if f == SortContent {
		return p.Content
	}
	return p.Title
}

// Sort orders posts in place, comparing the chosen field case-insensitively.
// Equal keys keep their relative order in both directions.
func Sort(posts []Post, spec SortSpec) {
	if spec.Field == SortNone {
		return
	}
	slices.SortStableFunc(posts, func(a, b Post) int {
		c := cmp.Compare(strings.ToLower(spec.Field.value(a)), strings.ToLower(spec.Field.value(b)))
		if spec.Direction == Desc {
			return -c
		}
		return c
	})
}

// Sorted returns a copy of the collection ordered by spec.
// A spec without a field yields insertion order.
func (s *Store) Sorted(spec SortSpec) []Post {
	out := s.List()
	Sort(out, spec)
	return out
}

// Filter holds case-insensitive substring filters. Empty fields match everything.
type Filter struct {
	Title   string
	Content string
}

// Match reports whether p satisfies every non-empty filter field.
func (f Filter) Match(p Post) bool {
	if f.Title != "" && !containsFold(p.Title, f.Title) {
		return false
	}
	if f.Content != "" && !containsFold(p.Content, f.Content) {
		return false
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// Search returns the posts matching f, in insertion order. The result is never nil.
func (s *Store) Search(f Filter) []Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Post, 0, len(s.posts))
	for _, p := range s.posts {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out
}
