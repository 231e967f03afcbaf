package post

import (
	"errors"
	"sync"
)

// Post is a single blog entry.
type Post struct {
	ID      int64
	Title   string
	Content string
}

// Patch carries the fields an update should change. Nil fields are left untouched.
type Patch struct {
	Title   *string
	Content *string
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Title == nil && p.Content == nil
}

// ErrNotFound is returned when no post carries the requested id.
var ErrNotFound = errors.New("post not found")

// Seed returns the posts present at startup before any client mutation.
func Seed() []Post {
	return []Post{
		{ID: 1, Title: "First post", Content: "This is the first post."},
		{ID: 2, Title: "Second post", Content: "This is the second post."},
	}
}

// Store holds posts in insertion order.
// Use the provided methods; callers never see the underlying slice.
type Store struct {
	mu    sync.RWMutex
	posts []Post
}

// NewStore returns a store pre-populated with seed, in the given order.
func NewStore(seed ...Post) *Store {
	return &Store{posts: append([]Post(nil), seed...)}
}

// List returns a copy of all posts in insertion order.
func (s *Store) List() []Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Post{}, s.posts...)
}

// Len returns the number of stored posts.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.posts)
}

// NextID returns the id the next created post would receive.
func (s *Store) NextID() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nextIDLocked()
}

func (s *Store) nextIDLocked() int64 {
	if len(s.posts) == 0 {
		return 1
	}
	maxID := s.posts[0].ID
	for _, p := range s.posts[1:] {
		if p.ID > maxID {
			maxID = p.ID
		}
	}
	return maxID + 1
}

// FindByID returns the post with the given id.
func (s *Store) FindByID(id int64) (Post, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexLocked(id)
	if i < 0 {
		return Post{}, false
	}
	return s.posts[i], true
}

func (s *Store) indexLocked(id int64) int {
	for i, p := range s.posts {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// Add appends p as-is. The caller is responsible for its id.
func (s *Store) Add(p Post) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts = append(s.posts, p)
}

// Remove deletes the first post equal to p and reports whether one was found.
func (s *Store) Remove(p Post) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeLocked(p)
}

func (s *Store) removeLocked(p Post) bool {
	for i, q := range s.posts {
		if q == p {
			s.posts = append(s.posts[:i], s.posts[i+1:]...)
			return true
		}
	}
	return false
}

// Create assigns the next id to a new post, appends it and returns it.
func (s *Store) Create(title, content string) Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := Post{ID: s.nextIDLocked(), Title: title, Content: content}
	s.posts = append(s.posts, p)
	return p
}

// Update applies patch to the post with the given id and returns the result.
// An empty patch returns the post unchanged.
func (s *Store) Update(id int64, patch Patch) (Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return Post{}, ErrNotFound
	}
	p := &s.posts[i]
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Content != nil {
		p.Content = *patch.Content
	}
	return *p, nil
}

// Delete removes the post with the given id and returns what was removed.
func (s *Store) Delete(id int64) (Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return Post{}, ErrNotFound
	}
	p := s.posts[i]
	s.removeLocked(p)
	return p, nil
}
