package api

import (
	"time"

	"github.com/sanverite/blog-api/internal/post"
)

// FromPost converts a stored post to its wire form.
func FromPost(p post.Post) PostView {
	return PostView{ID: p.ID, Title: p.Title, Content: p.Content}
}

// FromPosts converts a slice of posts, always returning a non-nil slice so
// empty results encode as [] rather than null.
func FromPosts(ps []post.Post) []PostView {
	out := make([]PostView, 0, len(ps))
	for _, p := range ps {
		out = append(out, FromPost(p))
	}
	return out
}

// ToPatch converts an update body to a store patch.
func (r UpdatePostRequest) ToPatch() post.Patch {
	return post.Patch{Title: r.Title, Content: r.Content}
}

// newStatus builds the status payload from the server start time and store counters.
func newStatus(startedAt time.Time, posts int, nextID int64) StatusResponse {
	var started string
	var uptime int64
	if !startedAt.IsZero() {
		started = startedAt.UTC().Format(time.RFC3339)
		uptime = int64(TimeNow().Sub(startedAt).Seconds())
	}
	return StatusResponse{
		StartedAt:   started,
		UptimeSec:   uptime,
		Posts:       posts,
		NextID:      nextID,
		GeneratedAt: TimeNow().UTC().Format(time.RFC3339),
	}
}
