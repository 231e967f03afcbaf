package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sanverite/blog-api/internal/post"
)

const (
	msgBodyNotJSON      = "Request body must be JSON"
	msgMissingFields    = "Missing required fields"
	msgNoPosts          = "No posts yet"
	msgInvalidSort      = "Invalid sort field. Allowed values: "
	msgInvalidDirection = "Invalid sort direction. Allowed values: "
)

var errBodyNotObject = errors.New("body is not a non-empty JSON object")

// handleListPosts returns every post, optionally sorted.
//
//	@Summary	List posts
//	@Tags		posts
//	@Produce	json
//	@Param		sort		query	string	false	"Sort field"	Enums(title, content)
//	@Param		direction	query	string	false	"Sort direction"	Enums(asc, desc)
//	@Success	200	{array}		PostView
//	@Failure	400	{object}	APIError
//	@Router		/posts [get]
func (s *Server) handleListPosts(c echo.Context) error {
	if s.store.Len() == 0 {
		return c.JSON(http.StatusOK, NoPostsResponse{Success: false, Message: msgNoPosts})
	}

	field, err := post.ParseSortField(c.QueryParam("sort"))
	if err != nil {
		return writeError(c, http.StatusBadRequest, msgInvalidSort+joinValues(post.SortFields)+".")
	}
	dir, err := post.ParseDirection(c.QueryParam("direction"))
	if err != nil {
		return writeError(c, http.StatusBadRequest, msgInvalidDirection+joinValues(post.Directions)+".")
	}

	posts := s.store.Sorted(post.SortSpec{Field: field, Direction: dir})
	return c.JSON(http.StatusOK, FromPosts(posts))
}

// handleCreatePost adds a post with the next free id.
//
//	@Summary	Create a post
//	@Tags		posts
//	@Accept		json
//	@Produce	json
//	@Param		post	body		CreatePostRequest	true	"Title and content"
//	@Success	201		{object}	PostView
//	@Failure	400		{object}	APIError
//	@Router		/posts [post]
func (s *Server) handleCreatePost(c echo.Context) error {
	body, err := readObject(c.Request().Body)
	if err != nil {
		return writeError(c, http.StatusBadRequest, msgBodyNotJSON)
	}

	var req CreatePostRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return writeError(c, http.StatusBadRequest, fieldTypeMessage(err))
	}
	if err := c.Validate(&req); err != nil {
		if missing := missingFields(err); len(missing) > 0 {
			return writeError(c, http.StatusBadRequest, msgMissingFields, missing...)
		}
		return writeError(c, http.StatusBadRequest, err.Error())
	}

	p := s.store.Create(*req.Title, *req.Content)
	return c.JSON(http.StatusCreated, FromPost(p))
}

// handleUpdatePost changes the supplied fields of an existing post.
// An absent or empty JSON body (null, false, 0, "", [], {}) returns the post unchanged.
//
//	@Summary	Update a post
//	@Tags		posts
//	@Accept		json
//	@Produce	json
//	@Param		id		path		int					true	"Post id"
//	@Param		post	body		UpdatePostRequest	false	"Fields to change"
//	@Success	200		{object}	PostView
//	@Failure	400		{object}	APIError
//	@Failure	404		{object}	APIError
//	@Router		/posts/{id} [put]
func (s *Server) handleUpdatePost(c echo.Context) error {
	raw := c.Param("id")
	id, ok := parseID(raw)
	if !ok {
		return writeNotFound(c, raw)
	}
	current, ok := s.store.FindByID(id)
	if !ok {
		return writeNotFound(c, strconv.FormatInt(id, 10))
	}

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return writeError(c, http.StatusBadRequest, msgBodyNotJSON)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return c.JSON(http.StatusOK, FromPost(current))
	}
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return writeError(c, http.StatusBadRequest, msgBodyNotJSON)
	}
	if isEmptyJSON(doc) {
		return c.JSON(http.StatusOK, FromPost(current))
	}
	if _, ok := doc.(map[string]any); !ok {
		return writeError(c, http.StatusBadRequest, msgBodyNotJSON)
	}

	var req UpdatePostRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return writeError(c, http.StatusBadRequest, fieldTypeMessage(err))
	}

	updated, err := s.store.Update(id, req.ToPatch())
	if errors.Is(err, post.ErrNotFound) {
		return writeNotFound(c, strconv.FormatInt(id, 10))
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, FromPost(updated))
}

// handleDeletePost removes a post by id.
//
//	@Summary	Delete a post
//	@Tags		posts
//	@Produce	json
//	@Param		id	path		int	true	"Post id"
//	@Success	200	{object}	MessageResponse
//	@Failure	404	{object}	APIError
//	@Router		/posts/{id} [delete]
func (s *Server) handleDeletePost(c echo.Context) error {
	raw := c.Param("id")
	id, ok := parseID(raw)
	if !ok {
		return writeNotFound(c, raw)
	}
	if _, err := s.store.Delete(id); err != nil {
		if errors.Is(err, post.ErrNotFound) {
			return writeNotFound(c, strconv.FormatInt(id, 10))
		}
		return err
	}
	return c.JSON(http.StatusOK, MessageResponse{
		Message: fmt.Sprintf("Post with id %d has been deleted successfully.", id),
	})
}

// handleSearchPosts filters posts by case-insensitive title/content substrings.
//
//	@Summary	Search posts
//	@Tags		posts
//	@Produce	json
//	@Param		title	query	string	false	"Title substring"
//	@Param		content	query	string	false	"Content substring"
//	@Success	200	{array}	PostView
//	@Router		/posts/search [get]
func (s *Server) handleSearchPosts(c echo.Context) error {
	results := s.store.Search(post.Filter{
		Title:   c.QueryParam("title"),
		Content: c.QueryParam("content"),
	})
	return c.JSON(http.StatusOK, FromPosts(results))
}

func writeNotFound(c echo.Context, rawID string) error {
	return writeError(c, http.StatusNotFound, fmt.Sprintf("Post with id %s not found.", rawID))
}

// parseID accepts unsigned decimal ids only; a sign prefix is rejected.
func parseID(raw string) (int64, bool) {
	if raw == "" || raw[0] < '0' || raw[0] > '9' {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// readObject reads r and checks that it holds a non-empty JSON object.
func readObject(r io.Reader) ([]byte, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	fields, err := decodeObject(body)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errBodyNotObject
	}
	return body, nil
}

func decodeObject(body []byte) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		// literal null
		return nil, errBodyNotObject
	}
	return fields, nil
}

// isEmptyJSON reports whether a decoded JSON value carries nothing to apply.
func isEmptyJSON(v any) bool {
	switch v := v.(type) {
	case nil:
		return true
	case bool:
		return !v
	case float64:
		return v == 0
	case string:
		return v == ""
	case []any:
		return len(v) == 0
	case map[string]any:
		return len(v) == 0
	}
	return false
}

func fieldTypeMessage(err error) string {
	var te *json.UnmarshalTypeError
	if errors.As(err, &te) && te.Field != "" {
		return "Invalid field type: " + te.Field + "."
	}
	return msgBodyNotJSON
}

func joinValues[T ~string](vals []T) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
