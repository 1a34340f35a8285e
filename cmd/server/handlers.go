package main

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/amatsuka/notion-blog/pkg/notionblog"
)

// ContentHandler serves the normalized content set as JSON for the rendering
// layer and for local preview.
type ContentHandler struct {
	svc    notionblog.Service
	logger *slog.Logger
}

// NewContentHandler creates a content handler.
func NewContentHandler(svc notionblog.Service, logger *slog.Logger) *ContentHandler {
	return &ContentHandler{svc: svc, logger: logger}
}

// Routes returns the content routes.
func (h *ContentHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/posts", h.ListPosts)
	r.Get("/posts/{slug}", h.GetPost)
	r.Get("/posts/{slug}/toc", h.GetPostTOC)
	r.Get("/friends", h.ListFriends)
	r.Get("/friends/{name}", h.GetFriend)
	r.Get("/seo/{slug}", h.GetPostMeta)

	return r
}

// ListPosts returns the published post set. Optional query parameters
// category, tag, featured, and limit select the derived views.
func (h *ContentHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		posts []*notionblog.Post
		err   error
	)
	q := r.URL.Query()
	switch {
	case q.Get("category") != "":
		posts, err = h.svc.GetPostsByCategory(ctx, q.Get("category"))
	case q.Get("tag") != "":
		posts, err = h.svc.GetPostsByTag(ctx, q.Get("tag"))
	case q.Get("featured") == "true":
		posts, err = h.svc.GetFeaturedPosts(ctx)
	case q.Get("limit") != "":
		n, convErr := strconv.Atoi(q.Get("limit"))
		if convErr != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "limit must be an integer"})
			return
		}
		posts, err = h.svc.GetRecentPosts(ctx, n)
	default:
		posts, err = h.svc.GetAllPosts(ctx)
	}
	if err != nil {
		h.remoteError(w, r, err)
		return
	}

	render.JSON(w, r, posts)
}

// GetPost returns one published post by slug.
func (h *ContentHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	post, err := h.svc.GetPostBySlug(r.Context(), slug, true)
	if err != nil {
		if errors.Is(err, notionblog.ErrPostNotFound) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, map[string]string{"error": "post not found"})
			return
		}
		h.remoteError(w, r, err)
		return
	}

	render.JSON(w, r, post)
}

// GetPostTOC returns the generated outline for one published post.
func (h *ContentHandler) GetPostTOC(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := chi.URLParam(r, "slug")

	post, err := h.svc.GetPostBySlug(ctx, slug, true)
	if err != nil {
		if errors.Is(err, notionblog.ErrPostNotFound) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, map[string]string{"error": "post not found"})
			return
		}
		h.remoteError(w, r, err)
		return
	}

	toc, err := h.svc.TableOfContents(ctx, post.ID, true)
	if err != nil {
		h.remoteError(w, r, err)
		return
	}

	minutes, err := h.svc.ReadingTime(ctx, post.ID, true)
	if err != nil {
		h.remoteError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]any{
		"toc":          toc,
		"reading_time": minutes,
	})
}

// ListFriends returns the active friend links.
func (h *ContentHandler) ListFriends(w http.ResponseWriter, r *http.Request) {
	friends, err := h.svc.GetAllFriends(r.Context())
	if err != nil {
		h.remoteError(w, r, err)
		return
	}
	render.JSON(w, r, friends)
}

// GetFriend returns one active friend link by name.
func (h *ContentHandler) GetFriend(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	friend, err := h.svc.GetFriendByName(r.Context(), name)
	if err != nil {
		if errors.Is(err, notionblog.ErrFriendNotFound) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, map[string]string{"error": "friend not found"})
			return
		}
		h.remoteError(w, r, err)
		return
	}

	render.JSON(w, r, friend)
}

// GetPostMeta returns the assembled SEO metadata for one published post.
func (h *ContentHandler) GetPostMeta(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	post, err := h.svc.GetPostBySlug(r.Context(), slug, true)
	if err != nil {
		if errors.Is(err, notionblog.ErrPostNotFound) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, map[string]string{"error": "post not found"})
			return
		}
		h.remoteError(w, r, err)
		return
	}

	render.JSON(w, r, h.svc.PostMeta(post))
}

func (h *ContentHandler) remoteError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("remote content fetch failed", "path", r.URL.Path, "error", err)
	render.Status(r, http.StatusBadGateway)
	render.JSON(w, r, map[string]string{"error": "upstream content service unavailable"})
}
