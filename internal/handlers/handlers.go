package handlers

import (
	"time"

	"github.com/gorilla/mux"

	"booru-bridge/internal/database"
	"booru-bridge/internal/mediatypes"
	"booru-bridge/internal/posts"
	"booru-bridge/internal/query"
	"booru-bridge/internal/thumbnail"
)

type Handlers struct {
	store    *database.Store
	posts    *posts.Service
	thumbs   *thumbnail.Generator
	resolver *mediatypes.Resolver
	compiler *query.Compiler

	startTime time.Time
}

func New(store *database.Store, svc *posts.Service, thumbs *thumbnail.Generator, resolver *mediatypes.Resolver, forcedQuery string) *Handlers {
	return &Handlers{
		store:     store,
		posts:     svc,
		thumbs:    thumbs,
		resolver:  resolver,
		compiler:  &query.Compiler{Forced: forcedQuery},
		startTime: time.Now(),
	}
}

// Register mounts the gallery API on r. Callers typically pass a
// subrouter already rooted at /api, which is where clients expect the
// contract to live.
func (h *Handlers) Register(r *mux.Router) {
	r.HandleFunc("/info", h.GetInfo).Methods("GET")
	r.HandleFunc("/tags/", h.SearchTags).Methods("GET")
	r.HandleFunc("/tag-categories", h.GetTagCategories).Methods("GET")
	r.HandleFunc("/posts/", h.SearchPosts).Methods("GET")
	r.HandleFunc("/post/{id:[0-9]+}", h.GetPost).Methods("GET")
	r.HandleFunc("/post/{id:[0-9]+}/around/", h.GetPostAround).Methods("GET")
	r.HandleFunc("/pools/", h.SearchPools).Methods("GET")
	r.HandleFunc("/pool/{id:[0-9]+}", h.GetPool).Methods("GET")
	r.HandleFunc("/pool-categories", h.GetPoolCategories).Methods("GET")
	r.HandleFunc("/_awtfdb_content/{id:[0-9]+}", h.GetContent).Methods("GET")
	r.HandleFunc("/_awtfdb_thumbnails/{id:[0-9]+}", h.GetThumbnail).Methods("GET")
}
