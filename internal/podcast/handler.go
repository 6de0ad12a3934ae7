package podcast

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/tenmin/investcast/internal/telemetry/metrics"
	"github.com/tenmin/investcast/pkg"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	api     Api
	cache   *ListCache
	metrics *metrics.Manager
}

func NewHandler(
	api Api,
	cache *ListCache,
	metrics *metrics.Manager,
) *Handler {
	return &Handler{
		api:     api,
		cache:   cache,
		metrics: metrics,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router, sessionCheck mux.MiddlewareFunc) {
	router.HandleFunc("/podcasts", handler.handleList).Methods("GET", "OPTIONS")
	router.HandleFunc("/podcasts/latest", handler.handleLatest).Methods("GET", "OPTIONS")
	router.HandleFunc("/podcasts/{id}", handler.handleGet).Methods("GET", "OPTIONS")

	adminRouter := router.NewRoute().Subrouter()
	adminRouter.HandleFunc("/podcasts", handler.handleAdd).Methods("POST", "OPTIONS")
	adminRouter.HandleFunc("/podcasts/{id}", handler.handleUpdate).Methods("PUT", "OPTIONS")
	adminRouter.HandleFunc("/podcasts/{id}", handler.handleDelete).Methods("DELETE", "OPTIONS")
	adminRouter.Use(sessionCheck)
}

type podcastRequest struct {
	Title    string `json:"title"`
	Summary  string `json:"summary"`
	AudioURL string `json:"audio_url"`
	Duration int    `json:"duration"`
	FileSize int64  `json:"file_size"`
	FileName string `json:"file_name"`
}

func (handler *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "GET, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	if podcasts, ok := handler.cache.Get(r.Context()); ok {
		writeCatalog(w, podcasts)
		return
	}

	podcasts, err := handler.api.List(r.Context())
	if err != nil {
		log.Errorf("list podcasts error: %s", err)
		http.Error(w, "failed to get podcasts", http.StatusInternalServerError)
		return
	}

	if len(podcasts) == 0 {
		podcasts = []Podcast{}
	}

	handler.cache.Set(r.Context(), podcasts)

	writeCatalog(w, podcasts)
}

func (handler *Handler) handleLatest(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "GET, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	podcasts, ok := handler.cache.Get(r.Context())
	if !ok {
		var err error
		podcasts, err = handler.api.List(r.Context())
		if err != nil {
			log.Errorf("get latest podcast error: %s", err)
			http.Error(w, "failed to get latest podcast", http.StatusInternalServerError)
			return
		}
	}

	if len(podcasts) == 0 {
		http.Error(w, "no podcasts published yet", http.StatusNotFound)
		return
	}

	// catalog is ordered newest first
	pkg.SendJSON(w, http.StatusOK, podcasts[0])
}

func (handler *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "GET, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "error, id invalid", http.StatusBadRequest)
		return
	}

	podcast, err := handler.api.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrPodcastNotFound) {
			http.Error(w, "podcast not found", http.StatusNotFound)
			return
		}
		log.Errorf("get podcast %s error: %s", id, err)
		http.Error(w, "failed to get podcast", http.StatusInternalServerError)
		return
	}

	pkg.SendJSON(w, http.StatusOK, podcast)
}

func (handler *Handler) handleAdd(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	req, violations := decodePodcastRequest(r)
	if len(violations) > 0 {
		pkg.SendJSON(w, http.StatusBadRequest, map[string]any{"errors": violations})
		return
	}

	podcast := &Podcast{
		Title:    req.Title,
		Summary:  req.Summary,
		AudioURL: req.AudioURL,
		Duration: req.Duration,
		FileSize: req.FileSize,
		FileName: req.FileName,
	}

	addedPodcast, err := handler.api.Add(r.Context(), podcast)
	if err != nil {
		log.Errorf("failed to add podcast [%s]: %s", podcast.Title, err)
		http.Error(w, "error, failed to add podcast", http.StatusInternalServerError)
		return
	}

	handler.cache.Invalidate(r.Context())
	handler.metrics.CounterEpisodesPublished.Inc()

	log.Printf("new podcast added: [%s]: %s", addedPodcast.Title, addedPodcast.ID)
	pkg.SendJSON(w, http.StatusCreated, addedPodcast)
}

func (handler *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "PUT, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "error, id invalid", http.StatusBadRequest)
		return
	}

	req, violations := decodePodcastRequest(r)
	if len(violations) > 0 {
		pkg.SendJSON(w, http.StatusBadRequest, map[string]any{"errors": violations})
		return
	}

	podcast := &Podcast{
		ID:       id,
		Title:    req.Title,
		Summary:  req.Summary,
		AudioURL: req.AudioURL,
		Duration: req.Duration,
		FileSize: req.FileSize,
		FileName: req.FileName,
	}

	if err := handler.api.Update(r.Context(), podcast); err != nil {
		if errors.Is(err, ErrPodcastNotFound) {
			http.Error(w, "podcast not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to update podcast [%s]: %s", id, err)
		http.Error(w, "error, failed to update podcast", http.StatusInternalServerError)
		return
	}

	handler.cache.Invalidate(r.Context())

	log.Printf("podcast updated: [%s]: %s", podcast.Title, podcast.ID)
	pkg.WriteResponse(w, "", fmt.Sprintf("updated:%s", id), http.StatusOK)
}

func (handler *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "DELETE, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "error, id invalid", http.StatusBadRequest)
		return
	}

	if err := handler.api.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrPodcastNotFound) {
			http.Error(w, "podcast not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to delete podcast %s: %s", id, err)
		http.Error(w, "error, podcast not deleted, internal server error", http.StatusInternalServerError)
		return
	}

	handler.cache.Invalidate(r.Context())

	pkg.WriteResponse(w, "", fmt.Sprintf("deleted:%s", id), http.StatusOK)
}

func decodePodcastRequest(r *http.Request) (*podcastRequest, []string) {
	var req podcastRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, []string{"invalid request body"}
	}

	var violations []string
	if req.Title == "" {
		violations = append(violations, "title is required")
	}
	if req.AudioURL == "" {
		violations = append(violations, "audio url is required")
	} else if u, err := url.Parse(req.AudioURL); err != nil || u.Scheme == "" || u.Host == "" {
		violations = append(violations, "audio url is invalid")
	}
	if req.Duration <= 0 {
		violations = append(violations, "duration must be positive")
	}

	if len(violations) > 0 {
		return nil, violations
	}
	return &req, nil
}

func writeCatalog(w http.ResponseWriter, podcasts []Podcast) {
	podcastsJson, err := json.Marshal(podcasts)
	if err != nil {
		log.Errorf("marshal podcasts error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	resJson := fmt.Sprintf(`{"podcasts": %s, "total": %d}`, podcastsJson, len(podcasts))
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, []byte(resJson))
}
