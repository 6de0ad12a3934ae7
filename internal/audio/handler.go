package audio

import (
	"errors"
	"net/http"

	"github.com/tenmin/investcast/internal/telemetry/metrics"
	"github.com/tenmin/investcast/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	store   *Store
	metrics *metrics.Manager
}

func NewHandler(store *Store, metrics *metrics.Manager) *Handler {
	return &Handler{
		store:   store,
		metrics: metrics,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router, sessionCheck mux.MiddlewareFunc) {
	router.HandleFunc("/audio/{name}", handler.handleServe).Methods("GET", "OPTIONS")

	adminRouter := router.NewRoute().Subrouter()
	adminRouter.HandleFunc("/podcasts/audio", handler.handleUpload).Methods("POST", "OPTIONS")
	adminRouter.Use(sessionCheck)
}

func (handler *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	// headroom on top of the file cap covers the multipart boundary and part
	// headers, so an oversized file reaches the size check and gets a 413
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize+1<<20)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		log.Errorf("audio upload failed, parse multipart form: %s", err)
		http.Error(w, "error, malformed upload", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		log.Errorf("audio upload failed, form file: %s", err)
		http.Error(w, "error, audio file missing", http.StatusBadRequest)
		return
	}
	defer file.Close()

	saved, err := handler.store.Save(r.Context(), header.Filename, header.Size, file)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnsupportedFormat):
			http.Error(w, "error, unsupported audio format", http.StatusBadRequest)
		case errors.Is(err, ErrFileTooLarge):
			http.Error(w, "error, audio file too large", http.StatusRequestEntityTooLarge)
		default:
			log.Errorf("audio upload failed, save [%s]: %s", header.Filename, err)
			http.Error(w, "error, failed to save audio file", http.StatusInternalServerError)
		}
		return
	}

	handler.metrics.CounterAudioUploads.Inc()

	log.Printf("new audio file uploaded: %s [%d bytes]", saved.FileName, saved.Size)
	pkg.SendJSON(w, http.StatusCreated, saved)
}

func (handler *Handler) handleServe(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "GET, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	name := mux.Vars(r)["name"]

	filePath, err := handler.store.FilePath(name)
	if err != nil {
		http.Error(w, "audio file not found", http.StatusNotFound)
		return
	}

	if contentType, ok := ContentTypeFor(name); ok {
		w.Header().Set("Content-Type", contentType)
	}
	http.ServeFile(w, r, filePath)
}
