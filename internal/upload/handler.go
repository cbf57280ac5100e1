package upload

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/newsroom/pkg"
)

const (
	MaxFileSize = 50 << 20
	// room for the multipart envelope around the file
	maxRequestSize = MaxFileSize + 1<<20
	maxMemory      = 32 << 20
	formField      = "file"
)

type fileStore interface {
	Save(ctx context.Context, ext string, content io.Reader) (string, int64, error)
	Dir() string
}

type Handler struct {
	store   fileStore
	apiBase string
}

func NewHandler(store fileStore, apiBase string) *Handler {
	return &Handler{
		store:   store,
		apiBase: strings.TrimSuffix(apiBase, "/"),
	}
}

type Response struct {
	Filename     string `json:"filename"`
	OriginalName string `json:"originalname"`
	MimeType     string `json:"mimetype"`
	Size         int64  `json:"size"`
	URL          string `json:"url"`
}

func (h *Handler) SetupRoutes(router *mux.Router, guard mux.MiddlewareFunc) {
	uploadRouter := router.NewRoute().Subrouter()
	uploadRouter.HandleFunc("/upload", h.handleUpload).Methods("POST", "OPTIONS").Name("upload")
	uploadRouter.Use(guard)

	files := http.StripPrefix("/uploads/", http.FileServer(http.Dir(h.store.Dir())))
	router.PathPrefix("/uploads/").Handler(noDirListing(files)).Methods("GET", "HEAD").Name("uploads")
}

func noDirListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("X-Content-Type-Options", "nosniff")
		next.ServeHTTP(w, r)
	})
}

// allowedType reports whether the upload is an image or a video. SVG is refused,
// it can carry scripts and is served from the API origin.
func allowedType(mimeType string) bool {
	mimeType = strings.ToLower(mimeType)
	if strings.HasPrefix(mimeType, "image/svg") {
		return false
	}
	return strings.HasPrefix(mimeType, "image/") || strings.HasPrefix(mimeType, "video/")
}

// detectType sniffs the content, the part header and the file name are ignored.
// The returned extension is the one stored files are served under.
func detectType(file multipart.File) (mimeType string, ext string, err error) {
	detected, err := mimetype.DetectReader(file)
	if err != nil {
		return "", "", err
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", "", err
	}
	mimeType, _, _ = strings.Cut(detected.String(), ";")
	return mimeType, detected.Extension(), nil
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestSize)
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			pkg.WriteError(w, http.StatusRequestEntityTooLarge, "File too large, the limit is 50MB")
			return
		}
		log.Tracef("upload, parse multipart form: %s", err)
		pkg.WriteError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			log.Errorf("upload, remove multipart temp files: %s", err)
		}
	}()

	file, header, err := r.FormFile(formField)
	if err != nil {
		pkg.WriteError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	if header.Size > MaxFileSize {
		pkg.WriteError(w, http.StatusRequestEntityTooLarge, "File too large, the limit is 50MB")
		return
	}

	mimeType, ext, err := detectType(file)
	if err != nil {
		log.Errorf("upload, detect type of [%s]: %s", header.Filename, err)
		pkg.WriteError(w, http.StatusInternalServerError, "Failed to read file")
		return
	}
	if !allowedType(mimeType) {
		log.Debugf("upload, refused [%s] declared as [%s], sniffed [%s]", header.Filename, header.Header.Get("Content-Type"), mimeType)
		pkg.WriteError(w, http.StatusBadRequest, "Only image and video files are allowed")
		return
	}

	name, size, err := h.store.Save(r.Context(), ext, file)
	if err != nil {
		log.Errorf("upload, save [%s]: %s", header.Filename, err)
		pkg.WriteError(w, http.StatusInternalServerError, "Failed to store file")
		return
	}

	pkg.WriteJSON(w, http.StatusCreated, Response{
		Filename:     name,
		OriginalName: header.Filename,
		MimeType:     mimeType,
		Size:         size,
		URL:          h.apiBase + "/uploads/" + name,
	})
}
