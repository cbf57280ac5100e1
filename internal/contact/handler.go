package contact

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/newsroom/internal/mail"
	"github.com/2beens/newsroom/pkg"
)

const (
	DefaultRecentLimit = 50
	MaxRecentLimit     = 200
)

type messagesRepo interface {
	Save(ctx context.Context, m *Message) error
	Recent(ctx context.Context, limit int) ([]*Message, error)
}

type Handler struct {
	repo   messagesRepo
	sender mail.Sender
	inbox  string
}

// NewHandler builds the contact handler. A nil sender means mail is not configured,
// the form is then refused since nobody would read it.
func NewHandler(repo messagesRepo, sender mail.Sender, inbox string) *Handler {
	return &Handler{
		repo:   repo,
		sender: sender,
		inbox:  inbox,
	}
}

type RouteMiddlewares struct {
	Guard     mux.MiddlewareFunc
	RateLimit mux.MiddlewareFunc
}

func (h *Handler) SetupRoutes(router *mux.Router, mw RouteMiddlewares) {
	formRouter := router.NewRoute().Subrouter()
	formRouter.HandleFunc("/contact", h.handleSend).Methods("POST", "OPTIONS").Name("contact")
	if mw.RateLimit != nil {
		formRouter.Use(mw.RateLimit)
	}

	adminRouter := router.NewRoute().Subrouter()
	adminRouter.HandleFunc("/contact/messages", h.handleRecent).Methods("GET", "OPTIONS").Name("contact-messages")
	adminRouter.Use(mw.Guard)
}

type sendRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type sendResponse struct {
	Success bool `json:"success"`
}

func (h *Handler) handleSend(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if !pkg.DecodeJSONBody(w, r, &req) {
		return
	}

	msg := &Message{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	}
	if err := msg.normalize(); err != nil {
		pkg.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if h.sender == nil || h.inbox == "" {
		log.Errorln("contact: email transport is not configured")
		pkg.WriteError(w, http.StatusInternalServerError, "Email service is not configured on the server.")
		return
	}

	if ip := pkg.ReadUserIP(r); ip != "" {
		msg.IPAddress = &ip
	}
	if err := h.repo.Save(r.Context(), msg); err != nil {
		// the mail still goes out, the inbox is the primary record
		log.Errorf("contact: save message from %s: %s", msg.Email, err)
	}

	mailMsg, err := mail.ContactMessage(h.inbox, msg.form())
	if err != nil {
		log.Errorf("contact: build mail: %s", err)
		pkg.WriteError(w, http.StatusInternalServerError, "Failed to send contact message.")
		return
	}
	if err := h.sender.Send(r.Context(), mailMsg); err != nil {
		log.Errorf("contact: send mail: %s", err)
		pkg.WriteError(w, http.StatusInternalServerError, "Failed to send contact message.")
		return
	}

	log.Debugf("contact: message %d from %s delivered", msg.ID, msg.Email)
	pkg.WriteJSON(w, http.StatusOK, sendResponse{Success: true})
}

func (h *Handler) handleRecent(w http.ResponseWriter, r *http.Request) {
	limit := pkg.QueryInt(r, "limit", DefaultRecentLimit)
	if limit <= 0 || limit > MaxRecentLimit {
		limit = DefaultRecentLimit
	}
	messages, err := h.repo.Recent(r.Context(), limit)
	if err != nil {
		log.Errorf("contact: recent messages: %s", err)
		pkg.WriteError(w, http.StatusInternalServerError, "Failed to get messages")
		return
	}
	pkg.WriteJSON(w, http.StatusOK, messages)
}
