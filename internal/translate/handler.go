package translate

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/2beens/newsroom/pkg"
)

// MaxTextLength bounds the text accepted by the endpoint, the upstream takes it in the query string.
const MaxTextLength = 10000

type textTranslator interface {
	Translate(ctx context.Context, text string, source, target Language) string
}

type Handler struct {
	translator textTranslator
}

func NewHandler(translator textTranslator) *Handler {
	return &Handler{
		translator: translator,
	}
}

func (h *Handler) SetupRoutes(router *mux.Router, rateLimit mux.MiddlewareFunc) {
	translateRouter := router.NewRoute().Subrouter()
	translateRouter.HandleFunc("/translate", h.handleTranslate).Methods("POST", "OPTIONS").Name("translate")
	if rateLimit != nil {
		translateRouter.Use(rateLimit)
	}
}

type translateRequest struct {
	Text   string `json:"text"`
	Source string `json:"source"`
	Target string `json:"target"`
}

type translateResponse struct {
	Translated string `json:"translated"`
}

func (h *Handler) handleTranslate(w http.ResponseWriter, r *http.Request) {
	var req translateRequest
	if !pkg.DecodeJSONBody(w, r, &req) {
		return
	}

	source, ok := ParseLanguage(req.Source)
	if !ok {
		pkg.WriteError(w, http.StatusBadRequest, "invalid source language")
		return
	}
	target, ok := ParseLanguage(req.Target)
	if !ok {
		pkg.WriteError(w, http.StatusBadRequest, "invalid target language")
		return
	}
	if len(req.Text) > MaxTextLength {
		pkg.WriteError(w, http.StatusBadRequest, "text is too long")
		return
	}

	pkg.WriteJSON(w, http.StatusOK, translateResponse{
		Translated: h.translator.Translate(r.Context(), req.Text, source, target),
	})
}
