package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/plugfox/foxy-archive-server/api"
	"github.com/plugfox/foxy-archive-server/internal/model"
)

// DocumentFinder reads archived documents by message id.
type DocumentFinder interface {
	FindDocument(ctx context.Context, id model.MessageID) (*model.Document, error)
}

type messageResponse struct {
	Document     *model.Document `json:"document"`
	PossibleGaps []int           `json:"possible_gaps"`
}

// AddMessageLookup serves GET /admin/messages/{id} and POST /admin/messages/lookup.
// Without a secret there is no admin group and nothing is registered.
func (srv *Server) AddMessageLookup(finder DocumentFinder) {
	if srv.admin == nil {
		return
	}
	srv.admin.Get("/admin/messages/{id}", messageRoute(finder, srv.logger))
	srv.admin.Post("/admin/messages/lookup", lookupRoute(finder, srv.logger))
}

func messageRoute(finder DocumentFinder, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := model.MessageID(chi.URLParam(r, "id"))
		if id == "" {
			api.NewResponse().SetError("bad_request", "Message id is required").BadRequest(w)

			return
		}

		doc, err := finder.FindDocument(r.Context(), id)
		if err != nil {
			logger.ErrorContext(r.Context(), "Cannot read archived message", slog.String("message_id", id.ToString()), slog.String("error", err.Error()))
			api.NewResponse().SetError("storage_error", "Cannot read archived message").InternalServerError(w)

			return
		}
		if doc == nil {
			api.NewResponse().SetError("not_found", "Message is not archived", map[string]string{"id": id.ToString()}).NotFound(w)

			return
		}

		api.NewResponse().SetData(newMessageResponse(doc, logger, r)).Ok(w)
	}
}

type lookupRequest struct {
	IDs []model.MessageID `json:"ids"`
}

// Upper bound of ids in one batch lookup.
const maxLookupIDs = 100

// Batch variant of the message route: POST {"ids": [...]}, missing ids are
// reported separately.
func lookupRoute(finder DocumentFinder, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req lookupRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			api.NewResponse().SetError("bad_request", err.Error()).BadRequest(w)

			return
		}
		if len(req.IDs) == 0 || len(req.IDs) > maxLookupIDs {
			api.NewResponse().SetError("bad_request", fmt.Sprintf("Between 1 and %d ids are required", maxLookupIDs)).BadRequest(w)

			return
		}

		found := make([]messageResponse, 0, len(req.IDs))
		missing := make([]model.MessageID, 0)
		for _, id := range req.IDs {
			doc, err := finder.FindDocument(r.Context(), id)
			if err != nil {
				logger.ErrorContext(r.Context(), "Cannot read archived message", slog.String("message_id", id.ToString()), slog.String("error", err.Error()))
				api.NewResponse().SetError("storage_error", "Cannot read archived message").InternalServerError(w)

				return
			}
			if doc == nil {
				missing = append(missing, id)
				continue
			}
			found = append(found, newMessageResponse(doc, logger, r))
		}

		api.NewResponse().SetData(map[string]any{
			"messages": found,
			"missing":  missing,
		}).Ok(w)
	}
}

func newMessageResponse(doc *model.Document, logger *slog.Logger, r *http.Request) messageResponse {
	gaps := []int{}
	if record, err := model.Decode(doc); err == nil {
		if iterations, err := model.Iterations(record); err == nil {
			gaps = model.PossibleGaps(iterations)
		}
	} else {
		logger.WarnContext(r.Context(), "Archived message does not decode", slog.String("message_id", doc.ID), slog.String("error", err.Error()))
	}
	return messageResponse{Document: doc, PossibleGaps: gaps}
}
