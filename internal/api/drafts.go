package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/newskoo/recreator/internal/hermes"
	"github.com/newskoo/recreator/internal/recreation"
	"github.com/newskoo/recreator/internal/render"
	"github.com/newskoo/recreator/internal/store"
)

type draftView struct {
	store.Draft
	ContentHTML string `json:"content_html"`
}

func (s *Server) viewDraft(d store.Draft) draftView {
	out, err := render.Draft(d.Title, d.Content)
	if err != nil {
		s.logger.Warn("failed to render draft preview", "draft_id", d.ID, "error", err)
	}
	return draftView{Draft: d, ContentHTML: out}
}

type createDraftRequest struct {
	Concept       string `json:"concept"`
	Style         string `json:"style"`
	UseFewShot    *bool  `json:"use_few_shot"`
	Instructions  string `json:"instructions"`
	InspirationID string `json:"inspiration_id"`
}

func (s *Server) createDraft(w http.ResponseWriter, r *http.Request) {
	var req createDraftRequest
	if err := decode(w, r, &req, false); err != nil {
		s.writeError(w, err)
		return
	}

	v, err := s.rec.Recreate(r.Context(), recreation.Request{
		Concept:      req.Concept,
		Style:        req.Style,
		SkipExamples: req.UseFewShot != nil && !*req.UseFewShot,
		Instructions: req.Instructions,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	d := store.DraftFromVersion(req.InspirationID, req.Concept, v)
	if _, err := s.drafts.SaveDraft(r.Context(), d); err != nil {
		s.writeError(w, err)
		return
	}
	s.publish(hermes.SubjectDraftCreated, hermes.DraftEvent{
		EventID:    hermes.NewEventID(),
		DraftID:    d.ID.String(),
		Style:      d.Style,
		Revision:   d.Revision,
		Similarity: d.Similarity.Overall,
		IsFairUse:  d.IsFairUse,
		At:         time.Now().UTC(),
	})
	writeJSON(w, http.StatusCreated, s.viewDraft(d))
}

func (s *Server) getDraft(w http.ResponseWriter, r *http.Request) {
	id, ok := s.draftID(w, r)
	if !ok {
		return
	}
	d, err := s.drafts.GetDraft(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.viewDraft(d))
}

// listDrafts returns the drafts of one inspiration, oldest first.
func (s *Server) listDrafts(w http.ResponseWriter, r *http.Request) {
	inspirationID := strings.TrimSpace(r.URL.Query().Get("inspiration_id"))
	if inspirationID == "" {
		s.writeError(w, &recreation.ValidationError{Field: "inspiration_id", Reason: "query parameter is required"})
		return
	}
	drafts, err := s.drafts.ListDraftsByInspiration(r.Context(), inspirationID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := make([]draftView, 0, len(drafts))
	for _, d := range drafts {
		out = append(out, s.viewDraft(d))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"inspiration_id": inspirationID,
		"drafts":         out,
		"count":          len(out),
	})
}

type regenerateRequest struct {
	Style string `json:"style"`
}

func (s *Server) regenerateDraft(w http.ResponseWriter, r *http.Request) {
	id, ok := s.draftID(w, r)
	if !ok {
		return
	}
	var req regenerateRequest
	if err := decode(w, r, &req, true); err != nil {
		s.writeError(w, err)
		return
	}

	d, err := s.drafts.GetDraft(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	style := req.Style
	if style == "" {
		style = d.Style
	}

	v, err := s.rec.Recreate(r.Context(), recreation.Request{Concept: d.Concept, Style: style})
	if err != nil {
		s.writeError(w, err)
		return
	}
	updated, err := s.drafts.ReplaceContent(r.Context(), id, v)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.publish(hermes.SubjectDraftRevised, hermes.DraftEvent{
		EventID:    hermes.NewEventID(),
		DraftID:    updated.ID.String(),
		Style:      updated.Style,
		Revision:   updated.Revision,
		Similarity: updated.Similarity.Overall,
		IsFairUse:  updated.IsFairUse,
		At:         time.Now().UTC(),
	})
	writeJSON(w, http.StatusOK, s.viewDraft(updated))
}

func (s *Server) draftID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid draft id"})
		return uuid.Nil, false
	}
	return id, true
}
