package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/newskoo/recreator/internal/fairuse"
	"github.com/newskoo/recreator/internal/hermes"
	"github.com/newskoo/recreator/internal/recreation"
	"github.com/newskoo/recreator/internal/render"
)

const (
	defaultVersionCount = 3
	defaultTitleCount   = 3
)

// versionView adds an HTML preview to a generated version.
type versionView struct {
	recreation.GeneratedVersion
	ContentHTML string `json:"content_html"`
}

func (s *Server) viewVersion(v recreation.GeneratedVersion) versionView {
	return versionView{GeneratedVersion: v, ContentHTML: s.html(v.Content)}
}

func (s *Server) html(markdown string) string {
	out, err := render.HTML(markdown)
	if err != nil {
		s.logger.Warn("failed to render preview", "error", err)
		return ""
	}
	return out
}

type generateVersionsRequest struct {
	Concept string   `json:"concept"`
	Styles  []string `json:"styles"`
	Count   *int     `json:"count"`
}

func (s *Server) generateVersions(w http.ResponseWriter, r *http.Request) {
	var req generateVersionsRequest
	if err := decode(w, r, &req, false); err != nil {
		s.writeError(w, err)
		return
	}
	count := defaultVersionCount
	if req.Count != nil {
		count = *req.Count
	}

	versions, err := s.rec.GenerateMultipleVersions(r.Context(), req.Concept, req.Styles, count)
	if err != nil {
		s.writeError(w, err)
		return
	}

	views := make([]versionView, 0, len(versions))
	summaries := make([]hermes.VersionSummary, 0, len(versions))
	for _, v := range versions {
		views = append(views, s.viewVersion(v))
		summaries = append(summaries, hermes.VersionSummary{
			ID:         v.ID.String(),
			Style:      string(v.Style),
			Title:      v.Title,
			Similarity: v.Similarity.Overall,
			IsFairUse:  v.IsFairUse,
		})
	}
	s.publish(hermes.SubjectVersionsGenerated, hermes.VersionsGenerated{
		EventID:     hermes.NewEventID(),
		Requested:   count,
		Versions:    summaries,
		GeneratedAt: time.Now().UTC(),
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"versions": views,
		"count":    len(views),
	})
}

type improveRequest struct {
	Paragraph string `json:"paragraph"`
	Goal      string `json:"goal"`
	Style     string `json:"style"`
}

func (s *Server) improveParagraph(w http.ResponseWriter, r *http.Request) {
	var req improveRequest
	if err := decode(w, r, &req, false); err != nil {
		s.writeError(w, err)
		return
	}

	res, err := s.rec.ImproveParagraph(r.Context(), req.Paragraph, req.Goal, req.Style)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type titlesRequest struct {
	Content string `json:"content"`
	Style   string `json:"style"`
	Count   *int   `json:"count"`
}

func (s *Server) generateTitles(w http.ResponseWriter, r *http.Request) {
	var req titlesRequest
	if err := decode(w, r, &req, false); err != nil {
		s.writeError(w, err)
		return
	}
	count := defaultTitleCount
	if req.Count != nil {
		count = *req.Count
	}

	titles, err := s.rec.GenerateTitle(r.Context(), req.Content, req.Style, count)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"titles": titles,
		"count":  len(titles),
	})
}

type similarityRequest struct {
	Original  string   `json:"original"`
	Generated string   `json:"generated"`
	Threshold *float64 `json:"threshold"`
}

type similarityResponse struct {
	fairuse.Verdict
	Report string `json:"report"`
}

func (s *Server) checkSimilarity(w http.ResponseWriter, r *http.Request) {
	var req similarityRequest
	if err := decode(w, r, &req, false); err != nil {
		s.writeError(w, err)
		return
	}
	switch {
	case strings.TrimSpace(req.Original) == "":
		s.writeError(w, &recreation.ValidationError{Field: "original", Reason: "must not be empty"})
		return
	case strings.TrimSpace(req.Generated) == "":
		s.writeError(w, &recreation.ValidationError{Field: "generated", Reason: "must not be empty"})
		return
	}
	threshold := s.rec.Threshold()
	if req.Threshold != nil {
		threshold = *req.Threshold
	}

	v, err := s.rec.CheckFairUse(req.Original, req.Generated, threshold)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.publish(hermes.SubjectFairUseChecked, hermes.FairUseChecked{
		EventID:   hermes.NewEventID(),
		Overall:   v.OverallSimilarity,
		Threshold: threshold,
		IsFairUse: v.IsFairUse,
		CheckedAt: time.Now().UTC(),
	})
	writeJSON(w, http.StatusOK, similarityResponse{Verdict: v, Report: fairuse.Report(v)})
}

type similarityPair struct {
	Original  string `json:"original"`
	Generated string `json:"generated"`
}

type similarityBatchRequest struct {
	Pairs     []similarityPair `json:"pairs"`
	Threshold *float64         `json:"threshold"`
}

func (s *Server) checkSimilarityBatch(w http.ResponseWriter, r *http.Request) {
	var req similarityBatchRequest
	if err := decode(w, r, &req, false); err != nil {
		s.writeError(w, err)
		return
	}
	if len(req.Pairs) == 0 {
		s.writeError(w, &recreation.ValidationError{Field: "pairs", Reason: "must not be empty"})
		return
	}

	originals := make([]string, len(req.Pairs))
	generated := make([]string, len(req.Pairs))
	for i, p := range req.Pairs {
		if strings.TrimSpace(p.Original) == "" || strings.TrimSpace(p.Generated) == "" {
			s.writeError(w, &recreation.ValidationError{Field: fmt.Sprintf("pairs[%d]", i), Reason: "original and generated must not be empty"})
			return
		}
		originals[i], generated[i] = p.Original, p.Generated
	}
	threshold := s.rec.Threshold()
	if req.Threshold != nil {
		threshold = *req.Threshold
	}

	verdicts, err := s.rec.CheckFairUseBatch(originals, generated, threshold)
	if err != nil {
		s.writeError(w, err)
		return
	}
	passed := 0
	for _, v := range verdicts {
		if v.IsFairUse {
			passed++
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"results": verdicts,
		"passed":  passed,
		"failed":  len(verdicts) - passed,
	})
}

type feedbackRequest struct {
	Concept  string `json:"concept"`
	Draft    string `json:"draft"`
	Feedback string `json:"feedback"`
	Style    string `json:"style"`
}

type feedbackResponse struct {
	recreation.FeedbackRevision
	RevisedHTML string `json:"revised_html"`
}

func (s *Server) rewriteWithFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if err := decode(w, r, &req, false); err != nil {
		s.writeError(w, err)
		return
	}

	rev, err := s.rec.RewriteWithFeedback(r.Context(), req.Concept, req.Draft, req.Feedback, req.Style)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.publish(hermes.SubjectDraftRevised, hermes.DraftEvent{
		EventID:    hermes.NewEventID(),
		Style:      rev.Style,
		Similarity: rev.SimilarityToOriginal,
		IsFairUse:  rev.IsFairUse,
		Feedback:   rev.FeedbackApplied,
		At:         time.Now().UTC(),
	})
	writeJSON(w, http.StatusOK, feedbackResponse{FeedbackRevision: rev, RevisedHTML: s.html(rev.RevisedDraft)})
}

type batchRequest struct {
	Concepts []string `json:"concepts"`
	Style    string   `json:"style"`
}

func (s *Server) batchGenerate(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := decode(w, r, &req, false); err != nil {
		s.writeError(w, err)
		return
	}

	items, err := s.rec.BatchGenerate(r.Context(), req.Concepts, req.Style)
	if err != nil {
		s.writeError(w, err)
		return
	}

	succeeded := 0
	for _, item := range items {
		if item.Status == recreation.StatusSuccess {
			succeeded++
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"results":   items,
		"succeeded": succeeded,
		"failed":    len(items) - succeeded,
	})
}
