package server

import (
	"net/http"
	"strings"

	"alphamastery/internal/api"
	"alphamastery/internal/mastery"
	"alphamastery/internal/services"
)

func (s *Server) handleRotationNext(w http.ResponseWriter, r *http.Request) {
	var req api.RotationNextRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		s.writeError(w, r, err)
		return
	}
	key := strings.TrimSpace(req.RotationKey)
	ctx := services.WithRotationKey(r.Context(), key)
	item, err := s.deps.Selector.SelectNext(ctx, key)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.ItemResponse{Status: api.StatusSuccess, Item: item})
}

func (s *Server) handleMasteryCheck(w http.ResponseWriter, r *http.Request) {
	var req api.MasteryCheckRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		s.writeError(w, r, err)
		return
	}
	result, err := s.deps.Checker.Check(r.Context(), req.Expected, req.Submitted)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.MasteryCheckResponse{
		Status: api.StatusSuccess,
		Score:  result.Score,
		Passed: result.Passed,
	})
}

func (s *Server) handleAlphabetMastery(w http.ResponseWriter, r *http.Request) {
	var req api.CanvasRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		s.writeError(w, r, err)
		return
	}
	result, err := s.deps.Verifier.Verify(r.Context(), mastery.CanvasInput{
		Image:          req.CanvasInput,
		ExpectedLetter: req.ExpectedLetter,
		Case:           strings.ToLower(strings.TrimSpace(req.IsCapital)),
		Level:          strings.ToLower(strings.TrimSpace(req.Level)),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.CanvasResponse{Status: api.StatusSuccess, Verification: result})
}

func (s *Server) handleSentenceNext(w http.ResponseWriter, r *http.Request) {
	var req api.LevelRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		s.writeError(w, r, err)
		return
	}
	sentence, err := s.deps.Activities.NextSentence(r.Context(), req.Level)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.DataResponse{Status: api.StatusSuccess, Data: sentence})
}

func (s *Server) handleReadingSpeed(w http.ResponseWriter, r *http.Request) {
	var req api.LevelRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		s.writeError(w, r, err)
		return
	}
	passage, err := s.deps.Activities.NextReading(r.Context(), req.Level)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.DataResponse{Status: api.StatusSuccess, Data: passage})
}

func (s *Server) handleImageNext(w http.ResponseWriter, r *http.Request) {
	image, err := s.deps.Activities.NextImage(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.DataResponse{Status: api.StatusSuccess, Data: image})
}

func (s *Server) handleMythNext(w http.ResponseWriter, r *http.Request) {
	var req api.MythRequest
	if err := decodeJSON(w, r, &req, true); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.BatchSize < 0 {
		s.writeError(w, r, services.Wrap(services.ErrValidation, "server", "myth", "batch_size must be positive", nil))
		return
	}
	myths, err := s.deps.Activities.NextMyths(r.Context(), req.BatchSize)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.ListResponse{Status: api.StatusSuccess, Count: len(myths), Data: myths})
}

func (s *Server) handleParentChat(w http.ResponseWriter, r *http.Request) {
	var req api.ParentChatRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		s.writeError(w, r, err)
		return
	}
	reply, err := s.deps.Chat.Ask(r.Context(), req.Question, req.KBHit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.DataResponse{Status: api.StatusSuccess, Data: reply})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	counts, err := s.deps.Content.Keys(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.ServiceStatus{
		Status:        api.StatusOK,
		Version:       s.deps.Version,
		DatabasePath:  s.cfg.Database.Path,
		LockFilePath:  s.lockPath,
		Content:       api.FromKeyCounts(counts),
		VisionEnabled: s.deps.VisionEnabled,
		LLMEnabled:    s.deps.LLMEnabled,
	})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.writeStatus(w, r, http.StatusNotFound, "not found")
}
