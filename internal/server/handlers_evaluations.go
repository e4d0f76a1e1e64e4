package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/resume-evaluator/internal/export"
	"github.com/jonathan/resume-evaluator/internal/extraction"
	"github.com/jonathan/resume-evaluator/internal/fetch"
	"github.com/jonathan/resume-evaluator/internal/history"
	"github.com/jonathan/resume-evaluator/internal/ingestion"
	"github.com/jonathan/resume-evaluator/internal/logger"
	"github.com/jonathan/resume-evaluator/internal/types"
)

// multipartMemory is the part of an upload kept in memory while parsing the form
const multipartMemory = 1 << 20

// handleCreateEvaluation scores an uploaded resume and stores the report
func (s *Server) handleCreateEvaluation(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > s.cfg.MaxUploadBytes {
		s.fail(w, r, &http.MaxBytesError{Limit: s.cfg.MaxUploadBytes})
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.fail(w, r, tooLarge)
			return
		}
		s.fail(w, r, &ErrValidation{Field: "body", Message: "must be multipart/form-data"})
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		s.fail(w, r, &ErrValidation{Field: "file", Message: "is required"})
		return
	}
	defer func() { _ = file.Close() }()

	upload := types.UploadRequest{
		UserID:            r.FormValue("user_id"),
		Filename:          header.Filename,
		TargetDescription: r.FormValue("job_description"),
		JobURL:            r.FormValue("job_url"),
	}
	if err := s.validate.Struct(upload); err != nil {
		s.fail(w, r, err)
		return
	}
	if upload.JobURL != "" {
		if err := fetch.ValidateURL(upload.JobURL); err != nil {
			s.fail(w, r, &ErrValidation{Field: "job_url", Message: "must be an http or https URL"})
			return
		}
	}

	format, err := uploadFormat(r.FormValue("format"), header.Filename)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	target, _, err := s.jobs.Load(r.Context(), ingestion.Source{Text: upload.TargetDescription, URL: upload.JobURL})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	report, err := s.pipeline.Evaluate(r.Context(), types.EvaluationRequest{
		Document:          types.Document{Name: upload.Filename, Format: format, Data: data},
		TargetDescription: target,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	e := types.Evaluation{
		UserID:            uuid.MustParse(upload.UserID),
		Filename:          upload.Filename,
		TargetDescription: target,
		Report:            *report,
	}
	if s.store != nil {
		if err := s.store.SaveEvaluation(r.Context(), &e); err != nil {
			s.fail(w, r, err)
			return
		}
	}

	logger.Ctx(r.Context()).Info().
		Str("evaluation_id", e.ID.String()).
		Float64("overall", report.Overall).
		Str("label", string(report.Label)).
		Msg("evaluation created")
	s.jsonResponse(w, http.StatusCreated, e)
}

// uploadFormat prefers an explicit format field over the file extension
func uploadFormat(tag, filename string) (types.Format, error) {
	if tag != "" {
		return extraction.ParseFormat(tag)
	}
	return extraction.FormatFromFilename(filename)
}

// loadEvaluation resolves the evaluation named by a path parameter
func (s *Server) loadEvaluation(r *http.Request, param string) (*types.Evaluation, error) {
	if err := s.requireStore(); err != nil {
		return nil, err
	}
	id, err := pathUUID(r, param)
	if err != nil {
		return nil, err
	}
	e, err := s.store.GetEvaluation(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, &ErrNotFound{Resource: "evaluation", ID: id.String()}
	}
	return e, nil
}

// handleGetEvaluation returns one stored evaluation
func (s *Server) handleGetEvaluation(w http.ResponseWriter, r *http.Request) {
	e, err := s.loadEvaluation(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, e)
}

// handleDeleteEvaluation deletes an evaluation and its share links
func (s *Server) handleDeleteEvaluation(w http.ResponseWriter, r *http.Request) {
	if err := s.requireStore(); err != nil {
		s.fail(w, r, err)
		return
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.store.DeleteEvaluation(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleExportEvaluation downloads one evaluation as a JSON file
func (s *Server) handleExportEvaluation(w http.ResponseWriter, r *http.Request) {
	e, err := s.loadEvaluation(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	setAttachment(w, export.ContentTypeJSON, export.Filename("evaluation", "json", e.CreatedAt))
	if err := export.JSON(w, *e); err != nil {
		logger.Ctx(r.Context()).Error().Err(err).Msg("failed to write JSON export")
	}
}

// handleCompareEvaluations reports score changes from {id} to {other}
func (s *Server) handleCompareEvaluations(w http.ResponseWriter, r *http.Request) {
	before, err := s.loadEvaluation(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	after, err := s.loadEvaluation(r, "other")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if before.UserID != after.UserID {
		s.fail(w, r, &ErrValidation{Field: "other", Message: "must belong to the same user"})
		return
	}
	s.jsonResponse(w, http.StatusOK, history.Compare(*before, *after))
}

// setAttachment marks the response as a file download
func setAttachment(w http.ResponseWriter, contentType, filename string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
}
