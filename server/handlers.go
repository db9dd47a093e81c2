package server

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/Mystic-Slice/artist-recommendation-backend/models"
	"github.com/Mystic-Slice/artist-recommendation-backend/pipeline"
	"github.com/Mystic-Slice/artist-recommendation-backend/queue"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const maxUploadSize = 10 << 20 // 10M

// uploadResponse is the /upload result body.
type uploadResponse struct {
	ReturnType    models.MediaType `json:"return_type"`
	URLs          []ArtistEntry    `json:"urls"`
	InputMediaURL string           `json:"input_media_url,omitempty"`
}

// handleSave accepts a media file and acknowledges immediately; the actual
// ingestion runs on the worker pool. Failures after this point are recorded
// against the task, never returned here.
func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	userID := r.FormValue("user_id")
	if userID == "" {
		s.respondError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	file, handler, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	localPath, publicURL, err := s.persistUpload(r, file, handler)
	if err != nil {
		s.logger.Error("failed to persist upload", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "failed to store file")
		return
	}

	taskID, err := s.tasks.Enqueue(r.Context(), queue.IngestTask{
		FilePath:    localPath,
		PublicURL:   publicURL,
		UserID:      userID,
		RemoveLocal: s.uploadsDir == "",
	})
	if err != nil {
		s.logger.Error("failed to enqueue ingest task", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "failed to queue ingestion")
		return
	}

	s.logger.Info("ingest task queued",
		zap.String("task_id", taskID),
		zap.String("user_id", userID))
	w.WriteHeader(http.StatusOK)
}

// handleUpload resolves a match request synchronously. Exactly one of file or
// text must be supplied, and return_type must be audio or image.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	// Tolerate plain form bodies; text-only queries need no multipart.
	_ = r.ParseMultipartForm(maxUploadSize)

	returnType := models.MediaType(r.FormValue("return_type"))
	if !returnType.Returnable() {
		s.respondError(w, http.StatusBadRequest, "return_type must be audio or image")
		return
	}
	if r.FormValue("user_id") == "" {
		s.respondError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	req := pipeline.QueryRequest{
		ReturnType: returnType,
		UserID:     r.FormValue("user_id"),
		Text:       r.FormValue("text"),
	}

	var inputMediaURL string
	file, handler, err := r.FormFile("file")
	switch {
	case err == nil:
		defer file.Close()
		if req.Text != "" {
			s.respondError(w, http.StatusBadRequest, "supply either file or text, not both")
			return
		}
		localPath, publicURL, err := s.persistUpload(r, file, handler)
		if err != nil {
			s.logger.Error("failed to persist upload", zap.Error(err))
			s.respondError(w, http.StatusInternalServerError, "failed to store file")
			return
		}
		req.FilePath = localPath
		req.FileURL = publicURL
		inputMediaURL = publicURL
	case req.Text == "":
		s.respondError(w, http.StatusBadRequest, "one of file or text is required")
		return
	}

	results, err := s.matcher.Query(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, pipeline.ErrValidation), errors.Is(err, pipeline.ErrUnsupportedMedia):
			s.respondError(w, http.StatusBadRequest, err.Error())
		default:
			s.logger.Error("query failed", zap.Error(err))
			s.respondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	s.respondJSON(w, http.StatusOK, uploadResponse{
		ReturnType:    returnType,
		URLs:          artistEntries(results),
		InputMediaURL: inputMediaURL,
	})
}

func (s *Server) handleTaskStatus(w http.ResponseWriter, r *http.Request) {
	taskID := mux.Vars(r)["id"]
	status, err := s.tasks.GetTaskStatus(r.Context(), taskID)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := map[string]any{"task_id": taskID, "status": status}
	if result, err := s.tasks.GetTaskResult(r.Context(), taskID); err == nil && result != nil {
		resp["result"] = result
	}
	s.respondJSON(w, http.StatusOK, resp)
}

// persistUpload writes the multipart file to a local working copy and
// publishes it through the blob store, returning the local path and the
// public URL.
func (s *Server) persistUpload(r *http.Request, file multipart.File, handler *multipart.FileHeader) (string, string, error) {
	name := fmt.Sprintf("%d_%s", time.Now().UnixNano(), filepath.Base(handler.Filename))

	dir := s.uploadsDir
	if dir == "" {
		dir = os.TempDir()
	}
	localPath := filepath.Join(dir, name)
	out, err := os.Create(localPath)
	if err != nil {
		return "", "", fmt.Errorf("create local copy: %w", err)
	}
	if _, err := out.ReadFrom(file); err != nil {
		out.Close()
		return "", "", fmt.Errorf("write local copy: %w", err)
	}
	if err := out.Close(); err != nil {
		return "", "", fmt.Errorf("write local copy: %w", err)
	}

	contentType := handler.Header.Get("Content-Type")
	publicURL, err := s.blobs.SaveFile(r.Context(), name, localPath, contentType)
	if err != nil {
		return "", "", err
	}
	return localPath, publicURL, nil
}
