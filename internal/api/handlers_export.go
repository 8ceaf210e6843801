package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ghostprep/ghostprep/internal/export"
)

// handleStartExport snapshots the master document and queues a batch export
// of every subsection.
func (s *Server) handleStartExport(w http.ResponseWriter, r *http.Request) {
	doc, err := s.loadDocument()
	if err != nil {
		jsonError(w, "load master document: "+err.Error(), http.StatusInternalServerError)
		return
	}

	job := export.NewJob(doc, s.cfg.OutputDir)
	if err := s.runner.Enqueue(job); err != nil {
		if errors.Is(err, export.ErrQueueFull) {
			jsonError(w, "export queue is full, try again later", http.StatusServiceUnavailable)
			return
		}
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.log.Info("export queued", "job_id", job.ID)
	writeJSON(w, http.StatusAccepted, map[string]string{"job_id": job.ID})
}

func (s *Server) handleExportStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.runner.Job(jobID)
	if job == nil {
		jsonError(w, "unknown job: "+jobID, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, job.Snapshot())
}

func (s *Server) handleExportStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.runner.StatsSnapshot())
}
