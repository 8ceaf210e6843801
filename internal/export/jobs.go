package export

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"
)

// JobStatus represents the state of a batch export job.
type JobStatus string

const (
	StatusQueued    JobStatus = "queued"
	StatusRunning   JobStatus = "running"
	StatusCompleted JobStatus = "completed"
	StatusPartial   JobStatus = "partial"
	StatusFailed    JobStatus = "failed"
)

// Progress tracks how far an export has gotten.
type Progress struct {
	TotalSections   int      `json:"total_sections"`
	SectionsWritten int      `json:"sections_written"`
	SectionsSkipped int      `json:"sections_skipped"`
	Errors          []string `json:"errors"`
}

// Job tracks the state of one batch export.
type Job struct {
	mu sync.Mutex

	ID        string    `json:"job_id"`
	Status    JobStatus `json:"status"`
	OutputDir string    `json:"output_dir"`
	Progress  Progress  `json:"progress"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	document string
}

// NewJob creates a queued job holding the document snapshot to export.
func NewJob(document, outputDir string) *Job {
	now := time.Now()
	return &Job{
		ID:        newJobID(),
		Status:    StatusQueued,
		OutputDir: outputDir,
		CreatedAt: now,
		UpdatedAt: now,
		document:  document,
	}
}

// Document returns the snapshot taken when the job was created.
func (j *Job) Document() string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.document
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.UpdatedAt = time.Now()
}

// SetTotalSections records how many sections the export will attempt.
func (j *Job) SetTotalSections(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.TotalSections = n
	j.UpdatedAt = time.Now()
}

// IncrWritten counts one successfully written article.
func (j *Job) IncrWritten() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.SectionsWritten++
	j.UpdatedAt = time.Now()
}

// IncrSkipped counts one section skipped (duplicate slug or build failure).
func (j *Job) IncrSkipped() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.SectionsSkipped++
	j.UpdatedAt = time.Now()
}

// AddError records an error message.
func (j *Job) AddError(msg string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.Errors = append(j.Progress.Errors, msg)
	j.UpdatedAt = time.Now()
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID        string    `json:"job_id"`
	Status    JobStatus `json:"status"`
	OutputDir string    `json:"output_dir"`
	Progress  Progress  `json:"progress"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := j.Progress.Errors
	if errs == nil {
		errs = []string{}
	}
	return JobSnapshot{
		ID:        j.ID,
		Status:    j.Status,
		OutputDir: j.OutputDir,
		CreatedAt: j.CreatedAt,
		UpdatedAt: j.UpdatedAt,
		Progress: Progress{
			TotalSections:   j.Progress.TotalSections,
			SectionsWritten: j.Progress.SectionsWritten,
			SectionsSkipped: j.Progress.SectionsSkipped,
			Errors:          errs,
		},
	}
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		job.mu.Lock()
		expired := now.Sub(job.UpdatedAt) > s.ttl
		job.mu.Unlock()
		if expired {
			delete(s.jobs, id)
		}
	}
}

func newJobID() string {
	var b [8]byte
	// crypto/rand.Read never returns an error.
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
