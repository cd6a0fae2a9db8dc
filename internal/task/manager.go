// Package task tracks asynchronous recommendation jobs in memory.
package task

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"movierec/internal/model"
)

// Status represents the status of an asynchronous job.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Task is one recommendation job.
type Task struct {
	ID        string                      `json:"id"`
	Status    Status                      `json:"status"`
	Result    *model.RecommendationResult `json:"result,omitempty"`
	Error     string                      `json:"error,omitempty"`
	CreatedAt time.Time                   `json:"created_at"`
}

// Manager is an in-memory registry of jobs.
type Manager struct {
	tasks map[string]*Task
	mu    sync.RWMutex
}

// NewManager creates a task manager.
func NewManager() *Manager {
	return &Manager{tasks: make(map[string]*Task)}
}

// NewTask creates and stores a pending job.
func (m *Manager) NewTask() *Task {
	m.mu.Lock()
	defer m.mu.Unlock()

	task := &Task{
		ID:        uuid.New().String(),
		Status:    StatusPending,
		CreatedAt: time.Now(),
	}
	m.tasks[task.ID] = task
	return task
}

// GetTask retrieves a snapshot of a job by id.
func (m *Manager) GetTask(id string) (*Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	task, exists := m.tasks[id]
	if !exists {
		return nil, fmt.Errorf("task with ID '%s' not found", id)
	}
	snapshot := *task
	return &snapshot, nil
}

// UpdateStatus moves a job to the given status.
func (m *Manager) UpdateStatus(id string, status Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	task, exists := m.tasks[id]
	if !exists {
		return fmt.Errorf("task with ID '%s' not found", id)
	}
	task.Status = status
	return nil
}

// SetResult records the finished result and marks the job completed.
func (m *Manager) SetResult(id string, result *model.RecommendationResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	task, exists := m.tasks[id]
	if !exists {
		return fmt.Errorf("task with ID '%s' not found", id)
	}
	task.Result = result
	task.Status = StatusCompleted
	task.Error = ""
	return nil
}

// SetError records the failure and marks the job failed.
func (m *Manager) SetError(id string, err error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	task, exists := m.tasks[id]
	if !exists {
		return fmt.Errorf("task with ID '%s' not found", id)
	}
	task.Error = err.Error()
	task.Status = StatusFailed
	return nil
}
