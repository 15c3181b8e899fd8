package coordination

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/topspin/topspin-api/internal/platform/logger"
)

// taskKeyPrefix namespaces task records in the shared store.
const taskKeyPrefix = "user_task:"

// TaskStatus is the processing state recorded for an in-flight task.
type TaskStatus string

// TaskStatusProcessing is the only status a live record can have; absence of
// a record means no active task.
const TaskStatusProcessing TaskStatus = "processing"

// TaskRecord marks a subject as having exactly one in-flight task. Records
// are TTL-bounded so a crashed process cannot block a subject forever.
type TaskRecord struct {
	TaskID    string     `json:"taskId"`
	StartedAt time.Time  `json:"startTime"`
	Status    TaskStatus `json:"status"`
}

// TaskRegistry tracks at most one active task per subject in the
// coordination store. Creation uses create-if-absent semantics, so when two
// requests race for the same subject exactly one wins.
type TaskRegistry struct {
	store Store
}

// NewTaskRegistry creates a TaskRegistry on top of the given store.
func NewTaskRegistry(store Store) (*TaskRegistry, error) {
	if store == nil {
		return nil, fmt.Errorf("coordination store cannot be nil")
	}
	return &TaskRegistry{store: store}, nil
}

// HasActive reports whether subjectID currently has an in-flight task.
// Store failures are returned so admission can fail closed.
func (r *TaskRegistry) HasActive(ctx context.Context, subjectID string) (bool, error) {
	ok, err := r.store.Exists(ctx, taskKeyPrefix+subjectID)
	if err != nil {
		logger.FromContext(ctx).Error("failed to check active task",
			"subject_id", subjectID,
			"error", err)
		return false, fmt.Errorf("failed to check active task for %s: %w", subjectID, err)
	}
	return ok, nil
}

// Start records a new in-flight task for subjectID with the given TTL.
// It returns false when another task is already active; in that case the
// registry is left untouched.
func (r *TaskRegistry) Start(ctx context.Context, subjectID, taskID string, ttl time.Duration) (bool, error) {
	record := TaskRecord{
		TaskID:    taskID,
		StartedAt: time.Now().UTC(),
		Status:    TaskStatusProcessing,
	}

	data, err := json.Marshal(record)
	if err != nil {
		return false, fmt.Errorf("failed to encode task record: %w", err)
	}

	ok, err := r.store.SetIfAbsent(ctx, taskKeyPrefix+subjectID, string(data), ttl)
	if err != nil {
		logger.FromContext(ctx).Error("failed to start task",
			"subject_id", subjectID,
			"task_id", taskID,
			"error", err)
		return false, fmt.Errorf("failed to start task for %s: %w", subjectID, err)
	}
	return ok, nil
}

// Complete clears the task record for subjectID unconditionally. The record
// carries no owner token: only the request that won the Start race reaches
// the code paths that call Complete.
//
// Store failures are fail-soft: logged, false returned, teardown continues.
func (r *TaskRegistry) Complete(ctx context.Context, subjectID string) bool {
	ok, err := r.store.Delete(ctx, taskKeyPrefix+subjectID)
	if err != nil {
		logger.FromContext(ctx).Error("failed to complete task",
			"subject_id", subjectID,
			"error", err)
		return false
	}
	return ok
}

// Get returns the task record for subjectID, or nil when the subject has no
// active task.
func (r *TaskRegistry) Get(ctx context.Context, subjectID string) (*TaskRecord, error) {
	data, err := r.store.Get(ctx, taskKeyPrefix+subjectID)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return nil, nil
		}
		logger.FromContext(ctx).Error("failed to get task record",
			"subject_id", subjectID,
			"error", err)
		return nil, fmt.Errorf("failed to get task record for %s: %w", subjectID, err)
	}

	var record TaskRecord
	if err := json.Unmarshal([]byte(data), &record); err != nil {
		return nil, fmt.Errorf("failed to decode task record for %s: %w", subjectID, err)
	}

	return &record, nil
}
