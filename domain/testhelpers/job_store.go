package testhelpers

import (
	"context"
	"sort"
	"sync"
	"time"

	"guildbot/domain/entities"
)

// InMemoryJobStore is a ScheduledJobRepository backed by a map. FailDelete and
// FailUpdate make the matching calls fail for the given job IDs.
type InMemoryJobStore struct {
	mu   sync.Mutex
	jobs map[string]entities.ScheduledJob

	FailDelete map[string]error
	FailUpdate map[string]error
}

func NewInMemoryJobStore(jobs ...entities.ScheduledJob) *InMemoryJobStore {
	s := &InMemoryJobStore{
		jobs:       make(map[string]entities.ScheduledJob),
		FailDelete: make(map[string]error),
		FailUpdate: make(map[string]error),
	}
	for _, j := range jobs {
		s.jobs[j.Header().ID] = j
	}
	return s
}

func (s *InMemoryJobStore) Create(ctx context.Context, job entities.ScheduledJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.Header().ID] = job
	return nil
}

func (s *InMemoryJobStore) GetDue(ctx context.Context, now time.Time) ([]entities.ScheduledJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var due []entities.ScheduledJob
	for _, j := range s.jobs {
		if !j.Header().TriggerTime.After(now) {
			due = append(due, j)
		}
	}
	sortJobs(due)
	return due, nil
}

func (s *InMemoryJobStore) ListByGuild(ctx context.Context, guildID int64) ([]entities.ScheduledJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var jobs []entities.ScheduledJob
	for _, j := range s.jobs {
		if j.Header().GuildID == guildID {
			jobs = append(jobs, j)
		}
	}
	sortJobs(jobs)
	return jobs, nil
}

func (s *InMemoryJobStore) GetByID(ctx context.Context, guildID int64, id string) (entities.ScheduledJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[id]
	if !ok || j.Header().GuildID != guildID {
		return nil, nil
	}
	return j, nil
}

func (s *InMemoryJobStore) UpdateTriggerTime(ctx context.Context, id string, triggerTime time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.FailUpdate[id]; err != nil {
		return err
	}
	if j, ok := s.jobs[id]; ok {
		j.Header().TriggerTime = triggerTime
	}
	return nil
}

func (s *InMemoryJobStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.FailDelete[id]; err != nil {
		return err
	}
	delete(s.jobs, id)
	return nil
}

// Get returns a stored job by ID
func (s *InMemoryJobStore) Get(id string) (entities.ScheduledJob, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[id]
	return j, ok
}

// Len returns the number of stored jobs
func (s *InMemoryJobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

func sortJobs(jobs []entities.ScheduledJob) {
	sort.Slice(jobs, func(i, k int) bool {
		return jobs[i].Header().TriggerTime.Before(jobs[k].Header().TriggerTime)
	})
}
