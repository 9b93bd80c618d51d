// Package audit provides the append-only activity log. Entries are
// encrypted at rest by the log repository.
package audit

import (
	"time"

	"go.uber.org/zap"

	"github.com/Damian5314/Urban-Mobility-backend-system/internal/db/repository"
	"github.com/Damian5314/Urban-Mobility-backend-system/internal/models"
)

// Service records and reads audit log entries.
type Service struct {
	repo *repository.LogRepository
	log  *zap.Logger
}

// NewService creates an audit service.
func NewService(repo *repository.LogRepository, log *zap.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Record appends an entry. Recording is best effort: a write failure is
// reported to the process log but never propagated, so audit problems
// cannot block the operation being audited.
func (s *Service) Record(description, actor, info string, suspicious bool) {
	entry := &models.LogEntry{
		Timestamp:      time.Now(),
		Username:       actor,
		Description:    description,
		AdditionalInfo: info,
		Suspicious:     suspicious,
	}

	if err := s.repo.Create(entry); err != nil {
		s.log.Warn("failed to write audit log entry",
			zap.String("description", description),
			zap.Error(err))
	}
}

// ReadAll returns all entries, newest first.
func (s *Service) ReadAll() ([]*models.LogEntry, error) {
	return s.repo.List()
}

// ReadSuspicious returns only the entries flagged suspicious, newest first.
func (s *Service) ReadSuspicious() ([]*models.LogEntry, error) {
	return s.repo.ListSuspicious()
}

// Summary describes the state of the log.
type Summary struct {
	Total        int
	Suspicious   int
	Last24Hours  int
	LastActivity *time.Time
}

// Summarize computes log totals and recent activity.
func (s *Service) Summarize() (*Summary, error) {
	entries, err := s.repo.List()
	if err != nil {
		return nil, err
	}

	suspicious, err := s.repo.CountSuspicious()
	if err != nil {
		return nil, err
	}

	recent, err := s.repo.CountSince(time.Now().Add(-24 * time.Hour))
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		Total:       len(entries),
		Suspicious:  suspicious,
		Last24Hours: recent,
	}
	if len(entries) > 0 {
		summary.LastActivity = &entries[0].Timestamp
	}

	return summary, nil
}

// CleanupOld deletes non-suspicious entries older than the given number of
// days. Suspicious entries are always kept.
func (s *Service) CleanupOld(days int) (int64, error) {
	return s.repo.DeleteOldNonSuspicious(time.Now().AddDate(0, 0, -days))
}
