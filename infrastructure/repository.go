package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"

	"jobboard/domain"
)

// Repository implements job, submission and score persistence on gorm.
type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

// GetJobByID returns nil, nil when no posting has the given public identifier.
func (r *Repository) GetJobByID(ctx context.Context, jobID string) (*domain.JobPosting, error) {
	var job domain.JobPosting
	err := r.DB.WithContext(ctx).Where("job_id = ?", jobID).First(&job).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load job %s: %w", jobID, err)
	}
	return &job, nil
}

func (r *Repository) CreateJob(ctx context.Context, job *domain.JobPosting) error {
	if err := r.DB.WithContext(ctx).Create(job).Error; err != nil {
		return fmt.Errorf("create job: %w", err)
	}
	return nil
}

// FindSubmission returns the candidate's submission for the job with its score
// preloaded, or nil, nil.
func (r *Repository) FindSubmission(ctx context.Context, candidateID, jobID string) (*domain.ResumeSubmission, error) {
	var sub domain.ResumeSubmission
	err := r.DB.WithContext(ctx).
		Preload("Score").
		Where("candidate_id = ? AND job_id = ?", candidateID, jobID).
		First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find submission: %w", err)
	}
	return &sub, nil
}

// InsertResume returns domain.ErrDuplicateSubmission when the (candidate, job)
// constraint rejects the row.
func (r *Repository) InsertResume(ctx context.Context, sub *domain.ResumeSubmission) error {
	err := r.DB.WithContext(ctx).Omit("Score").Create(sub).Error
	if isDuplicateKey(err) {
		return fmt.Errorf("insert resume: %w", domain.ErrDuplicateSubmission)
	}
	if err != nil {
		return fmt.Errorf("insert resume: %w", err)
	}
	return nil
}

// InsertScore returns domain.ErrDuplicateSubmission when the resume already
// has a score.
func (r *Repository) InsertScore(ctx context.Context, score *domain.ScoreVerdict) error {
	err := r.DB.WithContext(ctx).Create(score).Error
	if isDuplicateKey(err) {
		return fmt.Errorf("insert score for %s: %w", score.ResumeID, domain.ErrDuplicateSubmission)
	}
	if err != nil {
		return fmt.Errorf("insert score: %w", err)
	}
	return nil
}

func (r *Repository) UpdateScoreNotifiedFlag(ctx context.Context, scoreID string, notified bool) error {
	res := r.DB.WithContext(ctx).
		Model(&domain.ScoreVerdict{}).
		Where("id = ?", scoreID).
		Update("hr_notified", notified)
	if res.Error != nil {
		return fmt.Errorf("update notified flag: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("update notified flag %s: %w", scoreID, domain.ErrNotFound)
	}
	return nil
}

func (r *Repository) GetSubmission(ctx context.Context, resumeID string) (*domain.ResumeSubmission, error) {
	var sub domain.ResumeSubmission
	err := r.DB.WithContext(ctx).Preload("Score").Where("id = ?", resumeID).First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load submission %s: %w", resumeID, err)
	}
	return &sub, nil
}

// DeleteSubmission removes a submission and its score in one transaction and
// returns the deleted row so the caller can release its stored file.
func (r *Repository) DeleteSubmission(ctx context.Context, resumeID string) (*domain.ResumeSubmission, error) {
	var deleted domain.ResumeSubmission
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", resumeID).First(&deleted).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		if err := tx.Where("resume_id = ?", resumeID).Delete(&domain.ScoreVerdict{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", resumeID).Delete(&domain.ResumeSubmission{}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("delete submission %s: %w", resumeID, err)
	}
	return &deleted, nil
}

// ListApplicants returns the job's submissions, highest match score first;
// unscored submissions sort last.
func (r *Repository) ListApplicants(ctx context.Context, jobID string) ([]domain.Applicant, error) {
	var subs []domain.ResumeSubmission
	err := r.DB.WithContext(ctx).
		Preload("Score").
		Where("job_id = ?", jobID).
		Order("uploaded_at ASC").
		Find(&subs).Error
	if err != nil {
		return nil, fmt.Errorf("list applicants for %s: %w", jobID, err)
	}

	out := make([]domain.Applicant, 0, len(subs))
	for _, s := range subs {
		resume := s.Resume()
		out = append(out, domain.Applicant{
			ResumeID:    s.ID,
			CandidateID: s.CandidateID,
			Name:        resume.PersonalInfo.Name,
			Email:       resume.PersonalInfo.Email,
			ResumeURL:   s.FileURL,
			AppliedAt:   s.UploadedAt,
			Score:       s.Score,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Score, out[j].Score
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		}
		return a.MatchScore > b.MatchScore
	})
	return out, nil
}

func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate entry") ||
		strings.Contains(msg, "duplicate key")
}
