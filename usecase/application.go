package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"

	"jobboard/domain"
)

// Stage names one step of a submission run.
type Stage string

const (
	StageValidating       Stage = "validating"
	StageUploading        Stage = "uploading"
	StageParsing          Stage = "parsing"
	StagePersistingResume Stage = "persisting_resume"
	StageScoring          Stage = "scoring"
	StagePersistingScore  Stage = "persisting_score"
	StageNotifying        Stage = "notifying"
	StageCleaningUp       Stage = "cleaning_up"
	StageDone             Stage = "done"
	StageFailed           Stage = "failed"
)

// DefaultHRNotifyThreshold is the match score at or above which HR is alerted.
const DefaultHRNotifyThreshold = 80

// DefaultRecoveryAfter is how long a submission may stay unscored before a new
// application for the same pair resumes it.
const DefaultRecoveryAfter = 15 * time.Minute

type Dependencies struct {
	Jobs        JobRepository
	Submissions SubmissionRepository
	Store       ObjectStore
	Parser      ResumeParser
	Scorer      Scorer
	Notifier    Notifier
	// Events is optional.
	Events EventPublisher
}

type Options struct {
	HRNotifyThreshold int
	StorageFolder     string
	RecoveryAfter     time.Duration
}

// formatChecker is implemented by parsers that handle only some resume formats.
type formatChecker interface {
	Supports(contentType string) bool
}

// Orchestrator runs the application submission pipeline:
// validate, upload, parse, persist resume, score, persist score, notify,
// clean up. Runs share no state; the store's (candidate, job) constraint is
// the only guard against concurrent duplicates.
type Orchestrator struct {
	deps          Dependencies
	threshold     int
	folder        string
	recoveryAfter time.Duration
	log           logrus.FieldLogger
	tracer        trace.Tracer

	newID func() string
	now   func() time.Time
}

func NewOrchestrator(deps Dependencies, opts Options, log logrus.FieldLogger) *Orchestrator {
	if log == nil {
		log = logrus.StandardLogger()
	}
	threshold := opts.HRNotifyThreshold
	if threshold <= 0 {
		threshold = DefaultHRNotifyThreshold
	}
	recoveryAfter := opts.RecoveryAfter
	if recoveryAfter <= 0 {
		recoveryAfter = DefaultRecoveryAfter
	}
	return &Orchestrator{
		deps:          deps,
		threshold:     threshold,
		folder:        opts.StorageFolder,
		recoveryAfter: recoveryAfter,
		log:           log.WithField("component", "orchestrator"),
		tracer:        otel.Tracer("jobboard/usecase"),
		newID:         uuid.NewString,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// run carries the state of one SubmitApplication call.
type run struct {
	ctx       context.Context
	span      trace.Span
	log       logrus.FieldLogger
	upload    domain.StagedUpload
	principal domain.Principal
	job       *domain.JobPosting
	sub       *domain.ResumeSubmission
	stage     Stage
}

// SubmitApplication applies principal to jobID with the staged resume. The
// staged file is removed before returning, whatever the outcome. Errors are
// always *domain.ApplicationError.
//
// Cancelling ctx does not stop a started run; only its values are used.
func (o *Orchestrator) SubmitApplication(ctx context.Context, jobID string, principal domain.Principal, upload domain.StagedUpload) (*domain.ApplicationResult, error) {
	ctx, span := o.tracer.Start(context.WithoutCancel(ctx), "SubmitApplication", trace.WithAttributes(
		attribute.String("job.id", jobID),
		attribute.String("candidate.id", principal.ID),
	))
	defer span.End()

	r := &run{
		ctx:       ctx,
		span:      span,
		upload:    upload,
		principal: principal,
		log: o.log.WithFields(logrus.Fields{
			"job_id":       jobID,
			"candidate_id": principal.ID,
		}),
	}

	r.enter(StageValidating)
	existing, err := o.validate(r, jobID)
	if err != nil {
		return nil, o.fail(r, err)
	}

	if existing != nil {
		// A stale submission without a score was left by a run that died
		// between the two inserts. Resume it instead of locking the candidate out.
		r.log.WithField("resume_id", existing.ID).Warn("resuming abandoned submission")
		r.sub = existing
	} else {
		if err := o.ingest(r); err != nil {
			return nil, o.fail(r, err)
		}
	}

	return o.finish(r)
}

func (o *Orchestrator) validate(r *run, jobID string) (*domain.ResumeSubmission, error) {
	if r.upload.Size > domain.MaxResumeBytes {
		return nil, validationErr(domain.ErrFileTooLarge)
	}
	if fc, ok := o.deps.Parser.(formatChecker); ok && !fc.Supports(r.upload.ContentType) {
		return nil, validationErr(fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, r.upload.ContentType))
	}

	job, err := o.deps.Jobs.GetJobByID(r.ctx, jobID)
	if err != nil {
		return nil, &domain.ApplicationError{Kind: domain.KindPersistence, Err: err}
	}
	if job == nil {
		return nil, validationErr(fmt.Errorf("%w: %s", domain.ErrJobNotFound, jobID))
	}
	if !job.AcceptsApplications() {
		return nil, validationErr(fmt.Errorf("%w: %s is %s", domain.ErrJobNotActive, jobID, job.Status))
	}
	r.job = job

	existing, err := o.deps.Submissions.FindSubmission(r.ctx, r.principal.ID, jobID)
	if err != nil {
		return nil, &domain.ApplicationError{Kind: domain.KindPersistence, Err: err}
	}
	switch {
	case existing == nil:
		return nil, nil
	case existing.Score != nil:
		return nil, validationErr(domain.ErrDuplicateApplication)
	case o.now().Sub(existing.UploadedAt) < o.recoveryAfter:
		// Another run for the same pair is most likely still in flight.
		return nil, validationErr(fmt.Errorf("%w: submission %s is still being processed",
			domain.ErrDuplicateApplication, existing.ID))
	}
	return existing, nil
}

// ingest uploads, parses and persists a new submission.
func (o *Orchestrator) ingest(r *run) error {
	r.enter(StageUploading)
	obj, err := o.deps.Store.Store(r.ctx, r.upload.Path, domain.StoreOptions{
		Folder:      path.Join(o.folder, r.job.JobID),
		FileName:    r.upload.FileName,
		ContentType: r.upload.ContentType,
	})
	if err != nil {
		return &domain.ApplicationError{Kind: domain.KindUpload, Err: err}
	}
	r.log = r.log.WithField("file_url", obj.URL)

	r.enter(StageParsing)
	resume, err := o.deps.Parser.Parse(r.ctx, obj.URL)
	if errors.Is(err, domain.ErrUnsupportedFormat) {
		return validationErr(err)
	}
	if err != nil {
		appErr := &domain.ApplicationError{Kind: domain.KindParsing, Err: err}
		var pErr *domain.ParsingError
		if errors.As(err, &pErr) {
			appErr.Status = pErr.Status
		}
		return appErr
	}

	r.enter(StagePersistingResume)
	sub := &domain.ResumeSubmission{
		ID:          o.newID(),
		JobID:       r.job.JobID,
		CandidateID: r.principal.ID,
		FileURL:     obj.URL,
		StorageID:   obj.ProviderID,
		ParsedData:  datatypes.NewJSONType(resume),
		UploadedAt:  o.now(),
	}
	if err := o.deps.Submissions.InsertResume(r.ctx, sub); err != nil {
		if errors.Is(err, domain.ErrDuplicateSubmission) {
			// Lost a race with a concurrent run for the same pair.
			return validationErr(fmt.Errorf("%w: %w", domain.ErrDuplicateApplication, err))
		}
		return &domain.ApplicationError{Kind: domain.KindPersistence, Err: err}
	}
	r.sub = sub
	return nil
}

// finish scores the submission, stores the verdict, notifies and cleans up.
func (o *Orchestrator) finish(r *run) (*domain.ApplicationResult, error) {
	r.log = r.log.WithField("resume_id", r.sub.ID)
	resume := r.sub.Resume()

	r.enter(StageScoring)
	verdict := o.deps.Scorer.Score(r.ctx, resume, r.job.ScoringText())
	r.span.SetAttributes(
		attribute.Int("verdict.match_score", verdict.MatchScore),
		attribute.String("verdict.scored_by", verdict.ScoredBy),
	)

	r.enter(StagePersistingScore)
	score := domain.NewScoreVerdict(o.newID(), r.sub.ID, r.job.JobID, verdict)
	if err := o.deps.Submissions.InsertScore(r.ctx, score); err != nil {
		if errors.Is(err, domain.ErrDuplicateSubmission) {
			// A concurrent run scored this submission first.
			return nil, o.fail(r, validationErr(fmt.Errorf("%w: %w", domain.ErrDuplicateApplication, err)))
		}
		return nil, o.fail(r, &domain.ApplicationError{Kind: domain.KindPersistence, Err: err})
	}

	r.enter(StageNotifying)
	hrNotified, candidateNotified := o.notify(r, resume, verdict, score)

	r.enter(StageCleaningUp)
	o.cleanup(r)

	r.enter(StageDone)
	r.log.WithFields(logrus.Fields{
		"score_id":    score.ID,
		"match_score": verdict.MatchScore,
		"scored_by":   verdict.ScoredBy,
		"hr_notified": hrNotified,
	}).Info("application submitted")

	return &domain.ApplicationResult{
		ApplicationID:        score.ID,
		ResumeID:             r.sub.ID,
		JobID:                r.job.JobID,
		JobTitle:             r.job.Title,
		MatchScore:           verdict.MatchScore,
		ShortlistProbability: verdict.ShortlistProbability,
		SalaryRange:          verdict.SalaryRange,
		MissingSkills:        nonNil(verdict.MissingSkills),
		StrongSkills:         nonNil(verdict.StrongSkills),
		Recommendation:       verdict.Recommendation,
		KeyHighlights:        nonNil(verdict.KeyHighlights),
		AreasOfConcern:       nonNil(verdict.AreasOfConcern),
		ScoredBy:             verdict.ScoredBy,
		EmailSent:            hrNotified,
		CandidateEmailSent:   candidateNotified,
		ResumeURL:            r.sub.FileURL,
		AppliedAt:            r.sub.UploadedAt,
	}, nil
}

// notify never fails the run. The HR flag is written only when an HR alert
// was attempted.
func (o *Orchestrator) notify(r *run, resume domain.NormalizedResume, v domain.Verdict, score *domain.ScoreVerdict) (hr, candidate bool) {
	candidateName := firstNonEmpty(resume.PersonalInfo.Name, r.principal.DisplayName)
	candidateEmail := firstNonEmpty(r.principal.Email, resume.PersonalInfo.Email)

	if v.MatchScore >= o.threshold {
		res := o.deps.Notifier.NotifyHR(r.ctx, domain.HRAlert{
			To:                   r.job.ContactEmail,
			ToName:               r.job.ContactName,
			JobID:                r.job.JobID,
			JobTitle:             r.job.Title,
			CandidateName:        candidateName,
			CandidateEmail:       candidateEmail,
			MatchScore:           v.MatchScore,
			ShortlistProbability: v.ShortlistProbability,
			StrongSkills:         v.StrongSkills,
			Recommendation:       v.Recommendation,
			ResumeURL:            r.sub.FileURL,
		})
		hr = res.Sent
		if !res.Sent {
			r.log.WithField("reason", res.Reason).Warn("hr notification not sent")
		}
		if err := o.deps.Submissions.UpdateScoreNotifiedFlag(r.ctx, score.ID, hr); err != nil {
			r.log.WithError(err).Error("update hr notified flag")
		}
		score.HRNotified = hr
	}

	ack := o.deps.Notifier.NotifyCandidate(r.ctx, domain.CandidateAck{
		To:         candidateEmail,
		ToName:     candidateName,
		JobTitle:   r.job.Title,
		AppliedAt:  r.sub.UploadedAt,
		MatchScore: v.MatchScore,
	})
	candidate = ack.Sent
	if !ack.Sent {
		r.log.WithField("reason", ack.Reason).Warn("candidate acknowledgement not sent")
	}

	if o.deps.Events != nil {
		err := o.deps.Events.Publish(r.ctx, domain.ApplicationEvent{
			Type:        domain.EventApplicationSubmitted,
			ResumeID:    r.sub.ID,
			ScoreID:     score.ID,
			JobID:       r.job.JobID,
			CandidateID: r.principal.ID,
			MatchScore:  v.MatchScore,
			ScoredBy:    v.ScoredBy,
			HRNotified:  hr,
			AppliedAt:   r.sub.UploadedAt,
		})
		if err != nil {
			r.log.WithError(err).Warn("publish application event")
		}
	}
	return hr, candidate
}

// fail records the failure, removes the staged file and returns err with the
// failing stage filled in.
func (o *Orchestrator) fail(r *run, err error) error {
	var appErr *domain.ApplicationError
	if !errors.As(err, &appErr) {
		appErr = &domain.ApplicationError{Kind: domain.KindPersistence, Err: err}
	}
	appErr.Stage = string(r.stage)

	r.span.RecordError(appErr)
	r.span.SetStatus(codes.Error, string(appErr.Kind))
	entry := r.log.WithError(appErr.Err).WithFields(logrus.Fields{"stage": r.stage, "kind": appErr.Kind})
	if appErr.Kind == domain.KindValidation {
		entry.Info("application rejected")
	} else {
		entry.Error("application failed")
	}

	r.stage = StageFailed
	o.cleanup(r)
	return appErr
}

func (o *Orchestrator) cleanup(r *run) {
	if r.upload.Path == "" {
		return
	}
	if err := os.Remove(r.upload.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		r.log.WithError(err).WithField("path", r.upload.Path).Warn("remove staged upload")
	}
}

func (r *run) enter(s Stage) {
	r.stage = s
	r.span.AddEvent(string(s))
	r.log.WithField("stage", s).Debug("stage")
}

func validationErr(err error) *domain.ApplicationError {
	return &domain.ApplicationError{Kind: domain.KindValidation, Err: err}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
