package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	appErrors "github.com/sahaya-relief/camp-api/pkg/errors"
	"github.com/sahaya-relief/camp-api/pkg/jobs"
	"github.com/sahaya-relief/camp-api/pkg/mailer"
)

// JobTypeCampCredentials identifies credential e-mails on the mail queue.
const JobTypeCampCredentials = "camp_credentials"

type mailSender interface {
	Send(ctx context.Context, msg mailer.Message) error
}

// NotificationService delivers outbound e-mail on a background queue so a
// slow or failing relay never blocks the request that triggered it.
type NotificationService struct {
	sender  mailSender
	queue   *jobs.Queue
	metrics *MetricsService
	logger  *zap.Logger
}

// NewNotificationService builds the service and its mail queue. Call Start
// before sending.
func NewNotificationService(sender mailSender, metrics *MetricsService, logger *zap.Logger, queueCfg jobs.QueueConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &NotificationService{sender: sender, metrics: metrics, logger: logger}
	queueCfg.Logger = logger
	queueCfg.OnExhausted = s.onExhausted
	s.queue = jobs.NewQueue("mail", s.deliver, queueCfg)
	return s
}

// Start launches the mail workers.
func (s *NotificationService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop halts the mail workers.
func (s *NotificationService) Stop() {
	s.queue.Stop()
}

// SendCampCredentials renders and enqueues the onboarding e-mail for a camp.
func (s *NotificationService) SendCampCredentials(_ context.Context, creds mailer.CampCredentials) error {
	msg, err := mailer.RenderCredentials(creds)
	if err != nil {
		return appErrors.Internal(err, "failed to render credentials email")
	}
	if err := s.queue.Enqueue(jobs.Job{Type: JobTypeCampCredentials, Payload: msg}); err != nil {
		return appErrors.Wrap(err, appErrors.ErrUpstreamFailure.Code, appErrors.ErrUpstreamFailure.Status, "failed to queue credentials email")
	}
	s.logger.Info("credentials email queued", zap.String("camp_id", creds.CampID), zap.String("to", creds.Email))
	return nil
}

func (s *NotificationService) deliver(ctx context.Context, job jobs.Job) error {
	msg, ok := job.Payload.(mailer.Message)
	if !ok {
		s.logger.Error("unexpected mail payload", zap.String("job_id", job.ID), zap.String("type", job.Type))
		return nil
	}
	if err := s.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("deliver %s: %w", job.Type, err)
	}
	s.metrics.RecordMailDelivery("sent")
	s.logger.Info("email delivered", zap.String("job_id", job.ID), zap.String("to", msg.To))
	return nil
}

func (s *NotificationService) onExhausted(job jobs.Job, err error) {
	s.metrics.RecordMailDelivery("failed")
	to := ""
	if msg, ok := job.Payload.(mailer.Message); ok {
		to = msg.To
	}
	s.logger.Error("email delivery failed",
		zap.String("code", appErrors.CodeUpstreamFailure),
		zap.String("job_id", job.ID),
		zap.String("to", to),
		zap.Int("attempts", job.Attempt),
		zap.Error(err),
	)
}
