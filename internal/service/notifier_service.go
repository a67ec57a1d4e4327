package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/scanpoint/attendance-api/internal/models"
	"github.com/scanpoint/attendance-api/internal/sms"
	"github.com/scanpoint/attendance-api/pkg/config"
	"github.com/scanpoint/attendance-api/pkg/jobs"
)

type notificationLogStore interface {
	Insert(ctx context.Context, entry *models.NotificationLog) error
}

// channel is one (phone number, audience) pairing targeted for delivery.
type channel struct {
	phone     string
	toStudent bool
}

// NotifierService fans a recorded scan out to the student's contact numbers.
// It is strictly best-effort: nothing in here ever fails the scan that
// triggered it, and a failure on one channel never blocks the other.
type NotifierService struct {
	logs        notificationLogStore
	transport   sms.Transport
	metrics     *MetricsService
	logger      *zap.Logger
	enabled     bool
	sendTimeout time.Duration
	now         func() time.Time

	queue *jobs.Queue
}

// NotifierParams groups constructor dependencies.
type NotifierParams struct {
	Logs        notificationLogStore
	Transport   sms.Transport
	Metrics     *MetricsService
	Logger      *zap.Logger
	Enabled     bool
	SendTimeout time.Duration
}

// NewNotifierService constructs the notifier.
func NewNotifierService(params NotifierParams) *NotifierService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	sendTimeout := params.SendTimeout
	if sendTimeout <= 0 {
		sendTimeout = 10 * time.Second
	}
	return &NotifierService{
		logs:        params.Logs,
		transport:   params.Transport,
		metrics:     params.Metrics,
		logger:      logger,
		enabled:     params.Enabled,
		sendTimeout: sendTimeout,
		now:         time.Now,
	}
}

// StartQueue begins background dispatch so scan responses do not wait on the
// transport. Without a started queue Dispatch falls back to inline delivery.
func (s *NotifierService) StartQueue(ctx context.Context, cfg config.NotificationsConfig) {
	handler := func(ctx context.Context, job jobs.Job) error {
		payload, ok := job.Payload.(notificationJob)
		if !ok {
			s.logger.Error("unexpected notification payload", zap.String("job_id", job.ID))
			return nil
		}
		s.Notify(ctx, payload.Student, payload.Record)
		// Transport failures are logged per channel, never retried here.
		return nil
	}
	s.queue = jobs.NewQueue("notifications", handler, jobs.QueueConfig{
		Workers:    cfg.Workers,
		BufferSize: cfg.BufferSize,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
		Logger:     s.logger,
	})
	s.queue.Start(ctx)
}

// StopQueue drains the background workers.
func (s *NotifierService) StopQueue() {
	if s.queue != nil {
		s.queue.Stop()
	}
}

type notificationJob struct {
	Student models.Student
	Record  models.AttendanceRecord
}

// Dispatch hands the notification work off and returns immediately. Callers
// never see the delivery outcome.
func (s *NotifierService) Dispatch(student models.Student, record models.AttendanceRecord) {
	if s.queue != nil {
		job := jobs.Job{ID: record.ID, Type: "attendance_notification", Payload: notificationJob{Student: student, Record: record}}
		if err := s.queue.Enqueue(job); err == nil {
			return
		}
		s.logger.Warn("notification enqueue failed, delivering inline", zap.String("record_id", record.ID))
	}
	s.Notify(context.Background(), student, record)
}

// Notify delivers the attendance alert on every configured channel. Each
// channel is attempted and logged independently.
func (s *NotifierService) Notify(ctx context.Context, student models.Student, record models.AttendanceRecord) {
	if !s.enabled {
		s.logger.Debug("notifications disabled", zap.String("lrn", student.LRN))
		return
	}
	for _, ch := range channels(student) {
		s.deliver(ctx, student, record, ch)
	}
}

// channels builds the target set: guardian phone, then student phone when it
// is present and distinct, so the same number is never notified twice.
func channels(student models.Student) []channel {
	var targets []channel
	guardian := ""
	if student.GuardianPhone != nil && *student.GuardianPhone != "" {
		guardian = *student.GuardianPhone
		targets = append(targets, channel{phone: guardian})
	}
	if student.StudentPhone != nil && *student.StudentPhone != "" && *student.StudentPhone != guardian {
		targets = append(targets, channel{phone: *student.StudentPhone, toStudent: true})
	}
	return targets
}

func (s *NotifierService) deliver(ctx context.Context, student models.Student, record models.AttendanceRecord, ch channel) {
	body := renderMessage(student, record, ch.toStudent)

	sendCtx, cancel := context.WithTimeout(ctx, s.sendTimeout)
	result, err := s.transport.Send(sendCtx, ch.phone, body)
	cancel()

	entry := &models.NotificationLog{
		StudentID:   student.ID,
		PhoneNumber: ch.phone,
		Message:     body,
		Provider:    s.transport.Name(),
	}
	if err != nil {
		detail := err.Error()
		entry.Status = models.NotificationStatusFailed
		entry.ErrorDetail = &detail
		s.logger.Warn("notification send failed",
			zap.String("lrn", student.LRN),
			zap.String("phone", ch.phone),
			zap.Error(err))
	} else {
		sentAt := s.now().UTC()
		entry.Status = models.NotificationStatusSent
		entry.SentAt = &sentAt
		if result != nil && result.MessageID != "" {
			entry.MessageID = &result.MessageID
		}
	}
	s.metrics.RecordNotification(s.transport.Name(), string(entry.Status))

	if logErr := s.logs.Insert(ctx, entry); logErr != nil {
		// Losing a log row is a diagnostics gap, not an attendance failure.
		s.logger.Warn("notification log write failed",
			zap.String("lrn", student.LRN),
			zap.String("phone", ch.phone),
			zap.Error(logErr))
	}
}

// TestSend delivers a canned message for the operator-facing test endpoint.
func (s *NotifierService) TestSend(ctx context.Context, phone string) (*sms.Result, error) {
	if phone == "" {
		return nil, fmt.Errorf("phone number is required")
	}
	now := s.now()
	body := fmt.Sprintf(
		"ATTENDANCE ALERT: Test Student (LRN: 123456789012) has arrived at Test Location on %s at %s. Thank you for using our attendance tracking system.",
		now.Format("Jan 2, 2006"), now.Format("3:04 PM"))

	sendCtx, cancel := context.WithTimeout(ctx, s.sendTimeout)
	defer cancel()
	return s.transport.Send(sendCtx, phone, body)
}

func renderMessage(student models.Student, record models.AttendanceRecord, toStudent bool) string {
	ts := record.ScanTimestamp
	dateStr := ts.Format("Jan 2, 2006")
	timeStr := ts.Format("3:04 PM")
	if toStudent {
		return fmt.Sprintf("ATTENDANCE ALERT: You (%s, LRN: %s) have arrived at %s on %s at %s.",
			student.Name, student.LRN, record.ScanLocation, dateStr, timeStr)
	}
	return fmt.Sprintf("ATTENDANCE ALERT: %s (LRN: %s) has arrived at %s on %s at %s. Thank you for using our attendance tracking system.",
		student.Name, student.LRN, record.ScanLocation, dateStr, timeStr)
}
