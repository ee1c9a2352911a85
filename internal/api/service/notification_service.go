package service

import (
	"api"
	"api/internal/api/apperr"
	"api/internal/api/event"
	"api/internal/api/models"
	"api/internal/api/repo"
	"api/pkg"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

const (
	adminCacheKey = "field:admins"
	adminCacheTTL = 5 * time.Minute
	unreadTTL     = time.Minute
)

// NotificationService turns domain events into persisted notifications plus
// best-effort live pushes. The rows are the source of truth: a subscriber
// that missed a push catches up by re-querying on reconnect.
type NotificationService struct {
	notifications NotificationStore
	users         UserStore
	pusher        LivePusher
	sendMail      Mailer
	logger        zerolog.Logger
}

func NewNotificationService(pusher LivePusher) *NotificationService {
	return &NotificationService{
		notifications: repo.NewNotificationRepository(),
		users:         repo.NewUserRepository(),
		pusher:        pusher,
		sendMail:      pkg.SendEmail,
		logger:        api.Logger,
	}
}

// jobEventPayload is what job-detail watchers receive on their topic.
type jobEventPayload struct {
	Type      string           `json:"type"`
	JobID     uint             `json:"jobId"`
	Status    models.JobStatus `json:"status"`
	ActorID   uint             `json:"actorId"`
	Timestamp time.Time        `json:"timestamp"`
}

// HandleEvent is the bus handler. Runs on the bus goroutine, so events for
// the same job are processed in the order they were published.
func (slf *NotificationService) HandleEvent(e event.Event) {
	switch ev := e.(type) {
	case event.JobAssigned:
		slf.handleAssigned(ev)
	case event.JobStatusChanged:
		slf.handleStatusChanged(ev)
	default:
		slf.logger.Warn().Str("event", e.Name()).Msg("Unknown event type")
	}
}

func (slf *NotificationService) handleAssigned(ev event.JobAssigned) {
	slf.pushJobEvent(ev.Name(), ev.Job, ev.ActorID)

	if ev.AssigneeID == ev.ActorID {
		return
	}
	slf.notify(models.Notification{
		UserID:  ev.AssigneeID,
		Type:    models.NotificationAssigned,
		Title:   fmt.Sprintf("New job assigned: %s", ev.Job.Title),
		Message: fmt.Sprintf("You have been assigned to %q at %s", ev.Job.Title, ev.Job.Location),
		JobID:   ev.Job.ID,
	})
}

func (slf *NotificationService) handleStatusChanged(ev event.JobStatusChanged) {
	slf.pushJobEvent(ev.Name(), ev.Job, ev.ActorID)

	notified := map[uint]bool{ev.ActorID: true}

	recipients := []uint{ev.Job.CreatedBy}
	if ev.Job.AssignedTo != nil {
		recipients = append(recipients, *ev.Job.AssignedTo)
	}
	for _, userID := range recipients {
		if notified[userID] {
			continue
		}
		notified[userID] = true
		slf.notify(models.Notification{
			UserID:  userID,
			Type:    models.NotificationStatusChanged,
			Title:   fmt.Sprintf("Job updated: %s", ev.Job.Title),
			Message: fmt.Sprintf("Status changed from %s to %s", ev.OldStatus, ev.NewStatus),
			JobID:   ev.Job.ID,
		})
	}

	if ev.Job.Priority != models.PriorityUrgent {
		return
	}

	admins, err := slf.adminIDs()
	if err != nil {
		slf.logger.Error().Err(err).Uint("jobId", ev.Job.ID).Msg("Failed to resolve admin audience")
		return
	}
	var emailed []string
	for _, admin := range admins {
		if notified[admin.ID] {
			continue
		}
		notified[admin.ID] = true
		slf.notify(models.Notification{
			UserID:  admin.ID,
			Type:    models.NotificationUrgent,
			Title:   fmt.Sprintf("Urgent job updated: %s", ev.Job.Title),
			Message: fmt.Sprintf("Status changed from %s to %s", ev.OldStatus, ev.NewStatus),
			JobID:   ev.Job.ID,
		})
		emailed = append(emailed, admin.Email)
	}

	if len(emailed) > 0 && slf.sendMail != nil {
		slf.emailAdmins(emailed, ev)
	}
}

// notify persists the notification, then pushes it to the recipient's live
// topic. The push is best-effort: a failure is logged and swallowed.
func (slf *NotificationService) notify(notification models.Notification) {
	if err := slf.notifications.Create(&notification); err != nil {
		slf.logger.Error().
			Err(err).
			Uint("userId", notification.UserID).
			Uint("jobId", notification.JobID).
			Msg("Failed to persist notification")
		return
	}

	if err := pkg.RedisDelete(unreadCacheKey(notification.UserID)); err != nil {
		slf.logger.Debug().Err(err).Msg("Failed to invalidate unread cache")
	}

	if slf.pusher == nil {
		return
	}
	if err := slf.pusher.PushToUser(notification.UserID, notification); err != nil {
		slf.logger.Warn().
			Err(err).
			Uint("userId", notification.UserID).
			Msg("Live push failed, notification persisted")
	}
}

func (slf *NotificationService) pushJobEvent(name string, job models.Job, actorID uint) {
	if slf.pusher == nil {
		return
	}
	payload := jobEventPayload{
		Type:      name,
		JobID:     job.ID,
		Status:    job.Status,
		ActorID:   actorID,
		Timestamp: time.Now(),
	}
	if err := slf.pusher.PushToJob(job.ID, payload); err != nil {
		slf.logger.Warn().Err(err).Uint("jobId", job.ID).Msg("Job event push failed")
	}
}

// adminIDs resolves the active admin list through a short-lived Redis cache.
func (slf *NotificationService) adminIDs() ([]models.User, error) {
	var cached []models.User
	if err := pkg.RedisGet(adminCacheKey, &cached); err == nil {
		return cached, nil
	} else if !pkg.IsRedisNil(err) {
		slf.logger.Debug().Err(err).Msg("Admin cache read failed")
	}

	admins, err := slf.users.FindAdmins()
	if err != nil {
		return nil, err
	}
	if err := pkg.RedisSet(adminCacheKey, admins, adminCacheTTL); err != nil {
		slf.logger.Debug().Err(err).Msg("Admin cache write failed")
	}
	return admins, nil
}

func (slf *NotificationService) emailAdmins(recipients []string, ev event.JobStatusChanged) {
	msg := pkg.EmailMessage{
		To:      recipients,
		Subject: fmt.Sprintf("[FieldOps] Urgent job updated: %s", ev.Job.Title),
		Body: fmt.Sprintf("Job #%d %q at %s changed from %s to %s.",
			ev.Job.ID, ev.Job.Title, ev.Job.Location, ev.OldStatus, ev.NewStatus),
	}
	if err := slf.sendMail(msg); err != nil {
		slf.logger.Warn().Err(err).Uint("jobId", ev.Job.ID).Msg("Failed to email admins")
	}
}

// ListForUser retrieves the user's notifications, newest first.
func (slf *NotificationService) ListForUser(userID uint) ([]models.Notification, error) {
	return slf.notifications.ListForUser(userID)
}

// UnreadCount serves the unread badge, cached for a minute per user.
func (slf *NotificationService) UnreadCount(userID uint) (int64, error) {
	var cached int64
	if err := pkg.RedisGet(unreadCacheKey(userID), &cached); err == nil {
		return cached, nil
	}

	count, err := slf.notifications.CountUnread(userID)
	if err != nil {
		return 0, err
	}
	if err := pkg.RedisSet(unreadCacheKey(userID), count, unreadTTL); err != nil {
		slf.logger.Debug().Err(err).Msg("Unread cache write failed")
	}
	return count, nil
}

// MarkRead flags the notification as read. Only the recipient may; repeated
// calls are no-ops.
func (slf *NotificationService) MarkRead(notificationID uint, requesterID uint) error {
	notification, err := slf.notifications.FindByID(notificationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: notification %d", apperr.ErrNotFound, notificationID)
		}
		slf.logger.Error().Err(err).Uint("notificationId", notificationID).Msg("Error loading notification")
		return err
	}
	if notification.UserID != requesterID {
		return fmt.Errorf("%w: notification %d belongs to another user", apperr.ErrForbidden, notificationID)
	}
	if notification.IsRead {
		return nil
	}

	if err := slf.notifications.MarkRead(notificationID); err != nil {
		slf.logger.Error().Err(err).Uint("notificationId", notificationID).Msg("Error marking notification read")
		return err
	}
	if err := pkg.RedisDelete(unreadCacheKey(requesterID)); err != nil {
		slf.logger.Debug().Err(err).Msg("Failed to invalidate unread cache")
	}
	return nil
}

func unreadCacheKey(userID uint) string {
	return fmt.Sprintf("field:unread:%d", userID)
}
