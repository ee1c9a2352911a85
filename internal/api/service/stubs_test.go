package service

import (
	"api/internal/api/apperr"
	"api/internal/api/event"
	"api/internal/api/models"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// In-memory store stubs standing in for the GORM repositories. They keep the
// same not-found semantics (gorm.ErrRecordNotFound) so the services'
// translation paths get exercised.

type stubJobStore struct {
	mu      sync.Mutex
	nextID  uint
	jobs    map[uint]models.Job
	updates []models.JobUpdate

	casErr error
}

func newStubJobStore() *stubJobStore {
	return &stubJobStore{jobs: make(map[uint]models.Job)}
}

func (slf *stubJobStore) put(job models.Job) models.Job {
	slf.mu.Lock()
	defer slf.mu.Unlock()
	if job.ID == 0 {
		slf.nextID++
		job.ID = slf.nextID
	} else if job.ID > slf.nextID {
		slf.nextID = job.ID
	}
	if job.Version == 0 {
		job.Version = 1
	}
	slf.jobs[job.ID] = job
	return job
}

func (slf *stubJobStore) FindByID(id uint) (models.Job, error) {
	slf.mu.Lock()
	defer slf.mu.Unlock()
	job, ok := slf.jobs[id]
	if !ok {
		return models.Job{}, gorm.ErrRecordNotFound
	}
	return job, nil
}

func (slf *stubJobStore) Create(job *models.Job) error {
	*job = slf.put(*job)
	return nil
}

func (slf *stubJobStore) Query(filter models.JobFilter) ([]models.Job, error) {
	slf.mu.Lock()
	defer slf.mu.Unlock()
	var out []models.Job
	for _, job := range slf.jobs {
		if filter.Status != nil && job.Status != *filter.Status {
			continue
		}
		if filter.Priority != nil && job.Priority != *filter.Priority {
			continue
		}
		if filter.AssignedTo != nil && (job.AssignedTo == nil || *job.AssignedTo != *filter.AssignedTo) {
			continue
		}
		if filter.CreatedBy != nil && job.CreatedBy != *filter.CreatedBy {
			continue
		}
		out = append(out, job)
	}
	return out, nil
}

func (slf *stubJobStore) CompareAndSwapUpdate(jobID uint, expectedVersion uint, patch map[string]any, update *models.JobUpdate) error {
	if slf.casErr != nil {
		return slf.casErr
	}

	slf.mu.Lock()
	defer slf.mu.Unlock()
	job, ok := slf.jobs[jobID]
	if !ok || job.Version != expectedVersion {
		return apperr.ErrConflict
	}

	if v, ok := patch["status"]; ok {
		job.Status = v.(models.JobStatus)
	}
	if v, ok := patch["completed_at"]; ok {
		job.CompletedAt, _ = v.(*time.Time)
	}
	if v, ok := patch["assigned_to"]; ok {
		id := v.(uint)
		job.AssignedTo = &id
	}
	job.Version++
	slf.jobs[jobID] = job

	if update != nil {
		slf.updates = append(slf.updates, *update)
	}
	return nil
}

func (slf *stubJobStore) Delete(id uint) error {
	slf.mu.Lock()
	defer slf.mu.Unlock()
	delete(slf.jobs, id)
	return nil
}

func (slf *stubJobStore) ListUpdates(jobID uint) ([]models.JobUpdate, error) {
	slf.mu.Lock()
	defer slf.mu.Unlock()
	var out []models.JobUpdate
	for i := len(slf.updates) - 1; i >= 0; i-- {
		if slf.updates[i].JobID == jobID {
			out = append(out, slf.updates[i])
		}
	}
	return out, nil
}

type stubEvidenceStore struct {
	mu        sync.Mutex
	images    []models.JobImage
	locations []models.JobLocation
}

func (slf *stubEvidenceStore) CreateImage(image *models.JobImage) error {
	slf.mu.Lock()
	defer slf.mu.Unlock()
	image.ID = uint(len(slf.images) + 1)
	slf.images = append(slf.images, *image)
	return nil
}

func (slf *stubEvidenceStore) CreateLocation(location *models.JobLocation) error {
	slf.mu.Lock()
	defer slf.mu.Unlock()
	location.ID = uint(len(slf.locations) + 1)
	slf.locations = append(slf.locations, *location)
	return nil
}

func (slf *stubEvidenceStore) ListImages(jobID uint) ([]models.JobImage, error) {
	slf.mu.Lock()
	defer slf.mu.Unlock()
	var out []models.JobImage
	for _, img := range slf.images {
		if img.JobID == jobID {
			out = append(out, img)
		}
	}
	return out, nil
}

func (slf *stubEvidenceStore) ListLocations(jobID uint) ([]models.JobLocation, error) {
	slf.mu.Lock()
	defer slf.mu.Unlock()
	var out []models.JobLocation
	for _, loc := range slf.locations {
		if loc.JobID == jobID {
			out = append(out, loc)
		}
	}
	return out, nil
}

func (slf *stubEvidenceStore) CountByJob(jobID uint) (int64, error) {
	images, _ := slf.ListImages(jobID)
	locations, _ := slf.ListLocations(jobID)
	return int64(len(images) + len(locations)), nil
}

type stubNotificationStore struct {
	mu            sync.Mutex
	notifications map[uint]models.Notification
	nextID        uint
}

func newStubNotificationStore() *stubNotificationStore {
	return &stubNotificationStore{notifications: make(map[uint]models.Notification)}
}

func (slf *stubNotificationStore) Create(notification *models.Notification) error {
	slf.mu.Lock()
	defer slf.mu.Unlock()
	slf.nextID++
	notification.ID = slf.nextID
	slf.notifications[notification.ID] = *notification
	return nil
}

func (slf *stubNotificationStore) FindByID(id uint) (models.Notification, error) {
	slf.mu.Lock()
	defer slf.mu.Unlock()
	n, ok := slf.notifications[id]
	if !ok {
		return models.Notification{}, gorm.ErrRecordNotFound
	}
	return n, nil
}

func (slf *stubNotificationStore) ListForUser(userID uint) ([]models.Notification, error) {
	slf.mu.Lock()
	defer slf.mu.Unlock()
	var out []models.Notification
	for _, n := range slf.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (slf *stubNotificationStore) MarkRead(id uint) error {
	slf.mu.Lock()
	defer slf.mu.Unlock()
	n, ok := slf.notifications[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	n.IsRead = true
	slf.notifications[id] = n
	return nil
}

func (slf *stubNotificationStore) CountUnread(userID uint) (int64, error) {
	slf.mu.Lock()
	defer slf.mu.Unlock()
	var count int64
	for _, n := range slf.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

type stubUserStore struct {
	users map[uint]models.User
}

func newStubUserStore(users ...models.User) *stubUserStore {
	out := &stubUserStore{users: make(map[uint]models.User)}
	for _, u := range users {
		out.users[u.ID] = u
	}
	return out
}

func (slf *stubUserStore) FindByID(id uint) (models.User, error) {
	u, ok := slf.users[id]
	if !ok {
		return models.User{}, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (slf *stubUserStore) FindAdmins() ([]models.User, error) {
	var out []models.User
	for _, u := range slf.users {
		if u.Role == models.RoleAdmin && u.IsActive {
			out = append(out, u)
		}
	}
	return out, nil
}

// stubPusher records live pushes; failWith makes every push fail.
type stubPusher struct {
	mu         sync.Mutex
	jobPushes  []uint
	userPushes []uint
	failWith   error
}

func (slf *stubPusher) PushToJob(jobID uint, payload any) error {
	slf.mu.Lock()
	defer slf.mu.Unlock()
	if slf.failWith != nil {
		return slf.failWith
	}
	slf.jobPushes = append(slf.jobPushes, jobID)
	return nil
}

func (slf *stubPusher) PushToUser(userID uint, payload any) error {
	slf.mu.Lock()
	defer slf.mu.Unlock()
	if slf.failWith != nil {
		return slf.failWith
	}
	slf.userPushes = append(slf.userPushes, userID)
	return nil
}

func nopLogger() zerolog.Logger { return zerolog.Nop() }

func newNopBus() *event.Bus { return event.NewBus(64, zerolog.Nop()) }

func newTestWorkflow(jobs *stubJobStore, users *stubUserStore) *WorkflowService {
	return &WorkflowService{
		jobs:     jobs,
		evidence: &stubEvidenceStore{},
		users:    users,
		bus:      newNopBus(),
		logger:   zerolog.Nop(),
	}
}

func newTestNotifications(store *stubNotificationStore, users *stubUserStore, pusher LivePusher, mail Mailer) *NotificationService {
	return &NotificationService{
		notifications: store,
		users:         users,
		pusher:        pusher,
		sendMail:      mail,
		logger:        zerolog.Nop(),
	}
}
