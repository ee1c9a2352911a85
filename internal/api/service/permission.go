package service

import "api/internal/api/models"

// Permission rules are pure functions over (role, actor, job); they never
// touch a store. An unknown role always denies, so a new AppRole constant
// forces a decision in every switch below.

// CanTransition reports whether the actor may move the job to target.
//   - admins may perform any transition on any job
//   - staff may act only on jobs assigned to them, and never cancel
//   - customers may only cancel their own job while it is still
//     pending or assigned
func CanTransition(role models.AppRole, actorID uint, job models.Job, target models.JobStatus) bool {
	switch role {
	case models.RoleAdmin:
		return true
	case models.RoleStaff:
		if job.AssignedTo == nil || *job.AssignedTo != actorID {
			return false
		}
		return target != models.StatusCancelled
	case models.RoleCustomer:
		if job.CreatedBy != actorID || target != models.StatusCancelled {
			return false
		}
		return job.Status == models.StatusPending || job.Status == models.StatusAssigned
	}
	return false
}

// CanAttachEvidence reports whether the actor may attach photos or GPS
// fixes to the job: admins, the assignee, and the creator may.
func CanAttachEvidence(role models.AppRole, actorID uint, job models.Job) bool {
	switch role {
	case models.RoleAdmin:
		return true
	case models.RoleStaff, models.RoleCustomer:
		if job.AssignedTo != nil && *job.AssignedTo == actorID {
			return true
		}
		return job.CreatedBy == actorID
	}
	return false
}
