package models

// JobApplication is a worker's bid on a pending job. The composite unique
// index makes a second application by the same worker a constraint violation,
// which the repository reports as "already applied".
type JobApplication struct {
	BaseModel
	JobID    string `gorm:"type:uuid;not null;uniqueIndex:uq_job_worker_application" json:"job_id"`
	WorkerID string `gorm:"type:uuid;not null;uniqueIndex:uq_job_worker_application" json:"worker_id"`
	// IsAccepted flips to true exactly once, when the client accepts this bid.
	IsAccepted bool `gorm:"not null;default:false" json:"is_accepted"`

	// Relations
	Job      *Job      `gorm:"foreignKey:JobID" json:"job,omitempty"`
	Worker   *Worker   `gorm:"foreignKey:WorkerID" json:"worker,omitempty"`
	Messages []Message `gorm:"foreignKey:ApplicationID;constraint:OnDelete:CASCADE" json:"-"`
}
