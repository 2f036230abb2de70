package models

import "time"

// Rating holds both directions of a job's review in one row: the worker rating
// the client and the client rating the worker. One row per job.
type Rating struct {
	ID    string `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	JobID string `gorm:"type:uuid;not null;uniqueIndex" json:"job_id"`

	// worker_rating is the worker's score of the client; client_rating is
	// the client's score of the worker.
	WorkerRating  *int   `gorm:"check:worker_rating >= 1 AND worker_rating <= 5" json:"worker_rating,omitempty"`
	WorkerComment string `gorm:"type:text" json:"worker_comment,omitempty"`
	ClientRating  *int   `gorm:"check:client_rating >= 1 AND client_rating <= 5" json:"client_rating,omitempty"`
	ClientComment string `gorm:"type:text" json:"client_comment,omitempty"`

	CreatedAt time.Time `gorm:"default:now()" json:"created_at"`
}
