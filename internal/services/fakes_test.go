package services

import (
	"fmt"
	"strings"
	"time"

	"servifast_backend/internal/models"
	"servifast_backend/internal/repositories"
)

// In-memory repository fakes. They keep the sentinel-error contract of the
// real implementations so services can be tested without a database.

type fakeUserRepo struct {
	users  map[string]*models.User
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*models.User{}}
}

func (f *fakeUserRepo) FindByID(id string) (*models.User, error) {
	if user, ok := f.users[id]; ok {
		return user, nil
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) FindByEmail(email string) (*models.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) Create(user *models.User) error {
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return repositories.ErrUserAlreadyExists
		}
	}
	f.nextID++
	if user.ID == "" {
		user.ID = fmt.Sprintf("user-%d", f.nextID)
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) Update(user *models.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return repositories.ErrUserNotFound
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) CountByRole(role models.UserRole) (int64, error) {
	var count int64
	for _, user := range f.users {
		if user.Role == role {
			count++
		}
	}
	return count, nil
}

type fakeWorkerRepo struct {
	workers map[string]*models.Worker
	nextID  int
}

func newFakeWorkerRepo() *fakeWorkerRepo {
	return &fakeWorkerRepo{workers: map[string]*models.Worker{}}
}

func (f *fakeWorkerRepo) Create(worker *models.Worker) error {
	for _, existing := range f.workers {
		if existing.UserID == worker.UserID {
			return repositories.ErrWorkerAlreadyExists
		}
	}
	f.nextID++
	if worker.ID == "" {
		worker.ID = fmt.Sprintf("worker-%d", f.nextID)
	}
	f.workers[worker.ID] = worker
	return nil
}

func (f *fakeWorkerRepo) FindByID(id string) (*models.Worker, error) {
	if worker, ok := f.workers[id]; ok {
		return worker, nil
	}
	return nil, repositories.ErrWorkerNotFound
}

func (f *fakeWorkerRepo) FindByUserID(userID string) (*models.Worker, error) {
	for _, worker := range f.workers {
		if worker.UserID == userID {
			return worker, nil
		}
	}
	return nil, repositories.ErrWorkerNotFound
}

func (f *fakeWorkerRepo) Update(worker *models.Worker) error {
	if _, ok := f.workers[worker.ID]; !ok {
		return repositories.ErrWorkerNotFound
	}
	f.workers[worker.ID] = worker
	return nil
}

func (f *fakeWorkerRepo) FindAvailable(filter repositories.WorkerFilter) ([]models.Worker, int64, error) {
	var out []models.Worker
	for _, worker := range f.workers {
		if !worker.IsAvailable {
			continue
		}
		if filter.District != "" && worker.District != filter.District {
			continue
		}
		if filter.ServiceType != "" && !strings.Contains(string(worker.Services), filter.ServiceType) {
			continue
		}
		if filter.OnlyPlus && !worker.HasActivePlus(time.Now()) {
			continue
		}
		out = append(out, *worker)
	}
	return out, int64(len(out)), nil
}

func (f *fakeWorkerRepo) FindPendingVerification() ([]models.Worker, error) {
	var out []models.Worker
	for _, worker := range f.workers {
		if !worker.IsVerified && worker.VerificationPhotoURL != "" {
			out = append(out, *worker)
		}
	}
	return out, nil
}

func (f *fakeWorkerRepo) UpdatePlusStatus(workerID string, active bool, expiresAt *time.Time) error {
	worker, ok := f.workers[workerID]
	if !ok {
		return repositories.ErrWorkerNotFound
	}
	worker.IsPlusActive = active
	worker.PlusExpiresAt = expiresAt
	return nil
}

func (f *fakeWorkerRepo) ClearExpiredPlusFlags(now time.Time) (int64, error) {
	var cleared int64
	for _, worker := range f.workers {
		if worker.IsPlusActive && (worker.PlusExpiresAt == nil || !worker.PlusExpiresAt.After(now)) {
			worker.IsPlusActive = false
			cleared++
		}
	}
	return cleared, nil
}

type fakeJobRepo struct {
	jobs   map[string]*models.Job
	nextID int

	// appRepo, when set, lets FindByIDWithRelations emulate the real
	// repository's Preload("Applications").
	appRepo *fakeApplicationRepo
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{jobs: map[string]*models.Job{}}
}

func (f *fakeJobRepo) Create(job *models.Job) error {
	f.nextID++
	if job.ID == "" {
		job.ID = fmt.Sprintf("job-%d", f.nextID)
	}
	job.CreatedAt = time.Now()
	f.jobs[job.ID] = job
	return nil
}

func (f *fakeJobRepo) FindByID(id string) (*models.Job, error) {
	if job, ok := f.jobs[id]; ok {
		return job, nil
	}
	return nil, repositories.ErrJobNotFound
}

func (f *fakeJobRepo) FindByIDWithRelations(id string) (*models.Job, error) {
	job, err := f.FindByID(id)
	if err != nil {
		return nil, err
	}
	if f.appRepo != nil {
		apps, err := f.appRepo.FindByJob(job.ID)
		if err != nil {
			return nil, err
		}
		job.Applications = apps
	}
	return job, nil
}

func (f *fakeJobRepo) Update(job *models.Job) error {
	if _, ok := f.jobs[job.ID]; !ok {
		return repositories.ErrJobNotFound
	}
	f.jobs[job.ID] = job
	return nil
}

func (f *fakeJobRepo) UpdateStatus(jobID string, status models.JobStatus, fields map[string]interface{}) error {
	job, ok := f.jobs[jobID]
	if !ok {
		return repositories.ErrJobNotFound
	}
	job.Status = status
	for key, value := range fields {
		switch key {
		case "started_at":
			t := value.(time.Time)
			job.StartedAt = &t
		case "completed_at":
			t := value.(time.Time)
			job.CompletedAt = &t
		case "extras":
			job.Extras = value.(float64)
		case "total_amount":
			job.TotalAmount = value.(float64)
		}
	}
	return nil
}

func (f *fakeJobRepo) AssignWorker(jobID, workerID string) error {
	job, ok := f.jobs[jobID]
	if !ok {
		return repositories.ErrJobNotFound
	}
	if job.WorkerID != nil || job.Status != models.JobStatusPending {
		return repositories.ErrJobNotFound
	}
	job.WorkerID = &workerID
	job.Status = models.JobStatusAccepted
	return nil
}

func (f *fakeJobRepo) FindAvailable(filter repositories.JobFilter) ([]models.Job, int64, error) {
	var out []models.Job
	for _, job := range f.jobs {
		if job.Status != models.JobStatusPending || job.WorkerID != nil {
			continue
		}
		if filter.ServiceType != "" && job.ServiceType != filter.ServiceType {
			continue
		}
		if filter.Search != "" {
			needle := strings.ToLower(filter.Search)
			haystack := strings.ToLower(job.Title + " " + job.Description + " " + job.Address + " " + job.ServiceType)
			if !strings.Contains(haystack, needle) {
				continue
			}
		}
		out = append(out, *job)
	}
	return out, int64(len(out)), nil
}

func (f *fakeJobRepo) FindByClient(clientID string, filter repositories.JobFilter) ([]models.Job, int64, error) {
	var out []models.Job
	for _, job := range f.jobs {
		if job.ClientID != clientID {
			continue
		}
		if filter.Status != "" && job.Status != filter.Status {
			continue
		}
		out = append(out, *job)
	}
	return out, int64(len(out)), nil
}

func (f *fakeJobRepo) FindByWorker(workerID string, filter repositories.JobFilter) ([]models.Job, int64, error) {
	var out []models.Job
	for _, job := range f.jobs {
		if job.WorkerID == nil || *job.WorkerID != workerID {
			continue
		}
		if filter.Status != "" && job.Status != filter.Status {
			continue
		}
		out = append(out, *job)
	}
	return out, int64(len(out)), nil
}

func (f *fakeJobRepo) FindActiveByWorker(workerID string) (*models.Job, error) {
	for _, job := range f.jobs {
		if job.WorkerID == nil || *job.WorkerID != workerID {
			continue
		}
		for _, status := range models.ActiveJobStatuses() {
			if job.Status == status {
				return job, nil
			}
		}
	}
	return nil, repositories.ErrJobNotFound
}

type fakeApplicationRepo struct {
	apps   map[string]*models.JobApplication
	nextID int
}

func newFakeApplicationRepo() *fakeApplicationRepo {
	return &fakeApplicationRepo{apps: map[string]*models.JobApplication{}}
}

func (f *fakeApplicationRepo) Create(app *models.JobApplication) error {
	for _, existing := range f.apps {
		if existing.JobID == app.JobID && existing.WorkerID == app.WorkerID {
			return repositories.ErrDuplicateApplication
		}
	}
	f.nextID++
	if app.ID == "" {
		app.ID = fmt.Sprintf("app-%d", f.nextID)
	}
	app.CreatedAt = time.Now()
	f.apps[app.ID] = app
	return nil
}

func (f *fakeApplicationRepo) FindByID(id string) (*models.JobApplication, error) {
	if app, ok := f.apps[id]; ok {
		return app, nil
	}
	return nil, repositories.ErrApplicationNotFound
}

func (f *fakeApplicationRepo) FindByJob(jobID string) ([]models.JobApplication, error) {
	var out []models.JobApplication
	for _, app := range f.apps {
		if app.JobID == jobID {
			out = append(out, *app)
		}
	}
	return out, nil
}

func (f *fakeApplicationRepo) FindByWorker(workerID string) ([]models.JobApplication, error) {
	var out []models.JobApplication
	for _, app := range f.apps {
		if app.WorkerID == workerID {
			out = append(out, *app)
		}
	}
	return out, nil
}

func (f *fakeApplicationRepo) FindByJobAndWorker(jobID, workerID string) (*models.JobApplication, error) {
	for _, app := range f.apps {
		if app.JobID == jobID && app.WorkerID == workerID {
			return app, nil
		}
	}
	return nil, repositories.ErrApplicationNotFound
}

func (f *fakeApplicationRepo) MarkAccepted(id string) error {
	app, ok := f.apps[id]
	if !ok {
		return repositories.ErrApplicationNotFound
	}
	app.IsAccepted = true
	return nil
}

type fakeSubscriptionRepo struct {
	subs   map[string]*models.WorkerSubscription
	nextID int
}

func newFakeSubscriptionRepo() *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{subs: map[string]*models.WorkerSubscription{}}
}

func (f *fakeSubscriptionRepo) Create(sub *models.WorkerSubscription) error {
	f.nextID++
	if sub.ID == "" {
		sub.ID = fmt.Sprintf("sub-%d", f.nextID)
	}
	sub.CreatedAt = time.Now()
	f.subs[sub.ID] = sub
	return nil
}

func (f *fakeSubscriptionRepo) FindByID(id string) (*models.WorkerSubscription, error) {
	if sub, ok := f.subs[id]; ok {
		return sub, nil
	}
	return nil, repositories.ErrSubscriptionNotFound
}

func (f *fakeSubscriptionRepo) FindLatestActive(workerID string, now time.Time) (*models.WorkerSubscription, error) {
	var latest *models.WorkerSubscription
	for _, sub := range f.subs {
		if sub.WorkerID != workerID || sub.Status != models.SubscriptionStatusActive {
			continue
		}
		if !sub.ValidUntil.After(now) {
			continue
		}
		if latest == nil || sub.ValidUntil.After(latest.ValidUntil) {
			latest = sub
		}
	}
	if latest == nil {
		return nil, repositories.ErrSubscriptionNotFound
	}
	return latest, nil
}

func (f *fakeSubscriptionRepo) FindByWorker(workerID string, limit, offset int) ([]models.WorkerSubscription, int64, error) {
	var out []models.WorkerSubscription
	for _, sub := range f.subs {
		if sub.WorkerID == workerID {
			out = append(out, *sub)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeSubscriptionRepo) UpdateStatus(id string, status models.SubscriptionStatus) error {
	sub, ok := f.subs[id]
	if !ok {
		return repositories.ErrSubscriptionNotFound
	}
	sub.Status = status
	return nil
}

func (f *fakeSubscriptionRepo) CancelActive(workerID string, now time.Time) (int64, error) {
	var cancelled int64
	for _, sub := range f.subs {
		if sub.WorkerID == workerID && sub.Status == models.SubscriptionStatusActive {
			sub.Status = models.SubscriptionStatusCancelled
			cancelled++
		}
	}
	return cancelled, nil
}

func (f *fakeSubscriptionRepo) ExpireLapsed(now time.Time) (int64, error) {
	var expired int64
	for _, sub := range f.subs {
		if sub.Status == models.SubscriptionStatusActive && !sub.ValidUntil.After(now) {
			sub.Status = models.SubscriptionStatusExpired
			expired++
		}
	}
	return expired, nil
}

type fakeMessageRepo struct {
	messages []*models.Message
	nextID   int
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{}
}

func sameChat(message *models.Message, jobID string, applicationID *string) bool {
	if message.JobID != jobID {
		return false
	}
	if applicationID == nil {
		return message.ApplicationID == nil
	}
	return message.ApplicationID != nil && *message.ApplicationID == *applicationID
}

func (f *fakeMessageRepo) Create(message *models.Message) error {
	f.nextID++
	if message.ID == "" {
		message.ID = fmt.Sprintf("msg-%d", f.nextID)
	}
	message.CreatedAt = time.Now()
	f.messages = append(f.messages, message)
	return nil
}

func (f *fakeMessageRepo) FindByChat(jobID string, applicationID *string, limit, offset int) ([]models.Message, error) {
	var out []models.Message
	for _, message := range f.messages {
		if sameChat(message, jobID, applicationID) {
			out = append(out, *message)
		}
	}
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeMessageRepo) CountByChat(jobID string, applicationID *string) (int64, error) {
	var count int64
	for _, message := range f.messages {
		if sameChat(message, jobID, applicationID) {
			count++
		}
	}
	return count, nil
}

type fakeRatingRepo struct {
	ratings map[string]*models.Rating // keyed by job ID
	nextID  int
}

func newFakeRatingRepo() *fakeRatingRepo {
	return &fakeRatingRepo{ratings: map[string]*models.Rating{}}
}

func (f *fakeRatingRepo) Create(rating *models.Rating) error {
	f.nextID++
	if rating.ID == "" {
		rating.ID = fmt.Sprintf("rating-%d", f.nextID)
	}
	f.ratings[rating.JobID] = rating
	return nil
}

func (f *fakeRatingRepo) FindByJob(jobID string) (*models.Rating, error) {
	if rating, ok := f.ratings[jobID]; ok {
		return rating, nil
	}
	return nil, repositories.ErrRatingNotFound
}

func (f *fakeRatingRepo) Update(rating *models.Rating) error {
	if _, ok := f.ratings[rating.JobID]; !ok {
		return repositories.ErrRatingNotFound
	}
	f.ratings[rating.JobID] = rating
	return nil
}

func (f *fakeRatingRepo) WorkerAverage(workerID string) (float64, int64, error) {
	return 0, 0, nil
}

type fakeCommissionRepo struct {
	commissions map[string]*models.Commission
	nextID      int
}

func newFakeCommissionRepo() *fakeCommissionRepo {
	return &fakeCommissionRepo{commissions: map[string]*models.Commission{}}
}

func (f *fakeCommissionRepo) Create(commission *models.Commission) error {
	for _, existing := range f.commissions {
		if existing.JobID == commission.JobID {
			return repositories.ErrCommissionExists
		}
	}
	f.nextID++
	if commission.ID == "" {
		commission.ID = fmt.Sprintf("commission-%d", f.nextID)
	}
	f.commissions[commission.ID] = commission
	return nil
}

func (f *fakeCommissionRepo) FindByID(id string) (*models.Commission, error) {
	if commission, ok := f.commissions[id]; ok {
		return commission, nil
	}
	return nil, repositories.ErrCommissionNotFound
}

func (f *fakeCommissionRepo) FindByWorker(workerID string, limit, offset int) ([]models.Commission, int64, error) {
	var out []models.Commission
	for _, commission := range f.commissions {
		if commission.WorkerID == workerID {
			out = append(out, *commission)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeCommissionRepo) FindPendingByWorker(workerID string) ([]models.Commission, error) {
	var out []models.Commission
	for _, commission := range f.commissions {
		if commission.WorkerID == workerID && commission.Status == models.CommissionStatusPending {
			out = append(out, *commission)
		}
	}
	return out, nil
}

func (f *fakeCommissionRepo) FindByStatus(status models.CommissionStatus, limit, offset int) ([]models.Commission, int64, error) {
	var out []models.Commission
	for _, commission := range f.commissions {
		if commission.Status == status {
			out = append(out, *commission)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeCommissionRepo) Update(commission *models.Commission) error {
	if _, ok := f.commissions[commission.ID]; !ok {
		return repositories.ErrCommissionNotFound
	}
	f.commissions[commission.ID] = commission
	return nil
}

func (f *fakeCommissionRepo) SumPendingByWorker(workerID string) (float64, error) {
	var sum float64
	for _, commission := range f.commissions {
		if commission.WorkerID != workerID {
			continue
		}
		if commission.Status == models.CommissionStatusPending ||
			commission.Status == models.CommissionStatusPaymentSubmitted {
			sum += commission.Amount
		}
	}
	return sum, nil
}
