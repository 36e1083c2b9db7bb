package task

import (
	"context"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

type (
	ServiceOption func(*Service)

	// Service owns one Store per user. Mutations are serialized and persisted through the Repository;
	// a Store is restored to its previous snapshot when persisting fails.
	Service struct {
		repo     *Repository
		validate *validator.Validate
		seed     []Task

		mu     sync.Mutex
		stores map[string]*Store
	}
)

// WithSeed sets the tasks given once to users whose collection is empty on their first load.
func WithSeed(tasks []Task) ServiceOption {
	return func(svc *Service) { svc.seed = copyTasks(tasks) }
}

func NewService(repo *Repository, validate *validator.Validate, opts ...ServiceOption) *Service {
	svc := &Service{
		repo:     repo,
		validate: validate,
		stores:   make(map[string]*Store),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// DefaultSeed are the sample tasks of a new dashboard.
func DefaultSeed() []Task {
	return []Task{
		{ID: 1, Title: "Review Biology Ch 3", DueDate: "2026-02-13", Status: StatusCompleted, Priority: PriorityHigh, Subject: "Biology", Course: "Biology 101"},
		{ID: 2, Title: "Chemistry Quiz Practice", DueDate: "2026-02-13", Status: StatusPending, Priority: PriorityHigh, Subject: "Chemistry", Course: "Chem 201"},
		{ID: 3, Title: "Math Problem Set 5", DueDate: "2026-02-14", Status: StatusPending, Priority: PriorityMedium, Subject: "Math", Course: "Calculus II"},
		{ID: 4, Title: "Read Physics Chapter 6", DueDate: "2026-02-15", Status: StatusPending, Priority: PriorityLow, Subject: "Physics", Course: ""},
		{ID: 5, Title: "Group Study Session", DueDate: "2026-02-13", Status: StatusPending, Priority: PriorityMedium, Subject: "Biology", Course: "Biology 101"},
	}
}

// store loads the user's Store on first use. svc.mu must be held.
func (svc *Service) store(ctx context.Context, userID string) (*Store, error) {
	if st, ok := svc.stores[userID]; ok {
		return st, nil
	}
	tasks, err := svc.repo.QueryByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "loading tasks")
	}
	if len(svc.seed) > 0 {
		if tasks, err = svc.seedOnce(ctx, userID, tasks); err != nil {
			return nil, err
		}
	}
	st := NewStore(svc.validate, tasks...)
	svc.stores[userID] = st
	return st, nil
}

// seedOnce gives the sample tasks to a user seen for the first time with no tasks.
// A user who later deletes every task keeps an empty collection.
func (svc *Service) seedOnce(ctx context.Context, userID string, tasks []Task) ([]Task, error) {
	seeded, err := svc.repo.IsSeeded(ctx, userID)
	if err != nil || seeded {
		return tasks, err
	}
	if len(tasks) == 0 {
		for _, t := range svc.seed {
			if err := svc.repo.Insert(ctx, userID, t); err != nil {
				return nil, errors.Wrap(err, "seeding tasks")
			}
		}
		tasks = copyTasks(svc.seed)
	}
	if err := svc.repo.MarkSeeded(ctx, userID); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (svc *Service) mutate(ctx context.Context, userID string, change func(*Store) (Task, error), persist func(Task) error) (Task, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	st, err := svc.store(ctx, userID)
	if err != nil {
		return Task{}, err
	}
	prev := st.Tasks()
	t, err := change(st)
	if err != nil {
		return Task{}, err
	}
	if err := persist(t); err != nil {
		st.Replace(prev)
		return Task{}, err
	}
	return t, nil
}

// Tasks returns a snapshot of the user's collection.
func (svc *Service) Tasks(ctx context.Context, userID string) ([]Task, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	st, err := svc.store(ctx, userID)
	if err != nil {
		return nil, err
	}
	return st.Tasks(), nil
}

func (svc *Service) Get(ctx context.Context, userID string, id int) (Task, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	st, err := svc.store(ctx, userID)
	if err != nil {
		return Task{}, err
	}
	return st.Get(id)
}

func (svc *Service) Filter(ctx context.Context, userID string, c Criteria, now time.Time) ([]Task, error) {
	tasks, err := svc.Tasks(ctx, userID)
	if err != nil {
		return nil, err
	}
	return c.Apply(tasks, now), nil
}

func (svc *Service) Create(ctx context.Context, userID string, f Fields) (Task, error) {
	return svc.mutate(ctx, userID,
		func(st *Store) (Task, error) { return st.Create(f) },
		func(t Task) error { return svc.repo.Insert(ctx, userID, t) },
	)
}

func (svc *Service) Update(ctx context.Context, userID string, id int, f Fields) (Task, error) {
	return svc.mutate(ctx, userID,
		func(st *Store) (Task, error) { return st.Update(id, f) },
		func(t Task) error { return svc.repo.Save(ctx, userID, t) },
	)
}

func (svc *Service) ToggleStatus(ctx context.Context, userID string, id int) (Task, error) {
	return svc.mutate(ctx, userID,
		func(st *Store) (Task, error) { return st.ToggleStatus(id) },
		func(t Task) error { return svc.repo.Save(ctx, userID, t) },
	)
}

func (svc *Service) Remove(ctx context.Context, userID string, id int, confirm func(Task) bool) (Task, error) {
	return svc.mutate(ctx, userID,
		func(st *Store) (Task, error) { return st.Remove(id, confirm) },
		func(t Task) error { return svc.repo.Delete(ctx, userID, t.ID) },
	)
}

// MoveTaskToDay applies a planner drop on the displayed month.
func (svc *Service) MoveTaskToDay(ctx context.Context, userID string, m Month, d Drop) (Task, error) {
	return svc.mutate(ctx, userID,
		func(st *Store) (Task, error) { return m.MoveTaskToDay(st, d) },
		func(t Task) error { return svc.repo.Save(ctx, userID, t) },
	)
}

// Forget drops the cached Store of a user (e.g. on sign out).
func (svc *Service) Forget(userID string) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	delete(svc.stores, userID)
}
