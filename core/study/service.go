package study

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/tasktutor/core"
	"github.com/trezcool/tasktutor/core/user"
)

var NowFunc = time.Now // mockable

type (
	// UserChecker tells whether a public user profile exists.
	UserChecker interface {
		Exists(ctx context.Context, id string) (bool, error)
	}

	Service struct {
		store    core.RecordStore
		users    UserChecker
		validate *validator.Validate
	}
)

var _ UserChecker = (*user.Service)(nil)

func NewService(store core.RecordStore, users UserChecker, validate *validator.Validate) *Service {
	return &Service{store: store, users: users, validate: validate}
}

func (svc *Service) checkUser(ctx context.Context, id string) error {
	ok, err := svc.users.Exists(ctx, id)
	if err != nil {
		return errors.Wrap(err, "checking user")
	}
	if !ok {
		return ErrUnknownUser
	}
	return nil
}

// LogActivity records a study activity for an existing user.
func (svc *Service) LogActivity(ctx context.Context, na NewActivity) (Activity, error) {
	if err := na.Validate(svc.validate); err != nil {
		return Activity{}, err
	}
	if err := svc.checkUser(ctx, na.UserID); err != nil {
		return Activity{}, err
	}
	if !IsActivityType(na.ActivityType) {
		return Activity{}, ErrInvalidType
	}

	row := core.Record{
		"id":               uuid.NewString(),
		"user_id":          na.UserID,
		"activity_type":    na.ActivityType,
		"items_total":      na.ItemsTotal,
		"items_correct":    na.ItemsCorrect,
		"duration_minutes": na.DurationMinutes,
		"created_at":       NowFunc().UTC(),
	}
	if na.Topic != "" {
		row["topic"] = na.Topic
	} else {
		row["topic"] = nil
	}
	rec, err := svc.store.Insert(ctx, ActivityTable, row)
	if err != nil {
		return Activity{}, errors.Wrap(err, "inserting study activity")
	}
	return activityFromRecord(rec), nil
}

// ListActivities returns the user's activities, newest first.
func (svc *Service) ListActivities(ctx context.Context, userID string) ([]Activity, error) {
	recs, err := svc.store.Select(ctx, ActivityTable, core.Match{"user_id": core.CleanString(userID)}, core.DBOrdering{Field: "created_at"})
	if err != nil {
		return nil, errors.Wrap(err, "querying study activity")
	}
	acts := make([]Activity, 0, len(recs))
	for _, rec := range recs {
		acts = append(acts, activityFromRecord(rec))
	}
	return acts, nil
}

func (svc *Service) DeleteActivity(ctx context.Context, id string) error {
	return svc.delete(ctx, ActivityTable, id)
}

// LogSession records a study session for an existing user; the percentage is computed.
func (svc *Service) LogSession(ctx context.Context, ns NewSession) (Session, error) {
	if err := ns.Validate(svc.validate); err != nil {
		return Session{}, err
	}
	if err := svc.checkUser(ctx, ns.UserID); err != nil {
		return Session{}, err
	}

	rec, err := svc.store.Insert(ctx, SessionTable, core.Record{
		"id":               uuid.NewString(),
		"user_id":          ns.UserID,
		"session_type":     ns.SessionType,
		"duration_minutes": ns.DurationMinutes,
		"score":            ns.Score,
		"total_possible":   ns.TotalPossible,
		"percentage":       Percentage(ns.Score, ns.TotalPossible),
		"created_at":       NowFunc().UTC(),
	})
	if err != nil {
		return Session{}, errors.Wrap(err, "inserting study session")
	}
	return sessionFromRecord(rec), nil
}

// ListSessions returns the user's sessions, newest first.
func (svc *Service) ListSessions(ctx context.Context, userID string) ([]Session, error) {
	recs, err := svc.store.Select(ctx, SessionTable, core.Match{"user_id": core.CleanString(userID)}, core.DBOrdering{Field: "created_at"})
	if err != nil {
		return nil, errors.Wrap(err, "querying study sessions")
	}
	sessions := make([]Session, 0, len(recs))
	for _, rec := range recs {
		sessions = append(sessions, sessionFromRecord(rec))
	}
	return sessions, nil
}

func (svc *Service) DeleteSession(ctx context.Context, id string) error {
	return svc.delete(ctx, SessionTable, id)
}

func (svc *Service) delete(ctx context.Context, table, id string) error {
	if _, err := svc.store.Delete(ctx, table, core.Match{"id": id}); err != nil {
		if errors.Cause(err) == core.ErrRecordNotFound {
			return ErrNotFound
		}
		return errors.Wrapf(err, "deleting from %s", table)
	}
	return nil
}
