package echoapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/tasktutor/core/task"
)

type taskApi struct {
	svc *task.Service
	now func() time.Time
}

func registerTaskAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *task.Service, now func() time.Time) {
	api := taskApi{svc: svc, now: now}

	tg := g.Group("/tasks", jwt)
	tg.GET("", api.query)
	tg.POST("", api.create)
	tg.GET("/subjects", api.subjects)
	tg.GET("/summary", api.summary)
	tg.GET("/:id", api.retrieve)
	tg.PUT("/:id", api.update)
	tg.POST("/:id/toggle", api.toggle)
	tg.DELETE("/:id", api.destroy)
}

// TaskResponse is a task with its due label.
type TaskResponse struct {
	task.Task
	DueLabel string `json:"dueLabel"`
}

func withLabels(tasks []task.Task, now time.Time) []TaskResponse {
	res := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		res = append(res, TaskResponse{Task: t, DueLabel: task.DueLabel(t, now)})
	}
	return res
}

type SummaryResponse struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Completed int `json:"completed"`
}

func (api *taskApi) query(ctx echo.Context) error {
	userID, err := contextUserID(ctx)
	if err != nil {
		return err
	}
	now := api.now()
	tasks, err := api.svc.Filter(ctx.Request().Context(), userID, bindCriteria(ctx), now)
	if err != nil {
		return errors.Wrap(err, "filtering tasks")
	}
	return ctx.JSON(http.StatusOK, withLabels(tasks, now))
}

func (api *taskApi) create(ctx echo.Context) error {
	userID, err := contextUserID(ctx)
	if err != nil {
		return err
	}
	f, err := bindFields(ctx)
	if err != nil {
		return err
	}
	t, err := api.svc.Create(ctx.Request().Context(), userID, f)
	if err != nil {
		return errors.Wrap(err, "creating task")
	}
	return ctx.JSON(http.StatusCreated, t)
}

func (api *taskApi) retrieve(ctx echo.Context) error {
	userID, err := contextUserID(ctx)
	if err != nil {
		return err
	}
	id, err := paramInt(ctx, "id")
	if err != nil {
		return err
	}
	t, err := api.svc.Get(ctx.Request().Context(), userID, id)
	if err != nil {
		return errors.Wrap(err, "retrieving task")
	}
	return ctx.JSON(http.StatusOK, TaskResponse{Task: t, DueLabel: task.DueLabel(t, api.now())})
}

func (api *taskApi) update(ctx echo.Context) error {
	userID, err := contextUserID(ctx)
	if err != nil {
		return err
	}
	id, err := paramInt(ctx, "id")
	if err != nil {
		return err
	}
	f, err := bindFields(ctx)
	if err != nil {
		return err
	}
	t, err := api.svc.Update(ctx.Request().Context(), userID, id, f)
	if err != nil {
		return errors.Wrap(err, "updating task")
	}
	return ctx.JSON(http.StatusOK, t)
}

func (api *taskApi) toggle(ctx echo.Context) error {
	userID, err := contextUserID(ctx)
	if err != nil {
		return err
	}
	id, err := paramInt(ctx, "id")
	if err != nil {
		return err
	}
	t, err := api.svc.ToggleStatus(ctx.Request().Context(), userID, id)
	if err != nil {
		return errors.Wrap(err, "toggling task status")
	}
	return ctx.JSON(http.StatusOK, t)
}

// destroy deletes without a confirmation step: the client confirms before calling.
func (api *taskApi) destroy(ctx echo.Context) error {
	userID, err := contextUserID(ctx)
	if err != nil {
		return err
	}
	id, err := paramInt(ctx, "id")
	if err != nil {
		return err
	}
	if _, err := api.svc.Remove(ctx.Request().Context(), userID, id, nil); err != nil {
		return errors.Wrap(err, "deleting task")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *taskApi) subjects(ctx echo.Context) error {
	userID, err := contextUserID(ctx)
	if err != nil {
		return err
	}
	tasks, err := api.svc.Tasks(ctx.Request().Context(), userID)
	if err != nil {
		return errors.Wrap(err, "querying tasks")
	}
	return ctx.JSON(http.StatusOK, task.Subjects(tasks))
}

func (api *taskApi) summary(ctx echo.Context) error {
	userID, err := contextUserID(ctx)
	if err != nil {
		return err
	}
	tasks, err := api.svc.Tasks(ctx.Request().Context(), userID)
	if err != nil {
		return errors.Wrap(err, "querying tasks")
	}
	pending, completed := task.Counts(tasks)
	return ctx.JSON(http.StatusOK, SummaryResponse{Total: len(tasks), Pending: pending, Completed: completed})
}
