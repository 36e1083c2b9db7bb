package echoapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/tasktutor/core/task"
)

type plannerApi struct {
	svc *task.Service
	now func() time.Time
}

func registerPlannerAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *task.Service, now func() time.Time) {
	api := plannerApi{svc: svc, now: now}

	pg := g.Group("/planner", jwt)
	pg.GET("/export.ics", api.exportICS)
	pg.GET("/day/:date", api.day)
	pg.POST("/move", api.move)
	pg.GET("/:year/:month", api.month)
}

type (
	MonthResponse struct {
		Year         int         `json:"year"`
		Month        int         `json:"month"`
		Title        string      `json:"title"`
		FirstWeekday int         `json:"first_weekday"`
		Days         int         `json:"days"`
		Cells        []task.Cell `json:"cells"`
	}

	DayResponse struct {
		Date  string         `json:"date"`
		Tasks []TaskResponse `json:"tasks"`
	}

	// MoveRequest is a task dropped on a day cell of the displayed month.
	// TaskID is the raw drag payload: anything but a positive number is ignored.
	MoveRequest struct {
		Year   int    `json:"year"`
		Month  int    `json:"month"`
		Day    int    `json:"day"`
		TaskID string `json:"task_id"`
	}
)

func (api *plannerApi) month(ctx echo.Context) error {
	userID, err := contextUserID(ctx)
	if err != nil {
		return err
	}
	m, err := paramMonth(ctx)
	if err != nil {
		return err
	}
	tasks, err := api.svc.Tasks(ctx.Request().Context(), userID)
	if err != nil {
		return errors.Wrap(err, "querying tasks")
	}
	now := api.now()
	p := task.NewPlanner(now)
	p.Month = m
	return ctx.JSON(http.StatusOK, MonthResponse{
		Year:         m.Year,
		Month:        int(m.Month),
		Title:        m.String(),
		FirstWeekday: m.FirstWeekday(),
		Days:         m.Days(),
		Cells:        p.Grid(tasks, now),
	})
}

func (api *plannerApi) day(ctx echo.Context) error {
	userID, err := contextUserID(ctx)
	if err != nil {
		return err
	}
	date, err := paramDate(ctx, "date")
	if err != nil {
		return err
	}
	tasks, err := api.svc.Tasks(ctx.Request().Context(), userID)
	if err != nil {
		return errors.Wrap(err, "querying tasks")
	}
	return ctx.JSON(http.StatusOK, DayResponse{
		Date:  task.FormatDate(date),
		Tasks: withLabels(task.TasksOnDate(date, tasks), api.now()),
	})
}

func (api *plannerApi) move(ctx echo.Context) error {
	userID, err := contextUserID(ctx)
	if err != nil {
		return err
	}
	var data MoveRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(errBadRequest, err.Error())
	}
	m := task.Month{Year: data.Year, Month: time.Month(data.Month)}
	if data.Month < 1 || data.Month > 12 || data.Day < 1 || data.Day > m.Days() {
		return errors.Wrap(errBadRequest, "day out of range")
	}
	t, err := api.svc.MoveTaskToDay(ctx.Request().Context(), userID, m, task.ParseDrop(data.TaskID, data.Day))
	if err != nil {
		return errors.Wrap(err, "moving task")
	}
	return ctx.JSON(http.StatusOK, t)
}

func (api *plannerApi) exportICS(ctx echo.Context) error {
	userID, err := contextUserID(ctx)
	if err != nil {
		return err
	}
	tasks, err := api.svc.Tasks(ctx.Request().Context(), userID)
	if err != nil {
		return errors.Wrap(err, "querying tasks")
	}
	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", "tasktutor.ics"))
	return ctx.Blob(http.StatusOK, "text/calendar; charset=utf-8", []byte(task.BuildCalendarICS(tasks, userID, api.now())))
}
