package echoapi

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/tasktutor/core"
	"github.com/trezcool/tasktutor/core/task"
)

// paramInt reads an integer path parameter; malformed values are reported as not found.
func paramInt(ctx echo.Context, name string) (int, error) {
	v, err := strconv.Atoi(ctx.Param(name))
	if err != nil {
		return 0, errHttpNotFound
	}
	return v, nil
}

// bindCriteria reads the Tasks page filters from the query string.
func bindCriteria(ctx echo.Context) task.Criteria {
	q := ctx.QueryParams()
	return task.Criteria{
		Status:   core.CleanString(q.Get("status"), true /* lower */),
		Priority: core.CleanString(q.Get("priority"), true /* lower */),
		Subject:  core.CleanString(q.Get("subject")),
		Due:      task.DueBucket(core.CleanString(q.Get("due"), true /* lower */)),
		Search:   q.Get("search"),
	}
}

// paramDate reads a YYYY-MM-DD path parameter.
func paramDate(ctx echo.Context, name string) (time.Time, error) {
	d, err := task.ParseDate(ctx.Param(name))
	if err != nil {
		return time.Time{}, core.NewValidationError(nil, core.FieldError{Field: name, Error: "must be a date formatted as YYYY-MM-DD"})
	}
	return d, nil
}

// paramMonth reads the :year and :month path parameters.
func paramMonth(ctx echo.Context) (task.Month, error) {
	year, err := strconv.Atoi(ctx.Param("year"))
	if err != nil || year < 1 || year > 9999 {
		return task.Month{}, core.NewValidationError(nil, core.FieldError{Field: "year", Error: "must be a year between 1 and 9999"})
	}
	month, err := strconv.Atoi(ctx.Param("month"))
	if err != nil || month < 1 || month > 12 {
		return task.Month{}, core.NewValidationError(nil, core.FieldError{Field: "month", Error: "must be a month between 1 and 12"})
	}
	return task.Month{Year: year, Month: time.Month(month)}, nil
}

func bindFields(ctx echo.Context) (task.Fields, error) {
	var f task.Fields
	if err := ctx.Bind(&f); err != nil {
		return f, errors.Wrap(errBadRequest, err.Error())
	}
	return f, nil
}
