// Package postgrest is a core.RecordStore over a hosted PostgREST API (e.g. Supabase).
package postgrest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/sendgrid/rest"

	"github.com/trezcool/tasktutor/core"
)

const restPath = "/rest/v1"

type (
	Store struct {
		baseURL string
		key     string
		client  *rest.Client
	}

	// apiError is the error body returned by PostgREST.
	apiError struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details string `json:"details"`
		Hint    string `json:"hint"`
	}
)

var _ core.RecordStore = (*Store)(nil) // interface compliance check

func (e apiError) Error() string {
	if e.Code != "" {
		return e.Code + ": " + e.Message
	}
	return e.Message
}

// New creates a Store for the project URL and API key. A nil client uses http.DefaultClient.
func New(projectURL, key string, client *http.Client) *Store {
	if client == nil {
		client = http.DefaultClient
	}
	base := strings.TrimRight(projectURL, "/")
	if !strings.HasSuffix(base, restPath) {
		base += restPath
	}
	return &Store{
		baseURL: base,
		key:     key,
		client:  &rest.Client{HTTPClient: client},
	}
}

func (s *Store) request(method rest.Method, table string, match core.Match) rest.Request {
	params := map[string]string{"select": "*"}
	for col, val := range match {
		params[col] = "eq." + fmt.Sprint(val)
	}
	return rest.Request{
		Method:  method,
		BaseURL: s.baseURL + "/" + table,
		Headers: map[string]string{
			"apikey":        s.key,
			"Authorization": "Bearer " + s.key,
			"Accept":        "application/json",
			"Content-Type":  "application/json",
			"Prefer":        "return=representation",
		},
		QueryParams: params,
	}
}

func (s *Store) send(ctx context.Context, req rest.Request) ([]core.Record, error) {
	httpReq, err := rest.BuildRequestObject(req)
	if err != nil {
		return nil, errors.Wrap(err, "building request")
	}
	httpRes, err := s.client.MakeRequest(httpReq.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	res, err := rest.BuildResponse(httpRes)
	if err != nil {
		return nil, errors.Wrap(err, "reading response")
	}
	if res.StatusCode >= http.StatusBadRequest {
		apiErr := apiError{}
		if err := json.Unmarshal([]byte(res.Body), &apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = fmt.Sprintf("status %d: %s", res.StatusCode, res.Body)
		}
		return nil, apiErr
	}

	recs := make([]core.Record, 0)
	if strings.TrimSpace(res.Body) == "" {
		return recs, nil
	}
	if err := json.Unmarshal([]byte(res.Body), &recs); err != nil {
		return nil, errors.Wrap(err, "decoding response")
	}
	return recs, nil
}

func checkIdents(table string, cols map[string]interface{}) error {
	if err := core.CheckIdent(table); err != nil {
		return err
	}
	for col := range cols {
		if err := core.CheckIdent(col); err != nil {
			return err
		}
	}
	return nil
}

func first(recs []core.Record) (core.Record, error) {
	if len(recs) == 0 {
		return nil, core.ErrRecordNotFound
	}
	return recs[0], nil
}

func (s *Store) Select(ctx context.Context, table string, match core.Match, ordering ...core.DBOrdering) ([]core.Record, error) {
	if err := checkIdents(table, match); err != nil {
		return nil, err
	}
	req := s.request(rest.Get, table, match)
	if len(ordering) > 0 {
		orders := make([]string, 0, len(ordering))
		for _, ord := range ordering {
			if err := core.CheckIdent(ord.Field); err != nil {
				return nil, err
			}
			dir := "desc"
			if ord.Ascending {
				dir = "asc"
			}
			orders = append(orders, ord.Field+"."+dir)
		}
		req.QueryParams["order"] = strings.Join(orders, ",")
	}
	recs, err := s.send(ctx, req)
	return recs, errors.Wrapf(err, "selecting from %s", table)
}

func (s *Store) Insert(ctx context.Context, table string, row core.Record) (core.Record, error) {
	if err := checkIdents(table, row); err != nil {
		return nil, err
	}
	body, err := json.Marshal(row)
	if err != nil {
		return nil, errors.Wrap(err, "encoding row")
	}
	req := s.request(rest.Post, table, nil)
	req.Body = body

	recs, err := s.send(ctx, req)
	if err != nil {
		return nil, errors.Wrapf(err, "inserting into %s", table)
	}
	return first(recs)
}

func (s *Store) Update(ctx context.Context, table string, match core.Match, fields core.Record) (core.Record, error) {
	if err := checkIdents(table, match); err != nil {
		return nil, err
	}
	if err := checkIdents(table, fields); err != nil {
		return nil, err
	}
	body, err := json.Marshal(fields)
	if err != nil {
		return nil, errors.Wrap(err, "encoding fields")
	}
	req := s.request(rest.Patch, table, match)
	req.Body = body

	recs, err := s.send(ctx, req)
	if err != nil {
		return nil, errors.Wrapf(err, "updating %s", table)
	}
	return first(recs)
}

func (s *Store) Delete(ctx context.Context, table string, match core.Match) (core.Record, error) {
	if err := checkIdents(table, match); err != nil {
		return nil, err
	}
	recs, err := s.send(ctx, s.request(rest.Delete, table, match))
	if err != nil {
		return nil, errors.Wrapf(err, "deleting from %s", table)
	}
	return first(recs)
}
