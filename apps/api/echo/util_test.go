package echoapi_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/trezcool/tasktutor/apps/api/echo"
	"github.com/trezcool/tasktutor/core/auth"
	"github.com/trezcool/tasktutor/core/task"
	"github.com/trezcool/tasktutor/tests"
)

const pwd = "s3cret-Pass"

var (
	now = time.Date(2026, time.February, 13, 15, 30, 0, 0, time.UTC)

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
	errNotFound     = httpErr{Error: "not found"}
)

type testApp struct {
	echoapi.Server
	env     *testutil.Env
	taskSvc *task.Service
}

func setup(t *testing.T, opts ...task.ServiceOption) testApp {
	env := testutil.NewEnv(t)
	taskSvc := task.NewService(task.NewRepository(env.Store), env.Validate, opts...)
	return testApp{
		Server: echoapi.NewServer(
			&echoapi.Options{
				AppName:        env.Conf.AppName,
				TestMode:       true,
				DisableReqLogs: true,
				Validate:       env.Validate,
				Translator:     env.Translator,
				AuthSvc:        env.Auth,
				TaskSvc:        taskSvc,
				NowFunc:        func() time.Time { return now },
			},
			nil,
		),
		env:     env,
		taskSvc: taskSvc,
	}
}

// signUp creates an account and returns it with a valid access token.
func (app testApp) signUp(t *testing.T, email string) (auth.Account, string) {
	acc := testutil.CreateAccount(t, app.env.Auth, email, pwd, true)
	sess, err := app.env.Auth.IssueSession(acc)
	if err != nil {
		t.Fatalf("IssueSession() failed: %v", err)
	}
	return acc, sess.AccessToken
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func (app testApp) do(tt httpTest) *httptest.ResponseRecorder {
	req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
	app.ServeHTTP(rec, req)
	return rec
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func unmarshal(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("json.Unmarshal(%s) failed: %v", rec.Body.String(), err)
	}
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

// checkCodeAndData checks the status code, and the body when tt.wantData is set.
func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
