package followups

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dentalops/leadflow/internal/leads"
)

func newTestHandler(t *testing.T) (*Handler, *fixture) {
	t.Helper()
	f := newFixture(t)
	return NewHandler(f.templates, f.jobs, f.service, nil), f
}

func TestCreateTemplateValidates(t *testing.T) {
	handler, _ := newTestHandler(t)

	body := `{"name":"","channel":"fax","content":"","trigger_on":"qualified","delay_minutes":-1}`
	req := httptest.NewRequest(http.MethodPost, "/api/followups/templates/", strings.NewReader(body))
	rr := httptest.NewRecorder()
	handler.CreateTemplate(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	var errs map[string][]string
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&errs))
	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "channel")
	assert.Contains(t, errs, "content")
	assert.Contains(t, errs, "delay_minutes")
}

func TestCreateTemplateEmailRequiresSubject(t *testing.T) {
	handler, _ := newTestHandler(t)

	body := `{"name":"Welcome","channel":"email","content":"Hi","trigger_on":"qualified"}`
	req := httptest.NewRequest(http.MethodPost, "/api/followups/templates/", strings.NewReader(body))
	rr := httptest.NewRecorder()
	handler.CreateTemplate(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	var errs map[string][]string
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&errs))
	assert.Equal(t, []string{"Required"}, errs["subject"])
}

func TestCreateTemplateSMSClearsSubject(t *testing.T) {
	handler, _ := newTestHandler(t)

	body := `{"name":"Ping","channel":"sms","subject":"ignored","content":"Hi","trigger_on":"nurture"}`
	req := httptest.NewRequest(http.MethodPost, "/api/followups/templates/", strings.NewReader(body))
	rr := httptest.NewRecorder()
	handler.CreateTemplate(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)
	var created Template
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&created))
	assert.Empty(t, created.Subject)
}

func TestPatchTemplateToSMSClearsSubject(t *testing.T) {
	handler, f := newTestHandler(t)
	tpl := f.seedTemplate(t, &Template{Name: "Welcome", Channel: ChannelEmail, Subject: "Hello"})

	sms := string(ChannelSMS)
	req := httptest.NewRequest(http.MethodPatch, "/api/followups/templates/"+tpl.ID+"/",
		strings.NewReader(`{"channel":"`+sms+`"}`))
	req = withURLParam(req, "id", tpl.ID)
	rr := httptest.NewRecorder()
	handler.PatchTemplate(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var patched Template
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&patched))
	assert.Equal(t, ChannelSMS, patched.Channel)
	assert.Empty(t, patched.Subject)
}

func TestTemplateCRUDRoundTrip(t *testing.T) {
	handler, f := newTestHandler(t)

	body := `{"name":"Welcome","channel":"sms","content":"Hi {{first_name}}","trigger_on":"qualified","delay_minutes":30,"active":true}`
	req := httptest.NewRequest(http.MethodPost, "/api/followups/templates/", strings.NewReader(body))
	rr := httptest.NewRecorder()
	handler.CreateTemplate(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code)

	var created Template
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&created))
	require.NotEmpty(t, created.ID)

	req = httptest.NewRequest(http.MethodPatch, "/api/followups/templates/"+created.ID+"/",
		strings.NewReader(`{"active":false,"delay_minutes":45}`))
	req = withURLParam(req, "id", created.ID)
	rr = httptest.NewRecorder()
	handler.PatchTemplate(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var patched Template
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&patched))
	assert.False(t, patched.Active)
	assert.Equal(t, 45, patched.DelayMinutes)
	assert.Equal(t, "Welcome", patched.Name, "unpatched fields keep their values")

	req = httptest.NewRequest(http.MethodDelete, "/api/followups/templates/"+created.ID+"/", nil)
	req = withURLParam(req, "id", created.ID)
	rr = httptest.NewRecorder()
	handler.DeleteTemplate(rr, req)
	require.Equal(t, http.StatusNoContent, rr.Code)

	remaining, err := f.templates.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestPatchTemplateUnknownID(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPatch, "/api/followups/templates/nope/",
		strings.NewReader(`{"active":false}`))
	req = withURLParam(req, "id", "nope")
	rr := httptest.NewRecorder()
	handler.PatchTemplate(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestListJobsFiltersPending(t *testing.T) {
	handler, f := newTestHandler(t)
	lead := f.seedLead(t, leads.StatusQualified)
	tpl := f.seedTemplate(t, &Template{})

	first, err := f.service.Schedule(context.Background(), ScheduleRequest{Lead: lead.ID, Template: tpl.ID})
	require.NoError(t, err)
	second, err := f.service.Schedule(context.Background(), ScheduleRequest{Lead: lead.ID, Template: tpl.ID})
	require.NoError(t, err)
	_, err = f.service.SendNow(context.Background(), first.ID)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/followups/jobs/?status=pending", nil)
	rr := httptest.NewRecorder()
	handler.ListJobs(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var got []*Job
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
	require.Len(t, got, 1)
	assert.Equal(t, second.ID, got[0].ID)
}

func TestListJobsRejectsUnknownStatus(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/followups/jobs/?status=done", nil)
	rr := httptest.NewRecorder()
	handler.ListJobs(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestScheduleJobRequiresLeadAndTemplate(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/followups/jobs/schedule/", strings.NewReader(`{}`))
	rr := httptest.NewRecorder()
	handler.ScheduleJob(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	var errs map[string][]string
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&errs))
	assert.Equal(t, []string{"Required"}, errs["lead"])
	assert.Equal(t, []string{"Required"}, errs["template"])
}

func TestScheduleJobWithSendNow(t *testing.T) {
	handler, f := newTestHandler(t)
	lead := f.seedLead(t, leads.StatusQualified)
	tpl := f.seedTemplate(t, &Template{})

	body := `{"lead":"` + lead.ID + `","template":"` + tpl.ID + `","send_now":true}`
	req := httptest.NewRequest(http.MethodPost, "/api/followups/jobs/schedule/", strings.NewReader(body))
	rr := httptest.NewRecorder()
	handler.ScheduleJob(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)
	var job Job
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&job))
	assert.Equal(t, JobSent, job.Status)
	assert.Len(t, f.sender.sent, 1)
}

func TestScheduleJobSendNowFailureLeavesPending(t *testing.T) {
	handler, f := newTestHandler(t)
	lead := f.seedLead(t, leads.StatusQualified)
	tpl := f.seedTemplate(t, &Template{})
	f.sender.failure = errors.New("smtp down")

	body := `{"lead":"` + lead.ID + `","template":"` + tpl.ID + `","send_now":true}`
	req := httptest.NewRequest(http.MethodPost, "/api/followups/jobs/schedule/", strings.NewReader(body))
	rr := httptest.NewRecorder()
	handler.ScheduleJob(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code, "schedule succeeded even though dispatch failed")
	var job Job
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&job))
	assert.Equal(t, JobPending, job.Status)

	pending, err := f.jobs.List(context.Background(), JobPending)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestScheduleJobUnknownLead(t *testing.T) {
	handler, f := newTestHandler(t)
	tpl := f.seedTemplate(t, &Template{})

	body := `{"lead":"nope","template":"` + tpl.ID + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/followups/jobs/schedule/", strings.NewReader(body))
	rr := httptest.NewRecorder()
	handler.ScheduleJob(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestSendJobNowEndpoint(t *testing.T) {
	handler, f := newTestHandler(t)
	lead := f.seedLead(t, leads.StatusQualified)
	tpl := f.seedTemplate(t, &Template{})
	job, err := f.service.Schedule(context.Background(), ScheduleRequest{Lead: lead.ID, Template: tpl.ID})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/followups/jobs/"+job.ID+"/send_now/", nil)
	req = withURLParam(req, "id", job.ID)
	rr := httptest.NewRecorder()
	handler.SendJobNow(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var got Job
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
	assert.Equal(t, JobSent, got.Status)

	// A second send conflicts.
	rr = httptest.NewRecorder()
	handler.SendJobNow(rr, req)
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestSendJobNowUnknownID(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/followups/jobs/nope/send_now/", nil)
	req = withURLParam(req, "id", "nope")
	rr := httptest.NewRecorder()
	handler.SendJobNow(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
