package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nbelyaev/linewatch/internal/domain"
)

func TestListPlanTasks_FilterAndMapping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/production/plan/", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "2", q.Get("line"))
		assert.Equal(t, "01-12-2025", q.Get("start_date"))
		assert.Equal(t, "31-12-2025", q.Get("end_date"))

		w.Write([]byte(envelopeOK(`[
			{"id":14,"title":"Йогурт 2%","start_dt":"03-12-2025","end_dt":"07-12-2025",
			 "line":{"id":2,"name":"Линия А"},"product":{"id":9,"name":"Йогурт"},"source":"manual"},
			{"id":15,"title":"bad dates","start_dt":"2025-12-03","end_dt":"07-12-2025"}
		]`)))
	}))
	defer srv.Close()

	tasks, err := testClient(srv.URL).ListPlanTasks(context.Background(), ListFilter{
		LineID:    "2",
		StartDate: "01-12-2025",
		EndDate:   "31-12-2025",
	})
	require.NoError(t, err)

	// The ISO-dated row is dropped, not fatal.
	require.Len(t, tasks, 1)
	assert.Equal(t, "14", tasks[0].ID)
	assert.Equal(t, "2", tasks[0].LineID)
	assert.Equal(t, "Линия А", tasks[0].LineName)
	assert.Equal(t, "Йогурт", tasks[0].Product)
	assert.Equal(t, "03-12-2025..07-12-2025", tasks[0].Window.String())
}

func TestListDowntimes_NormalizesStatusAndPartialFlags(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/production/downtimes/", r.URL.Path)
		assert.Equal(t, "0.7", r.URL.Query().Get("min_confidence"))

		w.Write([]byte(envelopeOK(`[
			{"id":"3","line":{"id":2,"name":"Линия А"},
			 "start_dt":"05-12-2025","end_dt":"09-12-2025",
			 "status":"утверждено","kind":"ремонт","source":"llm",
			 "confidence":0.92,"partial_date_end":true,
			 "source_file":"downtime_plan.docx","evidence_quote":"остановка линии А"}
		]`)))
	}))
	defer srv.Close()

	downtimes, err := testClient(srv.URL).ListDowntimes(context.Background(), ListFilter{MinConfidence: 0.7})
	require.NoError(t, err)
	require.Len(t, downtimes, 1)

	dt := downtimes[0]
	assert.Equal(t, domain.DowntimeApproved, dt.Status)
	assert.Equal(t, domain.SourceLLM, dt.Source)
	assert.False(t, dt.Window.StartApprox)
	assert.True(t, dt.Window.EndApprox)
	require.NotNil(t, dt.Confidence)
	assert.InDelta(t, 0.92, *dt.Confidence, 1e-9)
}

func TestListConflicts_FlattensNestedShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/production/conflicts/", r.URL.Path)
		w.Write([]byte(envelopeOK(`[
			{"id":"conflict_14_3","level":"critical","code":"CONFLICT_DETECTED",
			 "text":"Линия А: план пересекается с простоем",
			 "plan_task":{"id":14,"title":"Йогурт 2%","start_dt":"03-12-2025","end_dt":"07-12-2025",
			              "line":{"id":2,"name":"Линия А"}},
			 "downtime":{"id":3,"start_dt":"05-12-2025","end_dt":"09-12-2025",
			             "status":"утверждено","kind":"ремонт",
			             "line":{"id":2,"name":"Линия А"}},
			 "overlap_start":"05-12-2025","overlap_end":"07-12-2025",
			 "priority_status":"утверждено"}
		]`)))
	}))
	defer srv.Close()

	rows, err := testClient(srv.URL).ListConflicts(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)

	rc := rows[0]
	assert.Equal(t, "conflict_14_3", rc.ID)
	assert.Equal(t, domain.DowntimeApproved, rc.PriorityStatus)
	require.NotNil(t, rc.Task)
	assert.Equal(t, "14", rc.Task.ID)
	require.NotNil(t, rc.Downtime)
	assert.Equal(t, "3", rc.Downtime.ID)
	require.True(t, rc.HasOverlap)
	assert.Equal(t, "05-12-2025..07-12-2025", rc.Overlap.String())
	assert.Equal(t, 3, domain.DaysInclusive(rc.Overlap.Start, rc.Overlap.End))
}
