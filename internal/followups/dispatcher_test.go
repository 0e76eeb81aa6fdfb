package followups

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dentalops/leadflow/internal/leads"
)

func TestDispatcherDrainsDueJobsOnStart(t *testing.T) {
	f := newFixture(t)
	lead := f.seedLead(t, leads.StatusQualified)
	tpl := f.seedTemplate(t, &Template{})
	_, err := f.service.Schedule(context.Background(), ScheduleRequest{Lead: lead.ID, Template: tpl.ID})
	require.NoError(t, err)

	dispatcher := NewDispatcher(f.service, time.Hour, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		dispatcher.Run(ctx)
		close(done)
	}()

	// The initial sweep runs before the first tick.
	require.Eventually(t, func() bool {
		pending, err := f.jobs.List(context.Background(), JobPending)
		return err == nil && len(pending) == 0
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("dispatcher did not stop on context cancel")
	}
	assert.Len(t, f.sender.sent, 1)
}

func TestNewDispatcherDefaultsInterval(t *testing.T) {
	d := NewDispatcher(nil, 0, nil)
	assert.Equal(t, time.Minute, d.interval)
}
