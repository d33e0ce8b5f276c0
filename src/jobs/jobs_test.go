package jobs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCancelAndWait(t *testing.T) {
	t.Run("all finish in time", func(t *testing.T) {
		var js Jobs
		for i := 0; i < 3; i++ {
			job := New("quick")
			js = append(js, job)
			go func() {
				defer job.Finish()
				<-job.Canceled()
			}()
		}

		unfinished := js.CancelAndWait(time.Second)
		assert.Empty(t, unfinished)
	})

	t.Run("stragglers are reported", func(t *testing.T) {
		good := New("good")
		go func() {
			defer good.Finish()
			<-good.Canceled()
		}()
		stuck := New("stuck")

		js := Jobs{good, stuck}
		unfinished := js.CancelAndWait(50 * time.Millisecond)
		assert.Equal(t, []string{"stuck"}, unfinished)

		stuck.Finish()
		assert.Empty(t, js.ListUnfinished())
	})
}

func TestJobLifecycle(t *testing.T) {
	job := New("lifecycle")

	select {
	case <-job.Canceled():
		t.Fatal("job should not start out canceled")
	default:
	}

	job.Cancel()
	select {
	case <-job.Canceled():
	case <-time.After(time.Second):
		t.Fatal("Cancel did not cancel the job's context")
	}

	job.Finish()
	select {
	case <-job.Finished():
	case <-time.After(time.Second):
		t.Fatal("Finish did not close the done channel")
	}
}
