package pipeline

import (
	"context"
	"sync"
)

// Job is one image and its landmark file.
type Job struct {
	ID        string `json:"id"`
	Image     string `json:"image"`
	Landmarks string `json:"landmarks"`
}

// BatchResult is the outcome of one job.
type BatchResult struct {
	Index  int     `json:"index"`
	Job    Job     `json:"job"`
	Report *Report `json:"report,omitempty"`
	Err    error   `json:"-"`
	Error  string  `json:"error,omitempty"`
}

// AnalyzeFunc processes one job.
type AnalyzeFunc func(ctx context.Context, job Job) (*Report, error)

// FileJob returns an AnalyzeFunc reading jobs from disk with a.
func (a *Analyzer) FileJob() AnalyzeFunc {
	return func(ctx context.Context, job Job) (*Report, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return a.AnalyzeFile(job.Image, job.Landmarks)
	}
}

// RunBatch fans jobs out to a pool of workers and returns one result per
// job in job order. onDone, if set, is called from the collecting goroutine
// as each job finishes. Jobs not started before ctx is cancelled fail with
// the context's error.
func RunBatch(ctx context.Context, jobs []Job, workers int, fn AnalyzeFunc, onDone func(BatchResult)) []BatchResult {
	if workers < 1 {
		workers = 1
	}

	type task struct {
		index int
		job   Job
	}
	taskChan := make(chan task, workers)
	resultsChan := make(chan BatchResult, workers*2)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for t := range taskChan {
				report, err := fn(ctx, t.job)
				res := BatchResult{Index: t.index, Job: t.job, Report: report, Err: err}
				if err != nil {
					res.Error = err.Error()
				}
				resultsChan <- res
			}
		}(i)
	}

	// Producer
	go func() {
		defer close(taskChan)
		for i, job := range jobs {
			select {
			case taskChan <- task{index: i, job: job}:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	results := make([]BatchResult, len(jobs))
	done := make([]bool, len(jobs))
	for res := range resultsChan {
		results[res.Index] = res
		done[res.Index] = true
		if onDone != nil {
			onDone(res)
		}
	}

	for i := range results {
		if done[i] {
			continue
		}
		err := ctx.Err()
		if err == nil {
			err = context.Canceled
		}
		results[i] = BatchResult{Index: i, Job: jobs[i], Err: err, Error: err.Error()}
	}
	return results
}
