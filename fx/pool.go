// SPDX-License-Identifier: EPL-2.0

package fx

import "sync"

// workerPool is a fixed set of goroutines draining a job queue. Convolver
// readers share one pool across channels and partitions instead of nesting
// two pools; the pool size is the total parallelism.
type workerPool struct {
	jobs chan func()
	wg   sync.WaitGroup
	once sync.Once
}

func newWorkerPool(workers int) *workerPool {
	if workers < 1 {
		workers = 1
	}

	p := &workerPool{jobs: make(chan func(), workers*4)}
	p.wg.Add(workers)
	for range workers {
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				job()
			}
		}()
	}
	return p
}

// run executes all jobs on the pool and waits for them to finish.
func (p *workerPool) run(jobs []func()) {
	var done sync.WaitGroup
	done.Add(len(jobs))
	for _, job := range jobs {
		job := job
		p.jobs <- func() {
			defer done.Done()
			job()
		}
	}
	done.Wait()
}

// close shuts the pool down and joins its workers. Safe to call twice.
func (p *workerPool) close() {
	p.once.Do(func() {
		close(p.jobs)
	})
	p.wg.Wait()
}
