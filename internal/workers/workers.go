package workers

type Workers struct {
	workers []Worker
}

func New(ws ...Worker) *Workers {
	return &Workers{workers: ws}
}

func (w *Workers) Run() {
	for _, worker := range w.workers {
		worker.Run()
	}
}

// Stop shuts down stoppable workers in reverse start order.
func (w *Workers) Stop() {
	for i := len(w.workers) - 1; i >= 0; i-- {
		if stopper, ok := w.workers[i].(Stopper); ok {
			stopper.Stop()
		}
	}
}
