package common

import "sync"

type Job func() error

// JobQueue runs jobs one after another on a single background goroutine. Front-ends which must stay
// responsive (an IRC read loop, for example) hand long-running captioning runs over to it.
type JobQueue struct {
	jobsChannel chan namedJob
	stopChannel chan struct{}
	waitGroup   sync.WaitGroup
	logger      Logger
}

type namedJob struct {
	name string
	job  Job
}

func NewJobQueue(capacity int, logger Logger) *JobQueue {
	worker := &JobQueue{
		jobsChannel: make(chan namedJob, capacity),
		stopChannel: make(chan struct{}),
		logger:      logger,
	}
	worker.waitGroup.Add(1)
	go worker.run()
	return worker
}

// TryEnqueue schedules the job unless the queue is full. Returns false if the job was rejected.
func (j *JobQueue) TryEnqueue(name string, job Job) bool {
	select {
	case j.jobsChannel <- namedJob{name: name, job: job}:
		return true
	default:
		return false
	}
}

// Stop waits for the job in progress (if any) and discards the rest.
func (j *JobQueue) Stop() {
	close(j.stopChannel)
	j.waitGroup.Wait()
}

func (j *JobQueue) run() {
	defer j.waitGroup.Done()
	for {
		select {
		case <-j.stopChannel:
			return
		case job := <-j.jobsChannel:
			err := job.job()
			if err != nil {
				j.logger.LogError("failed to process job "+job.name, err)
			}
		}
	}
}
