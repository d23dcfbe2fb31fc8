package gateway

import (
	"fmt"
	"sync"
)

// Job status values, matching the automation controller's vocabulary.
const (
	statusPending    = "pending"
	statusRunning    = "running"
	statusSuccessful = "successful"
)

// demoPlayOutput is the stdout of the demo playbook run.
const demoPlayOutput = `PLAY [Hello World Sample] *****************************************************

TASK [Gathering Facts] ********************************************************
ok: [localhost]

TASK [Hello Message] **********************************************************
ok: [localhost] => {
    "msg": "Hello World!"
}

PLAY RECAP *********************************************************************
localhost                  : ok=2    changed=0    unreachable=0    failed=0
`

// jobTemplate mirrors the subset of controller job-template fields the
// tools expose.
type jobTemplate struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Playbook    string `json:"playbook"`
}

// jobState is one launched job. reads drives the deterministic status
// progression and is not serialized.
type jobState struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Status      string `json:"status"`
	JobTemplate int    `json:"job_template"`

	reads int
}

// templatesPage is the paged list shape returned by job_templates_list.
type templatesPage struct {
	Count   int           `json:"count"`
	Results []jobTemplate `json:"results"`
}

// jobStdout is the shape returned by jobs_stdout_read.
type jobStdout struct {
	Content string `json:"content"`
}

// jobStore holds the in-memory templates and launched jobs.
type jobStore struct {
	mu        sync.Mutex
	templates []jobTemplate
	jobs      map[int]*jobState
	nextJobID int
}

func newJobStore() *jobStore {
	return &jobStore{
		templates: []jobTemplate{
			{ID: 7, Name: "Demo Job Template", Description: "Hello world demonstration job", Playbook: "hello_world.yml"},
			{ID: 11, Name: "Inventory Sync", Description: "Refresh the managed host inventory", Playbook: "sync_inventory.yml"},
		},
		jobs:      make(map[int]*jobState),
		nextJobID: 100,
	}
}

// listTemplates returns all templates in a paged shape.
func (s *jobStore) listTemplates() templatesPage {
	s.mu.Lock()
	defer s.mu.Unlock()

	results := make([]jobTemplate, len(s.templates))
	copy(results, s.templates)
	return templatesPage{Count: len(results), Results: results}
}

// launch creates a pending job from the given template.
func (s *jobStore) launch(templateID int) (jobState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var tpl *jobTemplate
	for i := range s.templates {
		if s.templates[i].ID == templateID {
			tpl = &s.templates[i]
			break
		}
	}
	if tpl == nil {
		return jobState{}, fmt.Errorf("job template %d not found", templateID)
	}

	job := &jobState{
		ID:          s.nextJobID,
		Name:        tpl.Name,
		Status:      statusPending,
		JobTemplate: tpl.ID,
	}
	s.nextJobID++
	s.jobs[job.ID] = job
	return *job, nil
}

// read returns the job's current state, advancing its status so repeated
// polls observe pending, then running, then successful.
func (s *jobStore) read(jobID int) (jobState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[jobID]
	if !ok {
		return jobState{}, fmt.Errorf("job %d not found", jobID)
	}

	switch job.reads {
	case 0:
		job.Status = statusPending
	case 1:
		job.Status = statusRunning
	default:
		job.Status = statusSuccessful
	}
	job.reads++
	return *job, nil
}

// stdout returns the job's play output once it has finished.
func (s *jobStore) stdout(jobID int) (jobStdout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[jobID]
	if !ok {
		return jobStdout{}, fmt.Errorf("job %d not found", jobID)
	}
	if job.Status != statusSuccessful {
		return jobStdout{}, fmt.Errorf("job %d has not finished (status %s)", jobID, job.Status)
	}
	return jobStdout{Content: demoPlayOutput}, nil
}
