package internal

import (
	"log"

	"github.com/robfig/cron/v3"
	"github.com/rm-hull/photo-editor/internal/recipe"
)

// BatchJob describes a recipe run over a watch directory.
type BatchJob struct {
	InputDir  string
	OutputDir string
	PoolSize  int
	Recipe    *recipe.Recipe
	Format    string
}

// Run processes the directory once. Images already present in the output
// directory are skipped, so repeated runs only pick up new files.
func (job BatchJob) Run() []error {
	processor, err := NewProcessor(job.InputDir, job.OutputDir, job.PoolSize, job.Recipe, job.Format)
	if err != nil {
		return []error{err}
	}
	return processor.Run()
}

func StartCron(schedule string, job BatchJob) (*cron.Cron, error) {
	c := cron.New()

	log.Printf("Starting CRON job to process %s (schedule=%s)", job.InputDir, schedule)
	_, err := c.AddFunc(schedule, func() {
		errors := job.Run()
		if len(errors) > 0 {
			log.Printf("Errors occurred: %v", errors)
		}
	})

	if err != nil {
		return nil, err
	}

	c.Start()
	return c, nil
}
