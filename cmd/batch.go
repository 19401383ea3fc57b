package cmd

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/rm-hull/photo-editor/internal"
	"github.com/rm-hull/photo-editor/internal/recipe"
)

type BatchConfig struct {
	RecipePath string
	InputDir   string
	OutputDir  string
	Format     string
	Workers    int
	Schedule   string
}

// Batch applies a recipe to every image in a directory. With a schedule it
// keeps running, re-processing new images on each tick until interrupted.
func Batch(cfg BatchConfig) error {
	internal.ShowVersion()
	internal.UserInfo()

	rec, err := recipe.Load(cfg.RecipePath)
	if err != nil {
		return err
	}

	job := internal.BatchJob{
		InputDir:  cfg.InputDir,
		OutputDir: cfg.OutputDir,
		PoolSize:  cfg.Workers,
		Recipe:    rec,
		Format:    cfg.Format,
	}

	if cfg.Schedule == "" {
		if errs := job.Run(); len(errs) > 0 {
			return fmt.Errorf("%d images failed: %v", len(errs), errs)
		}
		return nil
	}

	c, err := internal.StartCron(cfg.Schedule, job)
	if err != nil {
		return err
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("Stopping CRON job")
	<-c.Stop().Done()
	return nil
}
