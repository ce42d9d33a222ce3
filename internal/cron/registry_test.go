package cron

import (
	"context"
	"testing"
)

type stubJob struct {
	name string
}

func (s *stubJob) Name() string              { return s.name }
func (s *stubJob) Run(context.Context) error { return nil }

func TestRegistryKeepsRegistrationOrder(t *testing.T) {
	registry := NewRegistry(nil, &stubJob{name: "retention"})
	registry.Register(&stubJob{name: "second"})
	registry.Register(nil)

	jobs := registry.Jobs()
	if len(jobs) != 2 {
		t.Fatalf("expected nil jobs to be skipped, got %d jobs", len(jobs))
	}
	if jobs[0].Name() != "retention" || jobs[1].Name() != "second" {
		t.Fatalf("jobs returned out of order: %s, %s", jobs[0].Name(), jobs[1].Name())
	}

	jobs[0] = nil
	if registry.Jobs()[0] == nil {
		t.Fatal("Jobs must return a copy of the internal slice")
	}
}
