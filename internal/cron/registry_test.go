package cron

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type namedJob struct {
	name string
	runs int
	err  error
}

func (j *namedJob) Name() string { return j.name }

func (j *namedJob) Run(ctx context.Context) error {
	j.runs++
	return j.err
}

func TestRegistryKeepsRegistrationOrder(t *testing.T) {
	t.Parallel()

	first := &namedJob{name: "first"}
	second := &namedJob{name: "second"}
	registry := NewRegistry(first, second)

	jobs := registry.Jobs()
	assert.Len(t, jobs, 2)
	assert.Equal(t, "first", jobs[0].Name())
	assert.Equal(t, "second", jobs[1].Name())
}

func TestRegistryIgnoresNilJobs(t *testing.T) {
	t.Parallel()

	registry := NewRegistry(nil, &namedJob{name: "only"})
	registry.Register(nil)

	assert.Len(t, registry.Jobs(), 1)
}

func TestRegistryJobsReturnsCopy(t *testing.T) {
	t.Parallel()

	registry := NewRegistry(&namedJob{name: "a"})
	jobs := registry.Jobs()
	jobs[0] = &namedJob{name: "replaced"}

	assert.Equal(t, "a", registry.Jobs()[0].Name())
}
