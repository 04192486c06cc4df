package metadata

import (
	"context"

	"github.com/google/uuid"
)

// AutomationWorkflow identifies the automation workflow a connection
// test runs under, when one triggered it.
type AutomationWorkflow struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// TestConnectionRequest carries everything the metadata service needs
// to run a connection test against schema sources.
type TestConnectionRequest struct {
	ServiceID   uuid.UUID
	ServiceType string

	// Workflow is nil when the test runs as part of a plain metadata
	// workflow rather than an automation workflow.
	Workflow *AutomationWorkflow

	// Ping exercises the engine under test.
	Ping func(ctx context.Context) error
}

// Client is the slice of the metadata-service API this connector core
// calls. Behavior is defined by the service, not by this repo.
type Client interface {
	TestConnection(ctx context.Context, req TestConnectionRequest) error
}
