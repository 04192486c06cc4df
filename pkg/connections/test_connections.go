package connections

import (
	"context"

	"github.com/dataprobe-io/probe-engine/pkg/metadata"
)

// TestConnectionDBSchemaSources runs the metadata service's connection
// test against schema sources. Pure delegation: its only job is to
// thread the optional automation workflow context through, so it can be
// executed either as part of a metadata workflow or during an
// automation workflow.
func TestConnectionDBSchemaSources(
	ctx context.Context,
	client metadata.Client,
	engine *Engine,
	d *Descriptor,
	workflow *metadata.AutomationWorkflow,
) error {
	return client.TestConnection(ctx, metadata.TestConnectionRequest{
		ServiceID:   d.ServiceID,
		ServiceType: d.Type,
		Workflow:    workflow,
		Ping:        engine.Ping,
	})
}
