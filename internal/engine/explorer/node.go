package explorer

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/shade/internal/adapters/git"
	"go.trai.ch/shade/internal/adapters/logger"
	"go.trai.ch/shade/internal/adapters/telemetry"
	"go.trai.ch/shade/internal/core/ports"
)

// NodeID is the unique identifier for the explorer Graft node.
const NodeID graft.ID = "engine.explorer"

func init() {
	graft.Register(graft.Node[*Explorer]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{git.NodeID, logger.NodeID, telemetry.NodeID},
		Run: func(ctx context.Context) (*Explorer, error) {
			scanner, err := graft.Dep[ports.Scanner](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}
			return New(scanner, log, tracer), nil
		},
	})
}
