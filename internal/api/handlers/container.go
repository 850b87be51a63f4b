package handlers

import (
	"corebank/internal/bulk"
	"corebank/internal/engine"
	"corebank/internal/reconcile"
)

// Container carries the dependencies every handler closure needs. It plays
// the same role as the project's existing HandlerDependencies container,
// narrowed to a concrete struct since this engine has a single store-backed
// implementation rather than a swappable repository per deployment target.
type Container struct {
	Engine     *engine.Engine
	Reconciler *reconcile.Reconciler
	Bulk       *bulk.Processor
}

func NewContainer(eng *engine.Engine, rec *reconcile.Reconciler, proc *bulk.Processor) *Container {
	return &Container{Engine: eng, Reconciler: rec, Bulk: proc}
}
