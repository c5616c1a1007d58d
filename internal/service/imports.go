package service

import (
	"context"
	"time"

	"registry-client/internal/gateway"
	"registry-client/internal/listsync"
	"registry-client/internal/models"
	"registry-client/internal/push"
	"registry-client/internal/query"
)

// ImportHistory is the live view of the bulk import history. It polls with a
// growing interval while an import is still running and stops once all are
// finished; push events on the imports topic refresh it at any time.
type ImportHistory struct {
	engine *listsync.Engine[models.ImportOperation]
	store  *query.Store
}

// NewImportHistory creates the import history view
func NewImportHistory(gw gateway.GatewayInterface, hub *push.Hub, initial, maxInterval time.Duration) *ImportHistory {
	store := query.NewStore(query.ImportsView)
	policy := listsync.WhileActive(InProgress, listsync.HistoryBackOff(initial, maxInterval))
	return &ImportHistory{
		engine: listsync.New(gw.Imports(), store, hub, listsync.WithPollPolicy(policy)),
		store:  store,
	}
}

// InProgress reports whether an import has not finished yet
func InProgress(op models.ImportOperation) bool {
	return !op.Status.IsTerminal()
}

// Start begins loading the history
func (h *ImportHistory) Start(ctx context.Context) error {
	return h.engine.Start(ctx)
}

// Close stops the view
func (h *ImportHistory) Close() {
	h.engine.Close()
}

// Snapshot returns the current view state
func (h *ImportHistory) Snapshot() listsync.Snapshot[models.ImportOperation] {
	return h.engine.Snapshot()
}

// Updates streams view states
func (h *ImportHistory) Updates() <-chan listsync.Snapshot[models.ImportOperation] {
	return h.engine.Updates()
}

// WaitFor blocks until pred holds for a snapshot
func (h *ImportHistory) WaitFor(ctx context.Context, pred func(listsync.Snapshot[models.ImportOperation]) bool) (listsync.Snapshot[models.ImportOperation], error) {
	return h.engine.WaitFor(ctx, pred)
}

// Retry re-issues the fetch after an error
func (h *ImportHistory) Retry() error {
	return h.engine.Retry()
}

// SetPage navigates the history
func (h *ImportHistory) SetPage(n int) error {
	return h.store.SetPage(n)
}

// Pending counts the imports of s that are still running
func Pending(s listsync.Snapshot[models.ImportOperation]) int {
	n := 0
	for _, op := range s.Items {
		if InProgress(op) {
			n++
		}
	}
	return n
}
