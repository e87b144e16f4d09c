package app

import (
	"context"
	"time"
)

// scheduledCheckpoint stores a snapshot of the page when it changed since
// the previous run. Snapshots are immutable, so pointer identity tells
// whether anything was committed in between.
func (a *App) scheduledCheckpoint(ctx context.Context) {
	page := a.store.Page()

	a.cpMu.Lock()
	if page == a.lastSnapshot {
		a.cpMu.Unlock()
		return
	}
	a.lastSnapshot = page
	a.cpMu.Unlock()

	label := "auto " + time.Now().Format("2006-01-02 15:04")
	cp, err := a.checkpoints.Push(ctx, label, page)
	if err != nil {
		a.logger.Warn("checkpoint failed", "pageId", page.ID, "err", err)
		return
	}
	a.logger.Debug("checkpoint stored", "pageId", page.ID, "checkpointId", cp.ID)
}
