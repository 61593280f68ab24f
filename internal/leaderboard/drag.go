package leaderboard

import "github.com/aurumfx/lbadmin/internal/model"

// BeginDrag starts a drag of trader id over the working list.
func (c *Controller) BeginDrag(id model.TraderID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if c.phase.Busy() {
		return ErrBusy
	}
	return c.drag.Start(c.working, id)
}

// Dragging returns the dragged id while a drag is active.
func (c *Controller) Dragging() (model.TraderID, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.drag.Dragged()
}

// DragOver previews dropping onto the row held by targetID.
func (c *Controller) DragOver(targetID model.TraderID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.drag.MoveOver(targetID) {
		return false
	}
	c.followDragLocked()
	return true
}

// DragTo previews dropping at index in the full list.
func (c *Controller) DragTo(index int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.drag.MoveTo(index) {
		return false
	}
	c.followDragLocked()
	return true
}

// DragBy shifts the preview position by delta rows.
func (c *Controller) DragBy(delta int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	pos := c.drag.Position()
	if pos < 0 {
		return false
	}
	if !c.drag.MoveTo(pos + delta) {
		return false
	}
	c.followDragLocked()
	return true
}

// DragPreview returns the previewed order, or nil when no drag is active.
func (c *Controller) DragPreview() []model.Trader {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.drag.Preview()
}

// CommitDrag adopts the previewed order as the working list. It reports
// whether a drag was applied.
func (c *Controller) CommitDrag() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.phase.Busy() {
		c.drag.Cancel()
		return false
	}

	order, ok := c.drag.Commit()
	if !ok {
		return false
	}
	c.working = order
	c.log.Debug().Bool("dirty", c.isDirtyLocked()).Msg("drag committed")
	return true
}

// CancelDrag discards the preview.
func (c *Controller) CancelDrag() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.drag.Cancel()
}

// followDragLocked keeps the dragged row on screen when the list is unfiltered.
func (c *Controller) followDragLocked() {
	if c.term != "" {
		return
	}
	if pos := c.drag.Position(); pos >= 0 {
		c.page = pos/c.pageSize + 1
	}
}
