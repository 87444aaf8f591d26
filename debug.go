package stagehand

import "time"

// debugStats holds per-tick timing and draw metrics. Only populated when
// debug mode is on.
type debugStats struct {
	steps      int
	updateTime time.Duration
	drawTime   time.Duration
	batchCount int
	drawCount  int
}

// debugLog logs timing and draw stats at debug level.
func (g *Game) debugLog(stats debugStats) {
	if !g.debug {
		return
	}
	logger().Debug("frame",
		"steps", stats.steps,
		"update", stats.updateTime,
		"draw", stats.drawTime,
		"total", stats.updateTime+stats.drawTime,
		"batches", stats.batchCount,
		"draws", stats.drawCount,
		"lag", g.stepper.Lag(),
	)
}

// countDraws counts individual draws across batches.
func countDraws(batches []DrawBatch) int {
	n := 0
	for i := range batches {
		n += len(batches[i].Draws)
	}
	return n
}
