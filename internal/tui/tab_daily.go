package tui

import (
	"github.com/theirongolddev/spendview/internal/render"
)

func (a App) renderDailyTab(cw int) string {
	return a.chartCard(render.DailySurface, a.dayCursor, cw)
}
