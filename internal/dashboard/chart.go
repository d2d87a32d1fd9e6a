package dashboard

import (
	"fmt"
	"html"
	"strings"

	"github.com/vytor/bestofn/internal/models"
)

const (
	chartWidth   = 320
	chartHeight  = 180
	chartPadLeft = 32
	chartPadBot  = 22
	chartPadTop  = 8
	chartMax     = 100.0
	chartStep    = 20
	barColor     = "#3b82f6"
	gridColor    = "#334155"
	textColor    = "#94a3b8"
)

// RenderSVG draws c as a bar chart on a fixed 0-100 axis. Values above
// 100 are clipped to the top of the plot. It holds no state between calls.
func RenderSVG(c models.ChartData) string {
	plotW := float64(chartWidth - chartPadLeft)
	plotH := float64(chartHeight - chartPadBot - chartPadTop)
	baseY := float64(chartPadTop) + plotH

	var sb strings.Builder
	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" role="img" aria-label="Top quiz scores">`,
		chartWidth, chartHeight)

	for tick := 0; tick <= int(chartMax); tick += chartStep {
		y := baseY - plotH*float64(tick)/chartMax
		fmt.Fprintf(&sb, `<line x1="%d" y1="%.1f" x2="%d" y2="%.1f" stroke="%s" stroke-width="0.5"/>`,
			chartPadLeft, y, chartWidth, y, gridColor)
		fmt.Fprintf(&sb, `<text x="%d" y="%.1f" fill="%s" font-size="9" text-anchor="end">%d</text>`,
			chartPadLeft-4, y+3, textColor, tick)
	}

	n := len(c.Values)
	if n > 0 {
		slot := plotW / float64(n)
		barW := slot * 0.7
		for i, v := range c.Values {
			h := plotH * clamp(v/chartMax, 0, 1)
			x := float64(chartPadLeft) + slot*float64(i) + (slot-barW)/2
			label := ""
			if i < len(c.Labels) {
				label = html.EscapeString(c.Labels[i])
			}
			fmt.Fprintf(&sb, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="6" fill="%s"><title>%s Score: %g%%</title></rect>`,
				x, baseY-h, barW, h, barColor, label, v)
			fmt.Fprintf(&sb, `<text x="%.1f" y="%d" fill="%s" font-size="9" text-anchor="middle">%s</text>`,
				x+barW/2, chartHeight-6, textColor, label)
		}
	}

	sb.WriteString(`</svg>`)
	return sb.String()
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(v, hi))
}
