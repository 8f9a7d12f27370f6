package output

import (
	"strings"
	"sync"

	ui "github.com/gizak/termui/v3"
	"github.com/gizak/termui/v3/widgets"
)

type screenRegion struct {
	Pg             *widgets.Paragraph
	lines          []string
	mu             sync.Mutex
	lineInd        int
	lineLeft       int
	maxRenderLines int
	rendered       bool
	renderBuffer   []string
	TopCorner      struct {
		X int
		Y int
	}
	BottomCorner struct {
		X int
		Y int
	}
}

// init 初始化输出区域
func (r *screenRegion) init(maxLines int, noBorder ...bool) {
	r.Pg = widgets.NewParagraph()
	r.Pg.WrapText = false
	r.lineLeft = 0
	r.lines = make([]string, 0)
	r.maxRenderLines = maxLines
	r.renderBuffer = make([]string, maxLines)
	if len(noBorder) > 0 && noBorder[0] {
		r.Pg.Border = false
	}
}

func (r *screenRegion) clearRenderBuffer() {
	for i := 0; i < len(r.renderBuffer); i++ {
		r.renderBuffer[i] = ""
	}
}

// fillRenderBuffer 从lineInd起取maxRenderLines行，按lineLeft左移后截断到窗口宽度
func (r *screenRegion) fillRenderBuffer() {
	r.clearRenderBuffer()
	width := r.BottomCorner.X - r.TopCorner.X
	if width < 4 {
		width = 4
	}
	for i := 0; i < r.maxRenderLines; i++ {
		ind := r.lineInd + i
		if ind >= len(r.lines) {
			break
		}
		line := r.lines[ind]
		if r.lineLeft < len(line) {
			line = line[r.lineLeft:]
		} else {
			line = ""
		}
		if len(line) > width {
			line = line[:width]
		}
		r.renderBuffer[i] = line
	}
}

// render 渲染区域，title不为空时同时设置标题
func (r *screenRegion) render(title string, unlock ...bool) {
	if len(unlock) == 0 || !unlock[0] {
		r.mu.Lock()
		defer r.mu.Unlock()
	}
	if !r.rendered {
		r.rendered = true
		r.Pg.SetRect(r.TopCorner.X, r.TopCorner.Y, r.BottomCorner.X, r.BottomCorner.Y)
	}
	if title != "" {
		r.Pg.Title = title
	}
	r.fillRenderBuffer()
	r.Pg.Text = strings.Join(r.renderBuffer, "\n")
	screen.renderMu.Lock()
	defer screen.renderMu.Unlock()
	if !screenHasInit.Load() {
		return
	}
	ui.Render(r.Pg)
}

// clear 清空区域内容
func (r *screenRegion) clear() {
	r.lines = r.lines[:0]
	r.lineInd = 0
	r.lineLeft = 0
	r.render("")
}

// setRect 设置渲染段落的对角
func (r *screenRegion) setRect(pos []int) {
	if len(pos) < 4 {
		return
	}
	setP := func(p *int, v int) {
		if v > 0 {
			*p = v
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	setP(&r.TopCorner.X, pos[0])
	setP(&r.TopCorner.Y, pos[1])
	setP(&r.BottomCorner.X, pos[2])
	setP(&r.BottomCorner.Y, pos[3])
	r.Pg.SetRect(r.TopCorner.X, r.TopCorner.Y, r.BottomCorner.X, r.BottomCorner.Y)
}

func (r *screenRegion) append(lines []string) {
	r.lines = append(r.lines, lines...)
}

func (r *screenRegion) setLines(lines []string) {
	r.lines = lines
}

// scroll 控制窗口的上下左右翻页
func (r *screenRegion) scroll(direction int8) {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch direction {
	case directionUp:
		if r.lineInd > 0 {
			r.lineInd--
			r.render("", true)
		}
	case directionDown:
		if r.lineInd < len(r.lines)-1 {
			r.lineInd++
			r.render("", true)
		}
	case directionLeft:
		if r.lineLeft > 0 {
			r.lineLeft--
			r.render("", true)
		}
	case directionRight:
		r.lineLeft++
		r.render("", true)
	}
}

// switchHighLightRegion 切换高亮显示的窗口
func switchHighLightRegion(lastInd int) {
	selectableRegions[indSelect].mu.Lock()
	defer selectableRegions[indSelect].mu.Unlock()
	selectableRegions[indSelect].Pg.BorderStyle.Fg = ui.ColorCyan
	ui.Render(selectableRegions[indSelect].Pg)
	if lastInd >= 0 && lastInd < len(selectableRegions) && lastInd != indSelect {
		selectableRegions[lastInd].mu.Lock()
		defer selectableRegions[lastInd].mu.Unlock()
		selectableRegions[lastInd].Pg.BorderStyle.Fg = ui.ColorWhite
		ui.Render(selectableRegions[lastInd].Pg)
	}
}
