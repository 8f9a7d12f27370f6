package output

import (
	"fmt"
	"os"

	ui "github.com/gizak/termui/v3"
)

// eventListener 监听键盘事件
func eventListener() {
	defer func() {
		ScreenClose()
		fmt.Printf("Now exitting...")
		wg.Done()
		os.Exit(0)
	}()
	for e := range ui.PollEvents() {
		switch e.ID {
		case "w":
			if indSelect > 0 {
				indSelect--
				switchHighLightRegion(indSelect + 1)
			}
		case "s":
			if indSelect < len(selectableRegions)-1 {
				indSelect++
				switchHighLightRegion(indSelect - 1)
			}
		case "L":
			screen.results.mu.Lock()
			if !resultsLocked {
				if len(screen.results.lines)-resultMaxLines-1 < 0 {
					screen.results.lineInd = 0
				} else {
					screen.results.lineInd = len(screen.results.lines) - resultMaxLines - 1
				}
				screen.results.render(titleLockedResults, true)
			} else {
				screen.results.render(titleResults, true)
			}
			resultsLocked = !resultsLocked
			screen.results.mu.Unlock()
		case "<Up>", "k":
			selectableRegions[indSelect].scroll(directionUp)
		case "<Down>", "j":
			selectableRegions[indSelect].scroll(directionDown)
		case "<Left>", "h":
			selectableRegions[indSelect].scroll(directionLeft)
		case "<Right>", "l":
			selectableRegions[indSelect].scroll(directionRight)
		case "c":
			if selectableRegions[indSelect] != &screen.jobInfo {
				selectableRegions[indSelect].clear()
			}
		case "q":
			return
		case "<Resize>":
			// 命令行窗口大小被调整，调整宽度并重新渲染全部窗口
			w, h := ui.TerminalDimensions()
			screen.logo.mu.Lock()
			if h >= leastHeight {
				screen.logo.Pg.Title = ""
			} else if screen.logo.Pg.Title == "" {
				screen.logo.Pg.Title = hintWindowTooSmall
			}
			logoLines := splitLines(logo)
			screen.logo.lines = logoLines
			centeredLines(screen.logo.lines, w)
			screen.logo.mu.Unlock()
			screen.logo.render("")
			screen.counter.setRect([]int{-1, -1, w, -1})
			screen.counter.render("")
			screen.results.setRect([]int{-1, -1, w, -1})
			screen.results.render("")
			screen.logs.setRect([]int{-1, -1, w, -1})
			screen.logs.render("")
			screen.jobInfo.setRect([]int{-1, -1, w, -1})
			screen.jobInfo.render("")
		}
	}
}
