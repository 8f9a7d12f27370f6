package output

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	ui "github.com/gizak/termui/v3"
	"github.com/nostalgist134/GqlGIU/components/gqlTypes"
)

const (
	logoMaxLines    = 6
	jobInfoMaxLines = 5
	counterMaxLines = 1
	resultMaxLines  = 10
	logMaxLines     = 2
	leastHeight     = logMaxLines + jobInfoMaxLines + counterMaxLines + resultMaxLines + logoMaxLines + 3*5 - 4

	titleJobInfo       = "JOB_INFORMATION"
	titleResults       = "RESULTS"
	titleCounter       = "PROGRESS"
	titleLogger        = "LOGS"
	titleLockedResults = "RESULTS(LOCKED)"

	directionUp    = int8(0)
	directionDown  = int8(1)
	directionLeft  = int8(2)
	directionRight = int8(3)
)

type screenFrame struct {
	renderMu sync.Mutex
	logo     screenRegion
	jobInfo  screenRegion
	counter  screenRegion
	results  screenRegion
	logs     screenRegion
}

var screen *screenFrame

// selectableRegions 标识可以被选中（可以上下滑动）的输出区域
var selectableRegions []*screenRegion

var indSelect = 0

var logo = "  _____       _  _____ _____ _    _\n" +
	" / ____|     | |/ ____|_   _| |  | |\n" +
	"| |  __  __ _| | |  __  | | | |  | |\n" +
	"| | |_ |/ _` | | | |_ | | | | |  | |\n" +
	"| |__| | (_| | | |__| |_| |_| |__| |\n" +
	" \\_____|\\__, |_|\\_____|_____|\\____/ \n" +
	"           | |"
var counterFmt = "sent: %d/%d    errors: %d    rate: %dr/s    duration: [%02d:%02d:%02d]"
var hintWindowTooSmall = "THE WINDOW SEEMS TOO SMALL TO DISPLAY ALL INFORMATION, RECOMMEND RESIZE"

var posLogo = []int{0, 0, 0, logoMaxLines + 2}

var screenHasInit = atomic.Bool{}
var resultsLocked = true
var hasResult = false
var firstLog = true

var wg = sync.WaitGroup{}

// Cntr fuzz运行时的全局计数器，screen和http api共用
var Cntr = &Counter{}

func splitLines(s string) []string {
	return strings.Split(s, "\n")
}

func centeredLines(lines []string, width int) {
	for i, line := range lines {
		if pad := (width - len(line)) / 2; pad > 0 {
			lines[i] = strings.Repeat(" ", pad) + line
		}
	}
}

func getNextParaPos(pos []int, maxLines int) []int {
	if len(pos) < 4 {
		return nil
	}
	return []int{0, pos[3] + 1, pos[2], pos[3] + maxLines + 3}
}

// Log 向日志窗口追加一条日志
func Log(log string) {
	if !screenHasInit.Load() {
		return
	}
	if firstLog {
		screen.logs.clear()
		firstLog = false
	}
	screen.logs.mu.Lock()
	defer screen.logs.mu.Unlock()
	screen.logs.append(splitLines(log))
	lenLines := len(screen.logs.lines)
	if lenLines >= 2 {
		screen.logs.lineInd = lenLines - 2
	} else {
		screen.logs.lineInd = 0
	}
	screen.logs.render("", true)
}

func renderCounter() {
	screen.counter.mu.Lock()
	defer screen.counter.mu.Unlock()
	lapsed := Cntr.TimeLapsed()
	h := int(lapsed.Hours())
	m := int(lapsed.Minutes()) % 60
	s := int(lapsed.Seconds()) % 60
	screen.counter.lines = []string{fmt.Sprintf(counterFmt, Cntr.Completed(), Cntr.Total(),
		Cntr.GetErrors(), Cntr.GetRate(), h, m, s)}
	screen.counter.render("", true)
}

// InitScreen 初始化输出窗口
func InitScreen(job *gqlTypes.Job) {
	hasInit := screenHasInit.Load()
	if !hasInit {
		screenHasInit.Store(true)
		if err := ui.Init(); err != nil {
			fmt.Printf("%v\n", err)
		}
	}
	w, h := ui.TerminalDimensions()
	if !hasInit {
		screen = new(screenFrame)
		screen.logo.init(logoMaxLines, true)
		screen.logs.init(logMaxLines)
		screen.results.init(resultMaxLines)
		screen.counter.init(counterMaxLines)
		screen.jobInfo.init(jobInfoMaxLines)
	}
	// 渲染logo
	posLogo[2] = w
	logoLines := splitLines(logo)
	centeredLines(logoLines, w)
	screen.logo.lines = logoLines
	screen.logo.setRect(posLogo)
	if h < leastHeight {
		screen.logo.render(hintWindowTooSmall)
	} else {
		screen.logo.render("")
	}
	// 渲染任务信息窗口
	posJobInfo := getNextParaPos(posLogo, jobInfoMaxLines)
	screen.jobInfo.setLines(jobInfoLines(job))
	screen.jobInfo.setRect(posJobInfo)
	screen.jobInfo.render(titleJobInfo)
	// 渲染计数器窗口
	counterPos := getNextParaPos(posJobInfo, counterMaxLines)
	screen.counter.setRect(counterPos)
	screen.counter.render(titleCounter)
	// 渲染结果窗口
	resultPos := getNextParaPos(counterPos, resultMaxLines)
	screen.results.setRect(resultPos)
	screen.results.render(titleLockedResults)
	// 渲染日志记录窗口
	logPos := getNextParaPos(resultPos, logMaxLines)
	screen.logs.setRect(logPos)
	if !hasInit {
		screen.logs.append([]string{"W/S to select window to control, <Up>/K to scroll up, <Down>/J to scroll " +
			"down, Q to quit.", "Result window will lock to the latest row by default, L to unlock it"})
	}
	screen.logs.render(titleLogger)
	if !hasInit {
		selectableRegions = []*screenRegion{&screen.jobInfo, &screen.results, &screen.logs}
		switchHighLightRegion(-1)
		wg.Add(1)
		go func() {
			eventListener()
		}()
		// 每0.2秒更新一次计数器
		wg.Add(1)
		go func() {
			for {
				if !screenHasInit.Load() {
					wg.Done()
					return
				}
				renderCounter()
				time.Sleep(200 * time.Millisecond)
			}
		}()
	}
}

// ScreenResult 向结果窗口追加一行结果
func ScreenResult(res *gqlTypes.FuzzResult) {
	if !screenHasInit.Load() {
		return
	}
	screen.results.mu.Lock()
	defer screen.results.mu.Unlock()
	lines := []string{resultLine(res)}
	screen.results.append(lines)
	if resultsLocked && hasResult {
		screen.results.lineInd = len(screen.results.lines) - len(lines)
	}
	hasResult = true
	screen.results.render("", true)
}

func FinishScreen() {
	if !screenHasInit.Load() {
		return
	}
	screen.jobInfo.clear()
}

func WaitForScreenQuit() {
	wg.Wait()
}

func ScreenClose() {
	screenHasInit.Store(false)
	screen.renderMu.Lock()
	defer screen.renderMu.Unlock()
	ui.Close()
}
