package display

import (
	"bufio"
	"fmt"
	"io"

	"github.com/tsinghua-fib-lab/outbreak-sim-oss/outbreak"
)

// Console 控制台输出
// 功能：按天打印网格，结束后打印疫情汇总
// 说明：Grid为false时只打印汇总
type Console struct {
	w    io.Writer
	Grid bool
}

// NewConsole 创建输出到w的控制台显示
func NewConsole(w io.Writer, grid bool) *Console {
	return &Console{w: w, Grid: grid}
}

// OnDay 打印"Day: N"与网格，每个状态字符后跟一个空格，最后空一行
func (c *Console) OnDay(report outbreak.DayReport) {
	if !c.Grid {
		return
	}
	c.PrintRegion(report.Day, report.Snapshot)
}

// PrintRegion 打印某一天的网格（第0天由调用方在加载后打印）
func (c *Console) PrintRegion(day int32, snapshot [][]rune) {
	w := bufio.NewWriter(c.w)
	fmt.Fprintf(w, "Day: %d\n", day)
	for _, row := range snapshot {
		for _, r := range row {
			w.WriteRune(r)
			w.WriteByte(' ')
		}
		w.WriteByte('\n')
	}
	w.WriteByte('\n')
	if err := w.Flush(); err != nil {
		log.Errorf("failed to print day %d: %v", day, err)
	}
}

// OnSummary 打印持续天数、峰值日与峰值人数
func (c *Console) OnSummary(s outbreak.Summary) {
	if _, err := fmt.Fprintf(c.w,
		"Outbreak Duration: %d days\nPeak Day: Day %d\nPeak Infectious Count: %d people\n",
		s.Days, s.PeakDay, s.PeakCount,
	); err != nil {
		log.Errorf("failed to print summary: %v", err)
	}
}
