package display

import (
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/outbreak-sim-oss/outbreak"
)

// Heartbeat 心跳日志
// 功能：每Interval天以info级别输出一次当天感染人数，其余天以debug级别输出
type Heartbeat struct {
	Interval int32
}

func NewHeartbeat(interval int32) *Heartbeat {
	return &Heartbeat{Interval: max(interval, 1)}
}

func (h *Heartbeat) OnDay(report outbreak.DayReport) {
	susceptible := lo.SumBy(report.Snapshot, func(row []rune) int {
		return lo.Count(row, 's')
	})
	if report.Day%h.Interval == 0 {
		log.Infof("DAY: %d infectious=%d susceptible=%d", report.Day, report.Infectious, susceptible)
	} else {
		log.Debugf("DAY: %d infectious=%d susceptible=%d", report.Day, report.Infectious, susceptible)
	}
}

func (h *Heartbeat) OnSummary(s outbreak.Summary) {
	log.Infof("duration=%d peak_day=%d peak_count=%d", s.Days, s.PeakDay, s.PeakCount)
}

// Multi 将输出分发给多个显示模块
type Multi []outbreak.Observer

func (m Multi) OnDay(report outbreak.DayReport) {
	lo.ForEach(m, func(o outbreak.Observer, _ int) {
		o.OnDay(report)
	})
}

func (m Multi) OnSummary(s outbreak.Summary) {
	lo.ForEach(m, func(o outbreak.Observer, _ int) {
		o.OnSummary(s)
	})
}
