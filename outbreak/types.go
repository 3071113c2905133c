package outbreak

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidState 在引擎未加载、已结束或被重入时调用Step/Run
	ErrInvalidState = errors.New("invalid engine state")
	// ErrInvalidConstants THRESHOLD或PERIOD不是正整数
	ErrInvalidConstants = errors.New("invalid constants")
)

// Phase 整个仿真的状态机：Loaded -> Running -> Ended
type Phase int32

const (
	Unloaded Phase = iota // 零值引擎，尚未设置初始网格
	Loaded                // 已加载初始网格，第0天
	Running               // 已推进至少一天且仍有感染者
	Ended                 // 某天结束时感染人数为0，终态
)

func (p Phase) String() string {
	switch p {
	case Unloaded:
		return "unloaded"
	case Loaded:
		return "loaded"
	case Running:
		return "running"
	case Ended:
		return "ended"
	default:
		return fmt.Sprintf("Phase(%d)", int32(p))
	}
}

// Params 整个仿真过程中固定的疾病参数
type Params struct {
	Threshold int // 易感者被感染所需的最少感染邻居数
	Period    int // 感染持续天数，达到后康复
}

// Validate 检查参数均为正整数
func (p Params) Validate() error {
	if p.Threshold <= 0 {
		return fmt.Errorf("%w: threshold must be positive, got %d", ErrInvalidConstants, p.Threshold)
	}
	if p.Period <= 0 {
		return fmt.Errorf("%w: period must be positive, got %d", ErrInvalidConstants, p.Period)
	}
	return nil
}

// DayReport 一天模拟结束后的输出
type DayReport struct {
	Day        int32    // 天数，从1开始
	Infectious int      // 当天结束时的感染人数
	Snapshot   [][]rune // 当天结束时的网格（状态字符）
}

// Summary 仿真结束后的汇总
type Summary struct {
	Days      int32 // 疫情持续天数
	PeakDay   int32 // 感染人数最多的一天（并列时取最早的一天）
	PeakCount int   // 单日最多感染人数
}

// Observer 显示模块的依赖倒置
// 功能：接收每天的网格快照和最终汇总，引擎不关心输出介质
type Observer interface {
	OnDay(report DayReport) // 每天结束后调用
	OnSummary(s Summary)    // Run结束后调用
}

type nopObserver struct{}

func (nopObserver) OnDay(DayReport)   {}
func (nopObserver) OnSummary(Summary) {}
