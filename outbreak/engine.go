package outbreak

import (
	"fmt"
	"sync/atomic"

	"github.com/tsinghua-fib-lab/outbreak-sim-oss/clock"
	"github.com/tsinghua-fib-lab/outbreak-sim-oss/entity/cell"
	"github.com/tsinghua-fib-lab/outbreak-sim-oss/entity/region"
)

func isInfectious(c *cell.Cell) bool {
	return c.State() == cell.Infectious
}

// Engine 疫情传播引擎
// 功能：独占当前网格，按天推进元胞自动机，维护峰值与持续天数
// 说明：单线程同步执行；Step/Run被重入或在结束后调用时返回ErrInvalidState
type Engine struct {
	params Params
	clock  *clock.Clock

	// 当前网格，每天整体替换，旧网格直接丢弃
	grid *region.Grid

	phase      Phase
	infectious int // 最近一天结束时的感染人数
	peakCount  int
	peakDay    int32

	// 防止Step/Run重入
	busy atomic.Bool

	observer Observer
}

// New 创建引擎并进入Loaded状态
// 功能：接收加载模块已校验的初始网格和参数，初始化第0天
// 参数：grid-初始网格，params-疾病参数，observer-显示模块（可为nil）
// 返回：引擎指针；网格或参数非法时返回错误
func New(grid *region.Grid, params Params, observer Observer) (*Engine, error) {
	if grid == nil || grid.Size() == 0 {
		return nil, fmt.Errorf("%w: no grid", region.ErrInvalidDimensions)
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if observer == nil {
		observer = nopObserver{}
	}
	e := &Engine{
		params:     params,
		clock:      clock.New(),
		grid:       grid.Clone(),
		phase:      Loaded,
		infectious: grid.Count(cell.Infectious),
		observer:   observer,
	}
	log.Debugf("loaded %dx%d grid, threshold=%d period=%d, %d infectious",
		grid.Size(), grid.Size(), params.Threshold, params.Period, e.infectious)
	return e, nil
}

func (e *Engine) enter(op string) error {
	if !e.busy.CompareAndSwap(false, true) {
		return fmt.Errorf("%w: %s re-entered", ErrInvalidState, op)
	}
	switch e.phase {
	case Unloaded:
		e.busy.Store(false)
		return fmt.Errorf("%w: %s before initial grid is set", ErrInvalidState, op)
	case Ended:
		e.busy.Store(false)
		return fmt.Errorf("%w: %s after outbreak ended on day %d", ErrInvalidState, op, e.clock.Day)
	}
	return nil
}

func (e *Engine) leave() {
	e.busy.Store(false)
}

// Step 推进一天
// 功能：由当天开始时的网格计算出新的一天，并通知显示模块
// 返回：当天的输出；状态非法时返回ErrInvalidState
func (e *Engine) Step() (DayReport, error) {
	if err := e.enter("step"); err != nil {
		return DayReport{}, err
	}
	defer e.leave()
	return e.step(), nil
}

// Run 持续推进直到某天结束时感染人数为0
// 功能：do-while循环，至少推进一天；结束后通知显示模块汇总信息
// 返回：疫情汇总；状态非法时返回ErrInvalidState
func (e *Engine) Run() (Summary, error) {
	if err := e.enter("run"); err != nil {
		return Summary{}, err
	}
	defer e.leave()
	for {
		if report := e.step(); report.Infectious == 0 {
			break
		}
	}
	s := e.Summary()
	log.Infof("outbreak ended: %d days, peak %d on day %d", s.Days, s.PeakCount, s.PeakDay)
	e.observer.OnSummary(s)
	return s, nil
}

// step 计算新的一天
// 算法说明：
// 1. 冻结当天开始时的网格start，只读
// 2. 复制出next；感染者的感染天数+1，达到PERIOD则康复，否则计入当天感染人数
// 3. 对next中每个易感者，统计start中处于感染状态的Moore邻居，>=THRESHOLD则感染（天数置0）并计入
// 4. 严格大于时更新峰值，替换网格，天数+1
func (e *Engine) step() DayReport {
	e.phase = Running
	day := e.clock.Next()
	start := e.grid
	next := start.Clone()
	n := start.Size()
	period := uint(e.params.Period)
	infectious := 0

	for r := range n {
		for c := range n {
			p := next.At(r, c)
			if p.State() != cell.Infectious {
				continue
			}
			p.SetInfectiousDuration(p.InfectiousDuration() + 1)
			if p.InfectiousDuration() >= period {
				p.SetState(cell.Recovered)
			} else {
				infectious++
			}
		}
	}

	newly := 0
	for r := range n {
		for c := range n {
			p := next.At(r, c)
			if p.State() != cell.Susceptible {
				continue
			}
			if start.CountNeighbors(r, c, isInfectious) >= e.params.Threshold {
				p.SetState(cell.Infectious)
				p.SetInfectiousDuration(0)
				newly++
			}
		}
	}
	infectious += newly

	if infectious > e.peakCount {
		e.peakCount = infectious
		e.peakDay = day
	}

	e.grid = next
	e.clock.Tick()
	e.infectious = infectious
	if infectious == 0 {
		e.phase = Ended
	}
	log.Debugf("day %d complete: %d infectious (%d new)", day, infectious, newly)

	report := DayReport{
		Day:        day,
		Infectious: infectious,
		Snapshot:   next.Snapshot(),
	}
	e.observer.OnDay(report)
	return report
}

// Day 已模拟的天数，加载后为0
func (e *Engine) Day() int32 {
	if e.clock == nil {
		return 0
	}
	return e.clock.Day
}

func (e *Engine) Phase() Phase {
	return e.phase
}

func (e *Engine) Params() Params {
	return e.params
}

// Infectious 最近一天结束时的感染人数（第0天为初始感染人数）
func (e *Engine) Infectious() int {
	return e.infectious
}

// Grid 返回当前网格的副本
func (e *Engine) Grid() *region.Grid {
	if e.grid == nil {
		return nil
	}
	return e.grid.Clone()
}

// Snapshot 当前网格的状态字符
func (e *Engine) Snapshot() [][]rune {
	if e.grid == nil {
		return nil
	}
	return e.grid.Snapshot()
}

// Summary 当前的持续天数与峰值
func (e *Engine) Summary() Summary {
	return Summary{
		Days:      e.Day(),
		PeakDay:   e.peakDay,
		PeakCount: e.peakCount,
	}
}
