package outbreak_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/outbreak-sim-oss/entity/cell"
	"github.com/tsinghua-fib-lab/outbreak-sim-oss/entity/region"
	"github.com/tsinghua-fib-lab/outbreak-sim-oss/outbreak"
)

const (
	S = cell.Susceptible
	I = cell.Infectious
	R = cell.Recovered
	V = cell.Vaccinated
)

type recorder struct {
	days      []outbreak.DayReport
	summaries []outbreak.Summary
}

func (r *recorder) OnDay(report outbreak.DayReport) {
	r.days = append(r.days, report)
}

func (r *recorder) OnSummary(s outbreak.Summary) {
	r.summaries = append(r.summaries, s)
}

func newEngine(t *testing.T, states [][]cell.HealthState, threshold, period int, obs outbreak.Observer) *outbreak.Engine {
	t.Helper()
	g, err := region.FromStates(states)
	require.NoError(t, err)
	e, err := outbreak.New(g, outbreak.Params{Threshold: threshold, Period: period}, obs)
	require.NoError(t, err)
	return e
}

func TestNewValidates(t *testing.T) {
	g, err := region.FromStates([][]cell.HealthState{{S}})
	require.NoError(t, err)

	_, err = outbreak.New(nil, outbreak.Params{Threshold: 1, Period: 1}, nil)
	assert.ErrorIs(t, err, region.ErrInvalidDimensions)

	_, err = outbreak.New(g, outbreak.Params{Threshold: 0, Period: 1}, nil)
	assert.ErrorIs(t, err, outbreak.ErrInvalidConstants)

	_, err = outbreak.New(g, outbreak.Params{Threshold: 1, Period: -2}, nil)
	assert.ErrorIs(t, err, outbreak.ErrInvalidConstants)

	e, err := outbreak.New(g, outbreak.Params{Threshold: 1, Period: 1}, nil)
	require.NoError(t, err)
	assert.Equal(t, outbreak.Loaded, e.Phase())
	assert.Equal(t, int32(0), e.Day())
	assert.Equal(t, outbreak.Summary{}, e.Summary())
}

func TestZeroEngineRejectsStep(t *testing.T) {
	var e outbreak.Engine
	_, err := e.Step()
	assert.ErrorIs(t, err, outbreak.ErrInvalidState)
	_, err = e.Run()
	assert.ErrorIs(t, err, outbreak.ErrInvalidState)
	assert.Equal(t, int32(0), e.Day())
	assert.Nil(t, e.Grid())
}

// 3×3，中心感染，THRESHOLD=1，PERIOD=1
func TestScenarioCenterSpread(t *testing.T) {
	rec := &recorder{}
	e := newEngine(t, [][]cell.HealthState{
		{S, S, S},
		{S, I, S},
		{S, S, S},
	}, 1, 1, rec)

	day1, err := e.Step()
	require.NoError(t, err)
	assert.Equal(t, int32(1), day1.Day)
	assert.Equal(t, 8, day1.Infectious)
	assert.Equal(t, [][]rune{
		{'i', 'i', 'i'},
		{'i', 'r', 'i'},
		{'i', 'i', 'i'},
	}, day1.Snapshot)
	assert.Equal(t, outbreak.Running, e.Phase())

	day2, err := e.Step()
	require.NoError(t, err)
	assert.Equal(t, 0, day2.Infectious)
	assert.Equal(t, outbreak.Ended, e.Phase())
	assert.Equal(t, 9, e.Grid().Count(cell.Recovered))

	assert.Equal(t, outbreak.Summary{Days: 2, PeakDay: 1, PeakCount: 8}, e.Summary())
	assert.Len(t, rec.days, 2)
	assert.Empty(t, rec.summaries)
}

func TestScenarioCenterSpreadRun(t *testing.T) {
	rec := &recorder{}
	e := newEngine(t, [][]cell.HealthState{
		{S, S, S},
		{S, I, S},
		{S, S, S},
	}, 1, 1, rec)

	s, err := e.Run()
	require.NoError(t, err)
	assert.Equal(t, outbreak.Summary{Days: 2, PeakDay: 1, PeakCount: 8}, s)
	require.Len(t, rec.days, 2)
	assert.Equal(t, []int{8, 0}, []int{rec.days[0].Infectious, rec.days[1].Infectious})
	assert.Equal(t, []outbreak.Summary{s}, rec.summaries)
}

// 没有感染者时也至少推进一天
func TestScenarioNoInfectious(t *testing.T) {
	rec := &recorder{}
	e := newEngine(t, [][]cell.HealthState{
		{V, R},
		{R, V},
	}, 1, 3, rec)
	assert.Equal(t, 0, e.Infectious())

	s, err := e.Run()
	require.NoError(t, err)
	assert.Equal(t, outbreak.Summary{Days: 1, PeakDay: 0, PeakCount: 0}, s)
	assert.Len(t, rec.days, 1)
	assert.Equal(t, outbreak.Ended, e.Phase())
}

// 1×1，PERIOD=2
func TestScenarioSingleCell(t *testing.T) {
	e := newEngine(t, [][]cell.HealthState{{I}}, 1, 2, nil)

	day1, err := e.Step()
	require.NoError(t, err)
	assert.Equal(t, 1, day1.Infectious)
	assert.Equal(t, uint(1), e.Grid().At(0, 0).InfectiousDuration())

	day2, err := e.Step()
	require.NoError(t, err)
	assert.Equal(t, 0, day2.Infectious)

	g := e.Grid()
	assert.Equal(t, cell.Recovered, g.At(0, 0).State())
	// 离开感染状态后天数保留
	assert.Equal(t, uint(2), g.At(0, 0).InfectiousDuration())
	assert.Equal(t, outbreak.Summary{Days: 2, PeakDay: 1, PeakCount: 1}, e.Summary())
}

func TestInfectiousDurationCountsDays(t *testing.T) {
	e := newEngine(t, [][]cell.HealthState{{I}}, 1, 5, nil)
	for k := 1; k < 5; k++ {
		_, err := e.Step()
		require.NoError(t, err)
		c := e.Grid().At(0, 0)
		assert.Equal(t, cell.Infectious, c.State())
		assert.Equal(t, uint(k), c.InfectiousDuration())
	}
	report, err := e.Step()
	require.NoError(t, err)
	assert.Equal(t, 0, report.Infectious)
	assert.Equal(t, cell.Recovered, e.Grid().At(0, 0).State())
}

func TestNewlyInfectiousStartAtZero(t *testing.T) {
	e := newEngine(t, [][]cell.HealthState{
		{I, S},
		{S, S},
	}, 1, 3, nil)

	_, err := e.Step()
	require.NoError(t, err)
	g := e.Grid()
	assert.Equal(t, uint(1), g.At(0, 0).InfectiousDuration())
	for _, p := range [][2]int{{0, 1}, {1, 0}, {1, 1}} {
		c := g.At(p[0], p[1])
		assert.Equal(t, cell.Infectious, c.State())
		assert.Equal(t, uint(0), c.InfectiousDuration())
	}

	_, err = e.Step()
	require.NoError(t, err)
	g = e.Grid()
	assert.Equal(t, uint(2), g.At(0, 0).InfectiousDuration())
	assert.Equal(t, uint(1), g.At(1, 1).InfectiousDuration())
}

func TestThresholdUsesStartOfDayNeighbors(t *testing.T) {
	e := newEngine(t, [][]cell.HealthState{
		{I, S, I},
		{S, S, S},
		{S, S, S},
	}, 2, 5, nil)

	report, err := e.Step()
	require.NoError(t, err)
	assert.Equal(t, 4, report.Infectious)
	assert.Equal(t, [][]rune{
		{'i', 'i', 'i'},
		{'s', 'i', 's'},
		{'s', 's', 's'},
	}, report.Snapshot)
}

func TestNoSameDayCascade(t *testing.T) {
	e := newEngine(t, [][]cell.HealthState{
		{I, S, S},
		{S, S, S},
		{S, S, V},
	}, 1, 5, nil)

	report, err := e.Step()
	require.NoError(t, err)
	assert.Equal(t, [][]rune{
		{'i', 'i', 's'},
		{'i', 'i', 's'},
		{'s', 's', 'v'},
	}, report.Snapshot)
	assert.Equal(t, 4, report.Infectious)
}

func TestRecoveredOnlyFromStartOfDayInfectious(t *testing.T) {
	// 第1天中心康复，但邻居仍按当天开始时的感染状态判定
	e := newEngine(t, [][]cell.HealthState{
		{S, S},
		{S, I},
	}, 1, 1, nil)

	report, err := e.Step()
	require.NoError(t, err)
	assert.Equal(t, 3, report.Infectious)
	assert.Equal(t, [][]rune{
		{'i', 'i'},
		{'i', 'r'},
	}, report.Snapshot)
}

func TestPeakKeepsFirstDayOnTie(t *testing.T) {
	e := newEngine(t, [][]cell.HealthState{
		{I, V},
		{V, I},
	}, 9, 3, nil)

	s, err := e.Run()
	require.NoError(t, err)
	assert.Equal(t, outbreak.Summary{Days: 3, PeakDay: 1, PeakCount: 2}, s)
}

func TestStepAfterEndedFails(t *testing.T) {
	e := newEngine(t, [][]cell.HealthState{{I}}, 1, 1, nil)

	_, err := e.Run()
	require.NoError(t, err)

	_, err = e.Step()
	assert.ErrorIs(t, err, outbreak.ErrInvalidState)
	_, err = e.Run()
	assert.ErrorIs(t, err, outbreak.ErrInvalidState)
	assert.Equal(t, int32(1), e.Day())
}

func TestMonotoneExtinction(t *testing.T) {
	rec := &recorder{}
	e := newEngine(t, [][]cell.HealthState{
		{S, S, S, S, S},
		{S, I, S, V, S},
		{S, S, S, S, S},
		{S, V, S, I, S},
		{S, S, S, S, R},
	}, 2, 2, rec)

	_, err := e.Run()
	require.NoError(t, err)
	require.NotEmpty(t, rec.days)
	for i, d := range rec.days {
		assert.Equal(t, int32(i+1), d.Day)
		if i < len(rec.days)-1 {
			assert.Positive(t, d.Infectious)
		}
	}
	assert.Equal(t, 0, rec.days[len(rec.days)-1].Infectious)
}

type reentrant struct {
	e   *outbreak.Engine
	err error
}

func (r *reentrant) OnDay(outbreak.DayReport) {
	_, r.err = r.e.Step()
}

func (r *reentrant) OnSummary(outbreak.Summary) {}

func TestReentrantStepRejected(t *testing.T) {
	obs := &reentrant{}
	e := newEngine(t, [][]cell.HealthState{{I}}, 1, 3, obs)
	obs.e = e

	_, err := e.Step()
	require.NoError(t, err)
	assert.ErrorIs(t, obs.err, outbreak.ErrInvalidState)
	assert.Equal(t, int32(1), e.Day())

	// 重入被拒绝后引擎仍可继续
	_, err = e.Step()
	require.NoError(t, err)
	assert.Equal(t, int32(2), e.Day())
}

func TestGridIsCopy(t *testing.T) {
	e := newEngine(t, [][]cell.HealthState{{S, S}, {S, I}}, 1, 2, nil)
	g := e.Grid()
	g.At(1, 1).SetState(cell.Vaccinated)
	assert.Equal(t, 1, e.Grid().Count(cell.Infectious))
}
