package cell

import (
	"errors"
	"fmt"
	"unicode"
)

// ErrInvalidState 非法的健康状态字符
var ErrInvalidState = errors.New("invalid health state")

// HealthState 个体健康状态（SIR+V模型）
type HealthState uint8

const (
	Susceptible HealthState = iota // 易感
	Infectious                     // 感染（具有传染性）
	Recovered                      // 康复（永久免疫）
	Vaccinated                     // 已接种（永久免疫）
)

// 状态与输入输出字符的对应关系
var stateRunes = map[HealthState]rune{
	Susceptible: 's',
	Infectious:  'i',
	Recovered:   'r',
	Vaccinated:  'v',
}

// Rune 返回状态对应的小写字符
func (s HealthState) Rune() rune {
	if r, ok := stateRunes[s]; ok {
		return r
	}
	return '?'
}

func (s HealthState) String() string {
	switch s {
	case Susceptible:
		return "susceptible"
	case Infectious:
		return "infectious"
	case Recovered:
		return "recovered"
	case Vaccinated:
		return "vaccinated"
	default:
		return fmt.Sprintf("HealthState(%d)", uint8(s))
	}
}

// ParseHealthState 将字符解析为健康状态，大小写不敏感
func ParseHealthState(r rune) (HealthState, error) {
	switch unicode.ToLower(r) {
	case 's':
		return Susceptible, nil
	case 'i':
		return Infectious, nil
	case 'r':
		return Recovered, nil
	case 'v':
		return Vaccinated, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidState, r)
	}
}

// Cell 网格中的单个个体
// 功能：记录健康状态与连续处于感染状态的天数
// 说明：离开感染状态后infectiousDuration保留原值不清零，只有重新进入感染状态时才置0
type Cell struct {
	state              HealthState
	infectiousDuration uint
}

// New 以指定状态创建个体，感染天数为0
func New(state HealthState) Cell {
	return Cell{state: state}
}

// NewWithDuration 以指定状态和感染天数创建个体（用于逐日复制）
func NewWithDuration(state HealthState, infectiousDuration uint) Cell {
	return Cell{state: state, infectiousDuration: infectiousDuration}
}

func (c *Cell) State() HealthState {
	return c.state
}

func (c *Cell) InfectiousDuration() uint {
	return c.infectiousDuration
}

// SetState 直接设置状态，不做转移合法性检查
func (c *Cell) SetState(state HealthState) {
	c.state = state
}

func (c *Cell) SetInfectiousDuration(d uint) {
	c.infectiousDuration = d
}
