package clock

import (
	"fmt"
)

// Clock 仿真时钟
// 功能：记录已模拟的天数，初始状态（加载完成、尚未模拟）为第0天
// 说明：由引擎独占，不使用任何全局变量，多个仿真实例可以共存
type Clock struct {
	Day int32 // 当前天数
}

// New 创建新的时钟实例
func New() *Clock {
	c := &Clock{}
	c.Init()
	return c
}

// Init 初始化时钟状态
// 功能：将当前天数重置为第0天
func (c *Clock) Init() {
	c.Day = 0
}

// Next 返回正在计算的下一天（不推进时钟）
func (c *Clock) Next() int32 {
	return c.Day + 1
}

// Tick 推进一天
// 返回：推进后的天数
func (c *Clock) Tick() int32 {
	c.Day++
	return c.Day
}

// String 获取时钟的字符串表示
// 返回：格式化的字符串（Day: N）
func (c *Clock) String() string {
	return fmt.Sprintf("Day: %d", c.Day)
}
