package task

import (
	"flag"

	"github.com/tsinghua-fib-lab/outbreak-sim-oss/display"
	"github.com/tsinghua-fib-lab/outbreak-sim-oss/outbreak"
)

const (
	SelfName = "outbreak" // 本程序的名字
)

var (
	heartBeatInterval = flag.Int("log.heartbeat_interval", 10, "心跳日志间隔天数")
)

// Run 运行
// 功能：加载初始网格，推进直到感染人数为0，返回疫情汇总
// 说明：Init只在第一次调用时执行
func (ctx *Context) Run() (outbreak.Summary, error) {
	if ctx.engine == nil {
		if err := ctx.Init(); err != nil {
			return outbreak.Summary{}, err
		}
	}
	s, err := ctx.engine.Run()
	if err != nil {
		return outbreak.Summary{}, err
	}
	log.Infof("engine complete")
	return s, nil
}

// observer 组装显示模块：控制台输出与心跳日志
func (ctx *Context) observer() outbreak.Observer {
	return display.Multi{
		ctx.console,
		display.NewHeartbeat(int32(*heartBeatInterval)),
	}
}
