package task

import (
	"errors"
	"fmt"
	"io"

	"github.com/tsinghua-fib-lab/outbreak-sim-oss/display"
	"github.com/tsinghua-fib-lab/outbreak-sim-oss/outbreak"
	"github.com/tsinghua-fib-lab/outbreak-sim-oss/utils/config"
	"github.com/tsinghua-fib-lab/outbreak-sim-oss/utils/input"
)

// ErrNoRegion 配置中既没有网格文件也没有随机生成，且不允许交互输入
var ErrNoRegion = errors.New("no initial region: set input.file, input.random or enable prompt")

// Context 仿真任务上下文
// 功能：包含一次仿真任务的所有变量和状态，替代全局变量
// 说明：管理配置、加载模块、引擎与显示模块
type Context struct {
	// 运行时配置
	runtimeConfig *config.RuntimeConfig

	// 交互输入文件名
	prompter *input.Prompter
	// 控制台输出
	console *display.Console

	// 初始网格
	region *input.Region
	// 引擎
	engine *outbreak.Engine
}

// NewContext 创建新的仿真任务上下文
// 参数：
//   - rc: 运行时配置
//   - in: 交互输入（Prompt为true时读取文件名）
//   - out: 控制台输出
//
// 返回：Context实例，尚未加载网格
func NewContext(rc *config.RuntimeConfig, in io.Reader, out io.Writer) *Context {
	return &Context{
		runtimeConfig: rc,
		prompter:      input.NewPrompter(in, out),
		console:       display.NewConsole(out, rc.All.Output.Grid),
	}
}

func (ctx *Context) RuntimeConfig() *config.RuntimeConfig {
	return ctx.runtimeConfig
}

func (ctx *Context) Region() *input.Region {
	return ctx.region
}

func (ctx *Context) Engine() *outbreak.Engine {
	return ctx.engine
}

// Init 加载初始网格并创建引擎
// 算法说明：
// 1. 数据来源优先级：网格文件 > 随机生成 > 交互输入
// 2. 网格文件不可用且允许交互时，反复要求输入文件名
// 3. 创建引擎，打印第0天的网格
func (ctx *Context) Init() error {
	region, err := ctx.load()
	if err != nil {
		return err
	}
	ctx.region = region
	log.Infof("Region: %s %dx%d", region.Name, region.Grid.Size(), region.Grid.Size())
	log.Infof("Census: %v", region.Grid.Census())

	engine, err := outbreak.New(region.Grid, region.Params, ctx.observer())
	if err != nil {
		return fmt.Errorf("task: %w", err)
	}
	ctx.engine = engine
	if ctx.console.Grid {
		ctx.console.PrintRegion(engine.Day(), engine.Snapshot())
	}
	return nil
}

func (ctx *Context) load() (*input.Region, error) {
	rc := ctx.runtimeConfig
	switch {
	case rc.InputFile != "" && rc.Prompt:
		return ctx.prompter.Load(rc.InputFile)
	case rc.InputFile != "":
		return input.Load(rc.InputFile)
	case rc.All.Input.Random != nil:
		return input.Generate(*rc.All.Input.Random)
	case rc.Prompt:
		return ctx.prompter.Load("")
	default:
		return nil, ErrNoRegion
	}
}
