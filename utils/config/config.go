package config

import (
	"fmt"

	"gopkg.in/yaml.v2"
)

// RuntimeConfig 运行时配置
// 功能：存储仿真运行时的配置信息，命令行参数可以覆盖配置文件
type RuntimeConfig struct {
	All Config // 全部配置

	InputFile string // 最终使用的网格文件，为空时使用随机生成或交互输入
	Prompt    bool   // 网格文件不可用时是否交互式地要求输入文件名
}

// Parse 严格解析YAML配置，未知字段视为错误
func Parse(data []byte) (Config, error) {
	c := Default()
	if err := yaml.UnmarshalStrict(data, &c); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return c, nil
}

// NewRuntimeConfig 根据配置初始化运行时配置
// 参数：config-原始配置对象，inputFile-命令行指定的网格文件（为空则使用配置中的），prompt-是否允许交互输入
// 返回：初始化的运行时配置指针
func NewRuntimeConfig(config Config, inputFile string, prompt bool) *RuntimeConfig {
	rc := &RuntimeConfig{
		All:    config,
		Prompt: prompt,
	}
	if inputFile != "" {
		rc.InputFile = inputFile
	} else {
		rc.InputFile = config.Input.File
	}
	return rc
}
