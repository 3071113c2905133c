package config

import "github.com/tsinghua-fib-lab/outbreak-sim-oss/outbreak"

// StateWeights 随机生成初始网格时各健康状态的权重
type StateWeights struct {
	Susceptible float64 `yaml:"susceptible"`
	Infectious  float64 `yaml:"infectious"`
	Recovered   float64 `yaml:"recovered,omitempty"`
	Vaccinated  float64 `yaml:"vaccinated,omitempty"`
}

// RandomRegion 随机初始网格配置
// 功能：在没有网格文件时按权重随机生成N×N初始网格
// 说明：随机性只用于初始人口分布，传播规则始终是确定性的
type RandomRegion struct {
	Size      int          `yaml:"size"`      // 网格边长N
	Seed      uint64       `yaml:"seed"`      // 随机数种子
	Threshold int          `yaml:"threshold"` // 见outbreak.Params
	Period    int          `yaml:"period"`    // 见outbreak.Params
	Weights   StateWeights `yaml:"weights"`   // 各状态权重
}

// Params 疾病参数
func (r RandomRegion) Params() outbreak.Params {
	return outbreak.Params{Threshold: r.Threshold, Period: r.Period}
}

// Input 指定初始网格来源的配置项
type Input struct {
	File   string        `yaml:"file,omitempty"`   // 网格文件路径（优先级高于随机生成）
	Random *RandomRegion `yaml:"random,omitempty"` // 随机生成
}

// Output 输出配置
type Output struct {
	Grid bool `yaml:"grid"` // 是否逐日打印网格
}

// Config YAML配置文件的根结构
type Config struct {
	Input  Input  `yaml:"input"`  // 输入
	Output Output `yaml:"output"` // 输出
}

// Default 未提供配置文件时使用的默认配置
func Default() Config {
	return Config{
		Output: Output{Grid: true},
	}
}
