package input

import (
	"errors"
	"fmt"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/outbreak-sim-oss/entity/cell"
	"github.com/tsinghua-fib-lab/outbreak-sim-oss/entity/region"
	"github.com/tsinghua-fib-lab/outbreak-sim-oss/utils/config"
	"github.com/tsinghua-fib-lab/outbreak-sim-oss/utils/randengine"
)

// ErrInvalidWeights 随机生成的状态权重为负或总和不为正
var ErrInvalidWeights = errors.New("invalid state weights")

// Generate 随机生成初始网格
// 功能：按配置的权重为N×N网格中每个个体抽取初始状态
// 参数：c-随机网格配置
// 返回：生成的网格；相同的种子总是得到相同的网格
func Generate(c config.RandomRegion) (*Region, error) {
	params := c.Params()
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if c.Size <= 0 {
		return nil, fmt.Errorf("%w: size must be positive, got %d", region.ErrInvalidDimensions, c.Size)
	}
	// 下标与cell.HealthState的取值一一对应
	weight := []float64{
		c.Weights.Susceptible,
		c.Weights.Infectious,
		c.Weights.Recovered,
		c.Weights.Vaccinated,
	}
	if lo.SomeBy(weight, func(w float64) bool { return w < 0 }) || lo.Sum(weight) <= 0 {
		return nil, fmt.Errorf("%w: %+v", ErrInvalidWeights, c.Weights)
	}

	engine := randengine.New(c.Seed)
	states := lo.Times(c.Size, func(int) []cell.HealthState {
		return lo.Times(c.Size, func(int) cell.HealthState {
			return cell.HealthState(engine.DiscreteDistribution(weight))
		})
	})
	grid, err := region.FromStates(states)
	if err != nil {
		return nil, err
	}
	name := fmt.Sprintf("random(size=%d, seed=%d)", c.Size, c.Seed)
	log.Infof("generated %s: %v", name, grid.Census())
	return &Region{Name: name, Params: params, Grid: grid}, nil
}
