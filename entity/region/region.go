package region

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/outbreak-sim-oss/entity/cell"
)

// ErrInvalidDimensions 网格为空或不是N×N方阵
var ErrInvalidDimensions = errors.New("invalid grid dimensions")

// Moore邻域的8个偏移量（行，列）
var mooreOffsets = [8][2]int{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// Grid N×N人口网格
// 功能：持有一代（一天）的全部个体，提供邻域查询、复制与快照
// 说明：边界有限，不做环绕；越界位置视为不存在
type Grid struct {
	cells [][]cell.Cell
	n     int
}

// New 根据二维个体数组创建网格
// 功能：校验输入为非空方阵，并深拷贝一份作为网格数据
// 参数：cells-按行存储的个体
// 返回：网格指针；不是方阵时返回ErrInvalidDimensions
func New(cells [][]cell.Cell) (*Grid, error) {
	n := len(cells)
	if n == 0 {
		return nil, fmt.Errorf("%w: empty grid", ErrInvalidDimensions)
	}
	for r, row := range cells {
		if len(row) != n {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidDimensions, r, len(row), n)
		}
	}
	g := &Grid{n: n, cells: make([][]cell.Cell, n)}
	for r, row := range cells {
		g.cells[r] = append([]cell.Cell(nil), row...)
	}
	return g, nil
}

// FromStates 以状态矩阵创建网格，所有个体感染天数为0
func FromStates(states [][]cell.HealthState) (*Grid, error) {
	return New(lo.Map(states, func(row []cell.HealthState, _ int) []cell.Cell {
		return lo.Map(row, func(s cell.HealthState, _ int) cell.Cell {
			return cell.New(s)
		})
	}))
}

// Size 网格边长N
func (g *Grid) Size() int {
	return g.n
}

func (g *Grid) InBounds(r, c int) bool {
	return r >= 0 && r < g.n && c >= 0 && c < g.n
}

// At 返回(r, c)处个体的指针，越界时panic
func (g *Grid) At(r, c int) *cell.Cell {
	return &g.cells[r][c]
}

// Clone 深拷贝
func (g *Grid) Clone() *Grid {
	next := &Grid{n: g.n, cells: make([][]cell.Cell, g.n)}
	for r, row := range g.cells {
		next.cells[r] = append([]cell.Cell(nil), row...)
	}
	return next
}

// CountNeighbors 统计(r, c)的Moore邻域中满足条件的个体数
// 功能：遍历至多8个相邻位置，只计入网格范围内的位置
// 参数：r,c-行列坐标，pred-判定函数
// 返回：满足pred的邻居数量
// 说明：角落有3个邻居，边上有5个，内部有8个
func (g *Grid) CountNeighbors(r, c int, pred func(*cell.Cell) bool) int {
	count := 0
	for _, off := range mooreOffsets {
		nr, nc := r+off[0], c+off[1]
		if !g.InBounds(nr, nc) {
			continue
		}
		if pred(&g.cells[nr][nc]) {
			count++
		}
	}
	return count
}

// Neighbors 返回(r, c)在网格内的邻居数量
func (g *Grid) Neighbors(r, c int) int {
	return g.CountNeighbors(r, c, func(*cell.Cell) bool { return true })
}

// Snapshot 以状态字符的形式导出网格
func (g *Grid) Snapshot() [][]rune {
	return lo.Map(g.cells, func(row []cell.Cell, _ int) []rune {
		return lo.Map(row, func(c cell.Cell, _ int) rune {
			return c.State().Rune()
		})
	})
}

// String 每行输出"s i r "格式，以换行分隔
func (g *Grid) String() string {
	var b strings.Builder
	for _, row := range g.cells {
		for _, c := range row {
			b.WriteRune(c.State().Rune())
			b.WriteByte(' ')
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Census 各健康状态的人数统计
type Census map[cell.HealthState]int

func (c Census) String() string {
	return fmt.Sprintf("S=%d I=%d R=%d V=%d",
		c[cell.Susceptible], c[cell.Infectious], c[cell.Recovered], c[cell.Vaccinated])
}

// Census 统计当前网格中各状态人数
func (g *Grid) Census() Census {
	census := Census{}
	for _, row := range g.cells {
		for state, n := range lo.CountValuesBy(row, func(c cell.Cell) cell.HealthState {
			return c.State()
		}) {
			census[state] += n
		}
	}
	return census
}

// Count 统计处于指定状态的人数
func (g *Grid) Count(state cell.HealthState) int {
	return lo.SumBy(g.cells, func(row []cell.Cell) int {
		return lo.CountBy(row, func(c cell.Cell) bool {
			return c.State() == state
		})
	})
}
