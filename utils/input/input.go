package input

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/tsinghua-fib-lab/outbreak-sim-oss/entity/cell"
	"github.com/tsinghua-fib-lab/outbreak-sim-oss/entity/region"
	"github.com/tsinghua-fib-lab/outbreak-sim-oss/outbreak"
)

// ErrInvalidCharacter 网格中出现s/i/r/v以外的字符
var ErrInvalidCharacter = errors.New("invalid character")

// Region 加载完成的初始网格与疾病参数
type Region struct {
	Name   string
	Params outbreak.Params
	Grid   *region.Grid
}

// ParseError 带位置信息的解析错误
// 说明：Line从1开始计算文件行号，Column从1开始计算逗号分隔的列号（为0表示整行错误）
type ParseError struct {
	File   string
	Line   int
	Column int
	Char   rune
	Err    error
}

func (e *ParseError) Error() string {
	switch {
	case e.Column > 0 && e.Char != 0:
		return fmt.Sprintf("%s:%d:%d: %v '%c'", e.File, e.Line, e.Column, e.Err, e.Char)
	case e.Column > 0:
		return fmt.Sprintf("%s:%d:%d: %v", e.File, e.Line, e.Column, e.Err)
	default:
		return fmt.Sprintf("%s:%d: %v", e.File, e.Line, e.Err)
	}
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Load 从文件加载初始网格
func Load(path string) (*Region, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(filepath.Base(path), f)
}

// Parse 解析网格文件
// 功能：读取疾病参数与初始网格
// 参数：name-用于错误信息的文件名，r-文件内容
// 返回：加载完成的网格；格式错误时返回*ParseError
// 算法说明：
// 1. 第1行"threshold:N"，第2行"period:N"，只取冒号后的整数，必须为正
// 2. 其余每行为逗号分隔的一行个体，取每个字段的首字符（大小写不敏感）
// 3. 由第一行数据的列数确定N，之后每行必须有N列，且共N行
// 4. 忽略文件末尾的空行
func Parse(name string, r io.Reader) (*Region, error) {
	sc := bufio.NewScanner(r)
	lineNo := 0
	nextLine := func() (string, bool) {
		if !sc.Scan() {
			return "", false
		}
		lineNo++
		return strings.TrimRight(sc.Text(), "\r"), true
	}

	var params outbreak.Params
	for _, c := range []struct {
		key   string
		value *int
	}{
		{"threshold", &params.Threshold},
		{"period", &params.Period},
	} {
		line, ok := nextLine()
		if !ok {
			return nil, &ParseError{File: name, Line: lineNo + 1, Err: fmt.Errorf("%w: missing %s", outbreak.ErrInvalidConstants, c.key)}
		}
		v, err := parseConstant(line)
		if err != nil {
			return nil, &ParseError{File: name, Line: lineNo, Err: fmt.Errorf("%w: %s: %v", outbreak.ErrInvalidConstants, c.key, err)}
		}
		*c.value = v
	}
	if err := params.Validate(); err != nil {
		return nil, &ParseError{File: name, Line: lineNo, Err: err}
	}

	var rows [][]cell.Cell
	var lines []int // 每行数据对应的文件行号
	blank := 0      // 连续空行数
	for {
		line, ok := nextLine()
		if !ok {
			break
		}
		if strings.TrimSpace(line) == "" {
			blank++
			continue
		}
		if blank > 0 && len(rows) > 0 {
			return nil, &ParseError{File: name, Line: lineNo - blank, Err: fmt.Errorf("%w: blank row", region.ErrInvalidDimensions)}
		}
		blank = 0
		row, err := parseRow(name, lineNo, line)
		if err != nil {
			return nil, err
		}
		if len(rows) > 0 && len(row) != len(rows[0]) {
			return nil, &ParseError{File: name, Line: lineNo, Err: fmt.Errorf("%w: row has %d cells, want %d", region.ErrInvalidDimensions, len(row), len(rows[0]))}
		}
		rows = append(rows, row)
		lines = append(lines, lineNo)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &ParseError{File: name, Line: lineNo, Err: fmt.Errorf("%w: no rows", region.ErrInvalidDimensions)}
	}
	if n := len(rows[0]); len(rows) != n {
		return nil, &ParseError{File: name, Line: lines[len(lines)-1], Err: fmt.Errorf("%w: %d rows of %d cells", region.ErrInvalidDimensions, len(rows), n)}
	}

	grid, err := region.New(rows)
	if err != nil {
		return nil, err
	}
	log.Infof("loaded %s: %dx%d, threshold=%d period=%d", name, grid.Size(), grid.Size(), params.Threshold, params.Period)
	return &Region{Name: name, Params: params, Grid: grid}, nil
}

func parseConstant(line string) (int, error) {
	_, value, ok := strings.Cut(line, ":")
	if !ok {
		return 0, fmt.Errorf("missing ':' in %q", line)
	}
	return strconv.Atoi(strings.TrimSpace(value))
}

func parseRow(name string, lineNo int, line string) ([]cell.Cell, error) {
	fields := strings.Split(line, ",")
	row := make([]cell.Cell, 0, len(fields))
	for i, field := range fields {
		field = strings.TrimSpace(field)
		if field == "" {
			return nil, &ParseError{File: name, Line: lineNo, Column: i + 1, Err: fmt.Errorf("%w: empty field", ErrInvalidCharacter)}
		}
		r, _ := utf8.DecodeRuneInString(field)
		state, err := cell.ParseHealthState(r)
		if err != nil {
			return nil, &ParseError{File: name, Line: lineNo, Column: i + 1, Char: r, Err: ErrInvalidCharacter}
		}
		row = append(row, cell.New(state))
	}
	return row, nil
}

// fileExists 检查路径是否为已存在的文件
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	stat, err := os.Stat(path)
	return err == nil && !stat.IsDir()
}
