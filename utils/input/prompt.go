package input

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNoInput 交互输入结束（EOF）仍未得到可用的文件
var ErrNoInput = errors.New("no input file")

// Prompter 交互式获取网格文件
type Prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewScanner(in), out: out}
}

// Load 加载网格文件，失败时反复要求输入新的文件名
// 功能：文件不存在或解析失败时提示用户重新输入，直到加载成功或输入结束
// 参数：path-初始文件名（可为空）
// 返回：加载完成的网格；输入结束时返回ErrNoInput
func (p *Prompter) Load(path string) (*Region, error) {
	for {
		if fileExists(path) {
			region, err := Load(path)
			if err == nil {
				return region, nil
			}
			log.Warnf("failed to load %s: %v", path, err)
			fmt.Fprintf(p.out, "There was an error trying to load your file! (%v)\nPlease enter the filename of your input file: \n", err)
		} else {
			fmt.Fprintln(p.out, "That file does not exist! Please enter the filename of your input file: ")
		}
		if !p.in.Scan() {
			if err := p.in.Err(); err != nil {
				return nil, err
			}
			return nil, ErrNoInput
		}
		path = strings.TrimSpace(p.in.Text())
	}
}
