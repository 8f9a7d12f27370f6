package output

import (
	"encoding/json"
	"io"
	"os"
	"sync"

	"github.com/nostalgist134/GqlGIU/components/gqlTypes"
)

// FileOut 把结果行流式写进一个json文件，写入的中途文件不保证可解析，
// Finish之后是一个{"results":[...]}文档
type FileOut struct {
	mu    sync.Mutex
	f     *os.File
	empty bool
}

func NewFileOut(path string) (*FileOut, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}
	if _, err = f.WriteString(`{"results":[`); err != nil {
		f.Close()
		return nil, err
	}
	return &FileOut{f: f, empty: true}, nil
}

// Write 写入一行结果，多协程下并发调用时无法知道哪条是最后一条，
// 所以逗号先写上，Finish时再把多余的那个退掉
func (o *FileOut) Write(res *gqlTypes.FuzzResult) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.f == nil {
		return os.ErrClosed
	}
	row, err := json.Marshal(res)
	if err != nil {
		return err
	}
	if _, err = o.f.Write(row); err != nil {
		return err
	}
	_, err = o.f.Write([]byte{','})
	o.empty = false
	return err
}

// Finish 闭合json文档并关闭文件
func (o *FileOut) Finish() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.f == nil {
		return nil
	}
	if !o.empty {
		// 把最后一个多余的逗号通过回移文件指针去掉
		if _, err := o.f.Seek(-1, io.SeekCurrent); err != nil {
			return err
		}
	}
	if _, err := o.f.WriteString("]}"); err != nil {
		return err
	}
	err := o.f.Close()
	o.f = nil
	return err
}
