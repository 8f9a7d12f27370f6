package wordlist

import (
	"bufio"
	"os"
	"strings"
)

// Parse 把一段换行分隔的文本解析成wordlist，每行trim，空行丢弃，重复和顺序原样保留
func Parse(blob string) []string {
	words := make([]string, 0)
	for _, line := range strings.Split(blob, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			words = append(words, line)
		}
	}
	return words
}

// LoadFile 从文件读wordlist，规则同Parse
func LoadFile(fileName string) ([]string, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	words := make([]string, 0)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			words = append(words, line)
		}
	}
	return words, scanner.Err()
}
