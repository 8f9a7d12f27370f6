package options

type (
	sliceStr []string

	// Serve workbench api服务设置
	Serve struct {
		Addr  string `json:"addr,omitempty"`
		Token string `json:"token,omitempty"`
	}
	// Proxy 转发代理设置
	Proxy struct {
		Addr    string `json:"addr,omitempty"`
		Timeout int    `json:"timeout,omitempty"`
	}
	// Lab 练习靶场设置
	Lab struct {
		Addr string `json:"addr,omitempty"`
	}
	// Fuzz 命令行直接跑一次fuzz的设置
	Fuzz struct {
		URL        string   `json:"url,omitempty"`
		Method     string   `json:"method,omitempty"`
		Query      string   `json:"query,omitempty"`
		Variables  string   `json:"variables,omitempty"`
		Headers    sliceStr `json:"header,omitempty"`
		Wordlists  sliceStr `json:"wordlists,omitempty"`
		MarkStart  int      `json:"mark_start,omitempty"`
		MarkEnd    int      `json:"mark_end,omitempty"`
		Threads    int      `json:"threads,omitempty"`
		Delay      int      `json:"delay,omitempty"`
		ProxyURL   string   `json:"proxy,omitempty"`
		Screen     bool     `json:"screen,omitempty"`
		OutputFile string   `json:"output_file,omitempty"`
	}
	Opt struct {
		Cmd   string
		Serve *Serve
		Proxy *Proxy
		Lab   *Lab
		Fuzz  *Fuzz
	}
)

func (sliceStr *sliceStr) String() string {
	return ""
}

func (sliceStr *sliceStr) Set(value string) error {
	*sliceStr = append(*sliceStr, value)
	return nil
}
