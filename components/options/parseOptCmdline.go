package options

import (
	"flag"
	"fmt"

	"github.com/nostalgist134/GqlGIU/components/lab"
	"github.com/nostalgist134/GqlGIU/components/proxy"
)

const (
	CmdServe = "serve"
	CmdProxy = "proxy"
	CmdLab   = "lab"
	CmdFuzz  = "fuzz"
)

const DefApiAddr = "127.0.0.1:8880"

// ParseOptCmdline 解析命令行参数，args不含程序名（通常传os.Args[1:]）
func ParseOptCmdline(args []string) (*Opt, error) {
	if len(args) == 0 {
		usage()
		return nil, flag.ErrHelp
	}
	cmd := args[0]
	rest := args[1:]
	switch cmd {
	case CmdServe:
		return parseServe(rest)
	case CmdProxy:
		return parseProxy(rest)
	case CmdLab:
		return parseLab(rest)
	case CmdFuzz:
		return parseFuzz(rest)
	case "-h", "--help", "help":
		usage()
		return nil, flag.ErrHelp
	default:
		usage()
		return nil, fmt.Errorf("unknown subcommand %q", cmd)
	}
}

func parseServe(args []string) (*Opt, error) {
	serve := &Serve{}
	fs := flag.NewFlagSet(CmdServe, flag.ContinueOnError)
	fs.Usage = func() { usageServe(fs) }
	fs.StringVar(&serve.Addr, "addr", DefApiAddr, "address for the workbench api to listen on")
	fs.StringVar(&serve.Token, "token", "", "access token(a random one is generated when empty)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return &Opt{Cmd: CmdServe, Serve: serve}, nil
}

func parseProxy(args []string) (*Opt, error) {
	prx := &Proxy{}
	fs := flag.NewFlagSet(CmdProxy, flag.ContinueOnError)
	fs.Usage = func() { usageProxy(fs) }
	fs.StringVar(&prx.Addr, "addr", proxy.DefServAddr, "address for the forwarding proxy to listen on")
	fs.IntVar(&prx.Timeout, "timeout", proxy.DefTimeoutSeconds, "upstream timeout(second)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return &Opt{Cmd: CmdProxy, Proxy: prx}, nil
}

func parseLab(args []string) (*Opt, error) {
	l := &Lab{}
	fs := flag.NewFlagSet(CmdLab, flag.ContinueOnError)
	fs.Usage = func() { usageLab(fs) }
	fs.StringVar(&l.Addr, "addr", lab.DefServAddr, "address for the vulnerable lab to listen on")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return &Opt{Cmd: CmdLab, Lab: l}, nil
}

func parseFuzz(args []string) (*Opt, error) {
	fz := &Fuzz{}
	fs := flag.NewFlagSet(CmdFuzz, flag.ContinueOnError)
	fs.Usage = func() { usageFuzz(fs) }
	// 请求设置
	fs.StringVar(&fz.URL, "u", "", "graphql endpoint url to giu")
	fs.StringVar(&fz.Method, "X", "POST", "request method")
	fs.StringVar(&fz.Query, "q", "", "graphql query text")
	fs.StringVar(&fz.Variables, "d", "", "variables json")
	fs.Var(&fz.Headers, "H", "request headers to be used")
	fs.StringVar(&fz.ProxyURL, "x", "", "forwarding proxy base url(direct when empty)")
	// payload设置
	fs.Var(&fz.Wordlists, "w", "wordlist files to be used for payload")
	fs.IntVar(&fz.MarkStart, "mark-start", -1, "marker start offset in query")
	fs.IntVar(&fz.MarkEnd, "mark-end", -1, "marker end offset in query(exclusive)")
	// 并发与节流
	fs.IntVar(&fz.Threads, "t", 1, "batch size(requests in flight at once)")
	fs.IntVar(&fz.Delay, "delay", 0, "delay between batches(millisecond)")
	// 输出设置
	fs.BoolVar(&fz.Screen, "screen", false, "live terminal screen output")
	fs.StringVar(&fz.OutputFile, "o", "", "json file to output results")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fz.URL == "" {
		fs.Usage()
		return nil, fmt.Errorf("flag -u is required for subcommand %s", CmdFuzz)
	}
	return &Opt{Cmd: CmdFuzz, Fuzz: fz}, nil
}
