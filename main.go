package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nostalgist134/GqlGIU/components/gqlTypes"
	"github.com/nostalgist134/GqlGIU/components/lab"
	"github.com/nostalgist134/GqlGIU/components/options"
	"github.com/nostalgist134/GqlGIU/components/output"
	"github.com/nostalgist134/GqlGIU/components/proxy"
	"github.com/nostalgist134/GqlGIU/components/version"
	"github.com/nostalgist134/GqlGIU/libggiu"
)

func waitInterrupt() <-chan os.Signal {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	return sig
}

func runServe(opt *options.Serve) {
	s := libggiu.NewService(opt.Addr, opt.Token)
	fmt.Print(version.GetLogoVersionSlogan())
	fmt.Printf("workbench api listening on %s\naccess token: %s\n", s.Addr(), s.AccessToken())
	s.Start()
	<-waitInterrupt()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.Shutdown(ctx)
}

func runProxy(opt *options.Proxy) {
	p := proxy.New(opt.Addr, opt.Timeout)
	fmt.Printf("forwarding proxy listening on %s\n", p.Addr())
	go func() {
		<-waitInterrupt()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		p.Shutdown(ctx)
	}()
	if err := p.Start(); err != nil {
		quitErr(err)
	}
}

func runLab(opt *options.Lab) {
	l, err := lab.New(opt.Addr)
	if err != nil {
		quitErr(err)
	}
	fmt.Printf("practice target listening on %s (do NOT expose this to the network)\n", l.Addr())
	go func() {
		<-waitInterrupt()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		l.Shutdown(ctx)
	}()
	if err := l.Start(); err != nil {
		quitErr(err)
	}
}

func runFuzz(opt *options.Fuzz) {
	job, err := opt2job(opt)
	if err != nil {
		quitErr(err)
	}

	var fileOut *output.FileOut
	if opt.OutputFile != "" {
		if fileOut, err = output.NewFileOut(opt.OutputFile); err != nil {
			quitErr(err)
		}
	}
	if opt.Screen {
		output.InitScreen(job)
	}

	onResult := func(r *gqlTypes.FuzzResult) {
		if opt.Screen {
			output.ScreenResult(r)
		} else {
			fmt.Printf("#%-4d %-24s status: %-28s len: %-8s time: %dms\n",
				r.Seq, r.Word, r.Status, r.Length, r.TimeMs)
		}
		if fileOut != nil {
			fileOut.Write(r)
		}
	}

	fz := libggiu.NewFuzzer()
	if err = fz.Start(job, onResult); err != nil {
		if opt.Screen {
			output.ScreenClose()
		}
		quitErr(err)
	}

	go func() {
		<-waitInterrupt()
		fz.Stop()
	}()
	fz.Wait()

	if fileOut != nil {
		fileOut.Finish()
	}
	if opt.Screen {
		output.Log("job finished, Q to quit")
		output.WaitForScreenQuit()
	}
}

func main() {
	opt, err := options.ParseOptCmdline(os.Args[1:])
	if err != nil {
		os.Exit(1)
	}
	switch opt.Cmd {
	case options.CmdServe:
		runServe(opt.Serve)
	case options.CmdProxy:
		runProxy(opt.Proxy)
	case options.CmdLab:
		runLab(opt.Lab)
	case options.CmdFuzz:
		runFuzz(opt.Fuzz)
	}
}
