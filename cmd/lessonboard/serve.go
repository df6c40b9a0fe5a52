package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"

	"github.com/example/lessonboard/internal/server"
)

// serveCmd exposes the page store over HTTP.
type serveCmd struct {
	*root
	fs   *flag.FlagSet
	addr string
}

func (s *serveCmd) Program() string        { return s.root.subProgram("serve") }
func (s *serveCmd) FlagSet() *flag.FlagSet { return s.fs }

func parseServeCmd(args []string, r *root) (*serveCmd, error) {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	s := &serveCmd{root: r, fs: fs}
	fs.Usage = usageFunc(s)
	fs.StringVar(&s.addr, "addr", r.config.Server.Addr, "listen address")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: s}
	}
	return s, nil
}

func (s *serveCmd) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	st, err := s.openStore()
	if err != nil {
		return err
	}
	defer st.Close()
	log.Printf("serving %s on %s", s.storePath, s.addr)
	return server.ListenAndServe(ctx, s.addr, server.New(st))
}
