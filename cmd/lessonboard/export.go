package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
)

// exportCmd writes stored pages as PNG files.
type exportCmd struct {
	*root
	fs *flag.FlagSet

	page   int
	all    bool
	output string
}

func (e *exportCmd) Program() string        { return e.root.subProgram("export") }
func (e *exportCmd) FlagSet() *flag.FlagSet { return e.fs }

func parseExportCmd(args []string, r *root) (*exportCmd, error) {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	e := &exportCmd{root: r, fs: fs}
	fs.Usage = usageFunc(e)
	fs.IntVar(&e.page, "page", 1, "page to export")
	fs.BoolVar(&e.all, "all", false, "export every stored page of the lesson")
	fs.StringVar(&e.output, "o", "", "output file, or directory with -all (default <lesson>-page-<n>.png in the current directory)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 || e.page < 1 {
		return nil, &UsageError{of: e}
	}
	return e, nil
}

func (e *exportCmd) Run() error {
	ctx := context.Background()
	st, err := e.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	if !e.all {
		data, err := st.LoadPage(ctx, e.lesson, e.page-1)
		if err != nil {
			return fmt.Errorf("%s page %d: %w", e.lesson, e.page, err)
		}
		path := e.output
		if path == "" {
			path = pageFileName(e.lesson, e.page-1)
		}
		return e.write(path, data)
	}

	infos, err := st.ListPages(ctx, e.lesson)
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		return fmt.Errorf("lesson %q has no stored pages", e.lesson)
	}
	dir := e.output
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, info := range infos {
		data, err := st.LoadPage(ctx, e.lesson, info.Index)
		if err != nil {
			return err
		}
		if err := e.write(filepath.Join(dir, pageFileName(e.lesson, info.Index)), data); err != nil {
			return err
		}
	}
	return nil
}

func (e *exportCmd) write(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Fprintln(e.stdout, path)
	e.notifier.Export(path, nil)
	return nil
}

// pageFileName names the file of the zero-based page idx.
func pageFileName(lesson string, idx int) string {
	return fmt.Sprintf("%s-page-%d.png", lesson, idx+1)
}
