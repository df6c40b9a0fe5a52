package main

import (
	"context"
	"flag"
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"
)

// pagesCmd lists lessons or the pages of one lesson.
type pagesCmd struct {
	*root
	fs *flag.FlagSet
}

func (p *pagesCmd) Program() string        { return p.root.subProgram("pages") }
func (p *pagesCmd) FlagSet() *flag.FlagSet { return p.fs }

func parsePagesCmd(args []string, r *root) (*pagesCmd, error) {
	fs := flag.NewFlagSet("pages", flag.ContinueOnError)
	p := &pagesCmd{root: r, fs: fs}
	fs.Usage = usageFunc(p)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 1 {
		return nil, &UsageError{of: p}
	}
	return p, nil
}

func (p *pagesCmd) Run() error {
	ctx := context.Background()
	st, err := p.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	if p.fs.NArg() == 0 {
		lessons, err := st.ListLessons(ctx)
		if err != nil {
			return err
		}
		if len(lessons) == 0 {
			fmt.Fprintln(p.stdout, "no lessons stored")
			return nil
		}
		for _, l := range lessons {
			fmt.Fprintln(p.stdout, l)
		}
		return nil
	}

	lesson := p.fs.Arg(0)
	infos, err := st.ListPages(ctx, lesson)
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		fmt.Fprintf(p.stdout, "lesson %q has no stored pages\n", lesson)
		return nil
	}
	tw := tabwriter.NewWriter(p.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PAGE\tSIZE\tBYTES\tUPDATED")
	for _, info := range infos {
		fmt.Fprintf(tw, "%d\t%dx%d\t%d\t%s\n", info.Index+1, info.Width, info.Height, info.Size, info.UpdatedAt.Local().Format(time.DateTime))
	}
	return tw.Flush()
}

// deleteCmd removes one stored page.
type deleteCmd struct {
	*root
	fs   *flag.FlagSet
	page int
}

func (d *deleteCmd) Program() string        { return d.root.subProgram("delete") }
func (d *deleteCmd) FlagSet() *flag.FlagSet { return d.fs }

func parseDeleteCmd(args []string, r *root) (*deleteCmd, error) {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	d := &deleteCmd{root: r, fs: fs}
	fs.Usage = usageFunc(d)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		return nil, &UsageError{of: d}
	}
	n, err := strconv.Atoi(fs.Arg(0))
	if err != nil || n < 1 {
		return nil, fmt.Errorf("invalid page %q", fs.Arg(0))
	}
	d.page = n
	return d, nil
}

func (d *deleteCmd) Run() error {
	st, err := d.openStore()
	if err != nil {
		return err
	}
	defer st.Close()
	if err := st.DeletePage(context.Background(), d.lesson, d.page-1); err != nil {
		return fmt.Errorf("%s page %d: %w", d.lesson, d.page, err)
	}
	fmt.Fprintf(d.stdout, "deleted %s page %d\n", d.lesson, d.page)
	return nil
}
