package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/sansecio/simprint/internal/digest"
	"github.com/sansecio/simprint/internal/fingerprint"
	"github.com/sansecio/simprint/internal/sigindex"
)

type signArg struct {
	Chunking chunkOpt `group:"Chunking Options"`
	Signing  sigOpt   `group:"Signature Options"`
	Text     bool     `short:"t" long:"text" description:"Treat files as text: normalize and shingle instead of chunking"`
	Workers  int      `short:"j" long:"workers" description:"Number of files processed in parallel (default: number of CPUs)"`
	Include  []string `short:"i" long:"include" description:"Only sign files matching this glob (relative to the given dir, repeatable)"`
	Exclude  []string `short:"x" long:"exclude" description:"Skip files matching this glob (repeatable)"`
	Index    string   `long:"index" description:"Store the digests in this index database"`
	Combine  bool     `short:"c" long:"combine" description:"Also print one majority-vote code for all files"`
	Path     struct {
		Path []string `positional-arg-name:"<path>" required:"1"`
	} `positional-args:"yes" description:"Sign file or dir" required:"true"`
}

func init() {
	cli.AddCommand("sign", "Compute similarity digests", "Print the base58 similarity code of every file", &signArg{})
}

func (a *signArg) Execute(_ []string) error {
	fp, err := newFingerprinter(a.Chunking, a.Signing)
	if err != nil {
		return err
	}
	filter, err := newFileFilter(a.Include, a.Exclude)
	if err != nil {
		return err
	}
	files, err := collectFiles(a.Path.Path, filter)
	if err != nil {
		return err
	}

	var ix *sigindex.Index
	if a.Index != "" {
		ix, err = sigindex.Open(a.Index, fp.Config().Signature)
		if err != nil {
			return fmt.Errorf("open %s: %w", a.Index, err)
		}
		defer ix.Close()
	}

	logInfo(fmt.Sprintf("Signing %d files with %v", len(files), fp.Config().Signature))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results := make(map[string]*fingerprint.Result, len(files))
	var failed int
	err = fp.Batch(ctx, files, fingerprint.BatchOptions{
		Workers: a.Workers,
		Text:    a.Text,
		Logf:    logf,
	}, func(path string, res *fingerprint.Result, err error) {
		if err != nil {
			failed++
			fmt.Fprintln(stdout, boldred(" X "+path+": "+err.Error()))
			return
		}
		results[path] = res
	})

	// print in walk order, Batch reports in completion order
	var ordered []*fingerprint.Result
	for _, path := range files {
		res, ok := results[path]
		if !ok {
			continue
		}
		ordered = append(ordered, res)
		fmt.Fprintln(stdout, res.Code, grey(path))
		if ix != nil {
			if perr := ix.Put(path, res.Digest); perr != nil {
				return fmt.Errorf("storing %s: %w", path, perr)
			}
		}
	}
	if err != nil {
		return err
	}

	if a.Combine && len(ordered) > 0 {
		d, err := fingerprint.Combine(ordered)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, warn(digest.Encode(digest.Header(d[0]), d[1:])), grey(fmt.Sprintf("combined (%d files)", len(ordered))))
	}

	if ix != nil {
		n, err := ix.Len()
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, green(fmt.Sprintf("Stored %d digests, index %s now holds %d", len(results), a.Index, n)))
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(files))
	}
	return nil
}
