package main

import (
	"fmt"
	"io"
	"os"

	"github.com/sansecio/simprint/internal/chunker"
	"github.com/sansecio/simprint/internal/features"
	"github.com/sansecio/simprint/internal/stats"
)

type chunkArg struct {
	Chunking chunkOpt `group:"Chunking Options"`
	Stats    bool     `short:"s" long:"stats" description:"Print a chunk size summary per file instead of every chunk"`
	Path     struct {
		Path []string `positional-arg-name:"<file>" required:"1"`
	} `positional-args:"yes" required:"true"`
}

func init() {
	cli.AddCommand("chunk", "Split files into content-defined chunks", "Print offset, length and xxh64 of every chunk", &chunkArg{})
}

func (a *chunkArg) Execute(_ []string) error {
	c, err := chunker.New(a.Chunking.config())
	if err != nil {
		return err
	}
	for _, path := range a.Path.Path {
		if err := a.chunkFile(c, path); err != nil {
			return err
		}
	}
	return nil
}

func (a *chunkArg) chunkFile(c *chunker.Chunker, path string) error {
	fh, err := os.Open(path)
	if err != nil {
		return err
	}
	defer fh.Close()

	sizes, err := stats.NewSizes()
	if err != nil {
		return err
	}

	fmt.Fprintln(stdout, boldwhite(path))
	cr := c.NewReader(fh)
	for {
		chunk, err := cr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if err := sizes.Add(len(chunk.Data)); err != nil {
			return err
		}
		if !a.Stats {
			fmt.Fprintf(stdout, "%10d %6d %016x\n", chunk.Offset, len(chunk.Data), features.XXH64.Sum(chunk.Data))
		}
	}
	if a.Stats {
		fmt.Fprintln(stdout, " ", sizes.Summary())
	}
	return nil
}
