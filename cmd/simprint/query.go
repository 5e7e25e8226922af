package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/gwillem/urlfilecache"
	"github.com/sansecio/simprint/internal/digest"
	"github.com/sansecio/simprint/internal/sigindex"
)

type queryArg struct {
	Chunking chunkOpt `group:"Chunking Options"`
	Signing  sigOpt   `group:"Signature Options"`
	Text     bool     `short:"t" long:"text" description:"Treat files as text: normalize and shingle instead of chunking"`
	Index    string   `long:"index" description:"Index database to search, a local path or an https URL (downloaded and cached)" required:"true"`
	MinSim   float64  `short:"m" long:"min-similarity" default:"0.8" description:"Minimum fraction of equal digest bits"`
	Path     struct {
		Path []string `positional-arg-name:"<file-or-code>" required:"1"`
	} `positional-args:"yes" required:"true"`
}

func init() {
	cli.AddCommand("query", "Find similar items", "Look up files or codes in a digest index", &queryArg{})
}

func (a *queryArg) Execute(_ []string) error {
	fp, err := newFingerprinter(a.Chunking, a.Signing)
	if err != nil {
		return err
	}
	if strings.HasPrefix(a.Index, "https://") || strings.HasPrefix(a.Index, "http://") {
		logInfo("Fetching index", a.Index)
		a.Index = urlfilecache.ToPath(a.Index)
	}
	if _, err := os.Stat(a.Index); err != nil {
		return fmt.Errorf("index %s: %w", a.Index, err)
	}
	ix, err := sigindex.Open(a.Index, fp.Config().Signature)
	if err != nil {
		return fmt.Errorf("open %s: %w", a.Index, err)
	}
	defer ix.Close()

	for _, arg := range a.Path.Path {
		d, err := a.digestOf(arg, func(path string) ([]byte, error) {
			res, err := fp.File(path, a.Text)
			if err != nil {
				return nil, err
			}
			return res.Digest, nil
		})
		if err != nil {
			return err
		}

		matches, err := ix.Similar(d, a.MinSim)
		if err != nil {
			return fmt.Errorf("%s: %w", arg, err)
		}
		fmt.Fprintln(stdout, boldwhite(arg), grey(fmt.Sprintf("(%d matches)", len(matches))))
		for _, m := range matches {
			fmt.Fprintf(stdout, "  %s %s %s\n",
				green(fmt.Sprintf("%.4f", m.Similarity)),
				grey(fmt.Sprintf("~%.2f", m.Jaccard)),
				m.Path)
		}
	}
	return nil
}

// digestOf returns the digest of an existing file, or decodes arg as a code.
func (a *queryArg) digestOf(arg string, sign func(string) ([]byte, error)) ([]byte, error) {
	if _, err := os.Stat(arg); err == nil {
		return sign(arg)
	}
	h, body, err := digest.Decode(arg)
	if err != nil {
		return nil, fmt.Errorf("%q is neither a file nor a code: %w", arg, err)
	}
	return digest.Compose(h, body), nil
}
