package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/robinjoseph08/golib/logger"
	"github.com/shishobooks/filedock/pkg/fserr"
	"github.com/shishobooks/filedock/pkg/sandbox"
)

func main() {
	log := logger.New()

	var opts struct {
		Root          string `short:"r" long:"root" description:"The root directory to resolve against" required:"true"`
		CaseSensitive bool   `short:"c" long:"case-sensitive" description:"Compare paths case-sensitively even if the filesystem folds case"`
		NoFollow      bool   `short:"n" long:"no-follow" description:"Don't follow a symlink in the final component"`
	}

	args, err := flags.Parse(&opts)
	if err != nil {
		log.Err(err).Fatal("flags parse error")
	}

	if len(args) == 0 {
		fmt.Println("go run ./cmd/scripts/debug/resolve-path --root <dir> <relative/path>...")
		os.Exit(1)
	}

	var rootOpts []sandbox.Option
	if opts.CaseSensitive {
		rootOpts = append(rootOpts, sandbox.WithCaseSensitive())
	}
	root, err := sandbox.NewRoot(opts.Root, rootOpts...)
	if err != nil {
		log.Err(err).Fatal("root error")
	}
	ctx := log.WithContext(context.Background())

	fmt.Printf("Root: %s\n", root.Path())
	for _, arg := range args {
		resolve := root.Resolve
		if opts.NoFollow {
			resolve = root.ResolveEntry
		}

		abs, err := resolve(ctx, arg)
		if err != nil {
			fmt.Printf("%q\n  normalized: %q\n  rejected:   %s (%s)\n", arg, sandbox.Normalize(arg), err, fserr.KindOf(err))
			continue
		}

		_, statErr := os.Lstat(abs)
		fmt.Printf("%q\n  normalized: %q\n  resolved:   %s\n  relative:   %q\n  exists:     %v\n", arg, sandbox.Normalize(arg), abs, root.Rel(abs), statErr == nil)
	}
}
