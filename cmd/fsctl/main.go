package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/segmentio/encoding/json"
	"github.com/shishobooks/filedock/pkg/filesystem"
	"github.com/shishobooks/filedock/pkg/items"
	"github.com/shishobooks/filedock/pkg/preview"
	"github.com/shishobooks/filedock/pkg/sandbox"
	"github.com/shishobooks/filedock/pkg/search"
	"github.com/shishobooks/filedock/pkg/uploads"
	"github.com/urfave/cli/v2"
)

func main() {
	log := logger.New()

	app := &cli.App{
		Name:        "fsctl",
		Usage:       "CLI to manage the files below a filedock root",
		Description: "Runs the same operations as the API directly against a root directory.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "root",
				Usage:    "root directory to operate on",
				EnvVars:  []string{"ROOT_PATH"},
				Required: true,
			},
			&cli.BoolFlag{
				Name:    "case-sensitive",
				Usage:   "compare paths case-sensitively even if the filesystem folds case",
				EnvVars: []string{"CASE_SENSITIVE_PATHS"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "ls",
				Usage:     "list the contents of a directory",
				ArgsUsage: "[path]",
				Action: func(c *cli.Context) error {
					ctx, root, err := setup(c, log)
					if err != nil {
						return err
					}

					resp, err := filesystem.NewService(root).Browse(ctx, filesystem.BrowseOptions{Path: c.Args().First()})
					if err != nil {
						return err
					}

					printEntries(c.App.Writer, resp.Entries)
					fmt.Fprintf(c.App.Writer, "\n%d directories, %d files, %s\n", resp.DirectoryCount, resp.FileCount, humanize.IBytes(uint64(resp.TotalBytes)))
					return nil
				},
			},
			{
				Name:      "find",
				Usage:     "search for entries whose name contains a term",
				ArgsUsage: "<term>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "path", Usage: "directory to search in"},
				},
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return cli.Exit("usage: fsctl find [--path dir] <term>", 1)
					}
					ctx, root, err := setup(c, log)
					if err != nil {
						return err
					}

					entries, err := search.NewService(root).Search(ctx, search.SearchOptions{
						Path: c.String("path"),
						Term: c.Args().First(),
					})
					if err != nil {
						return err
					}

					printEntries(c.App.Writer, entries)
					return nil
				},
			},
			{
				Name:      "cp",
				Usage:     "copy a file or directory into a directory",
				ArgsUsage: "<source> <destination-dir>",
				Action: func(c *cli.Context) error {
					if c.NArg() != 2 {
						return cli.Exit("usage: fsctl cp <source> <destination-dir>", 1)
					}
					ctx, root, err := setup(c, log)
					if err != nil {
						return err
					}

					p, err := items.NewService(root).Copy(ctx, items.CopyOptions{
						Source:      c.Args().Get(0),
						Destination: c.Args().Get(1),
					})
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "Copied to %s\n", p)
					return nil
				},
			},
			{
				Name:      "mv",
				Usage:     "move a file or directory into a directory",
				ArgsUsage: "<source> <destination-dir>",
				Action: func(c *cli.Context) error {
					if c.NArg() != 2 {
						return cli.Exit("usage: fsctl mv <source> <destination-dir>", 1)
					}
					ctx, root, err := setup(c, log)
					if err != nil {
						return err
					}

					p, err := items.NewService(root).Move(ctx, items.MoveOptions{
						Source:      c.Args().Get(0),
						Destination: c.Args().Get(1),
					})
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "Moved to %s\n", p)
					return nil
				},
			},
			{
				Name:      "rm",
				Usage:     "permanently delete a file or directory",
				ArgsUsage: "<path>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "recursive", Aliases: []string{"r"}, Usage: "delete non-empty directories"},
				},
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return cli.Exit("usage: fsctl rm [-r] <path>", 1)
					}
					ctx, root, err := setup(c, log)
					if err != nil {
						return err
					}

					return items.NewService(root).Delete(ctx, items.DeleteOptions{
						Path:      c.Args().First(),
						Recursive: c.Bool("recursive"),
					})
				},
			},
			{
				Name:      "mkdir",
				Usage:     "create a directory",
				ArgsUsage: "<parent-dir> <name>",
				Action: func(c *cli.Context) error {
					if c.NArg() != 2 {
						return cli.Exit("usage: fsctl mkdir <parent-dir> <name>", 1)
					}
					ctx, root, err := setup(c, log)
					if err != nil {
						return err
					}

					p, err := items.NewService(root).CreateFolder(ctx, items.CreateFolderOptions{
						Path: c.Args().Get(0),
						Name: c.Args().Get(1),
					})
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "Created %s\n", p)
					return nil
				},
			},
			{
				Name:      "preview",
				Usage:     "print the preview of a file as JSON",
				ArgsUsage: "<path>",
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return cli.Exit("usage: fsctl preview <path>", 1)
					}
					ctx, root, err := setup(c, log)
					if err != nil {
						return err
					}

					result, err := preview.NewService(root).Preview(ctx, c.Args().First())
					if err != nil {
						return err
					}

					out, err := json.MarshalIndent(result, "", "  ")
					if err != nil {
						return errors.WithStack(err)
					}
					fmt.Fprintln(c.App.Writer, string(out))
					return nil
				},
			},
			{
				Name:      "put",
				Usage:     "upload local files into a directory",
				ArgsUsage: "<destination-dir> <file>...",
				Action: func(c *cli.Context) error {
					if c.NArg() < 2 {
						return cli.Exit("usage: fsctl put <destination-dir> <file>...", 1)
					}
					ctx, root, err := setup(c, log)
					if err != nil {
						return err
					}

					var batch []uploads.Upload
					for _, local := range c.Args().Tail() {
						batch = append(batch, uploads.Upload{
							FileName: filepath.Base(local),
							Open: func() (io.ReadCloser, error) {
								f, err := os.Open(local)
								if err != nil {
									return nil, errors.WithStack(err)
								}
								return f, nil
							},
						})
					}

					paths, err := uploads.NewService(root).SaveAll(ctx, c.Args().First(), batch)
					for _, p := range paths {
						fmt.Fprintf(c.App.Writer, "Uploaded %s\n", p)
					}
					return err
				},
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Err(err).Fatal("app run error")
	}
}

func setup(c *cli.Context, log logger.Logger) (context.Context, *sandbox.Root, error) {
	var opts []sandbox.Option
	if c.Bool("case-sensitive") {
		opts = append(opts, sandbox.WithCaseSensitive())
	}
	root, err := sandbox.NewRoot(c.String("root"), opts...)
	if err != nil {
		return nil, nil, err
	}
	return log.WithContext(c.Context), root, nil
}

func printEntries(w io.Writer, entries []filesystem.Entry) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, e := range entries {
		name := e.Path
		size := humanize.IBytes(uint64(e.Size))
		if e.IsDir {
			name += "/"
			size = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", name, size, e.ModifiedAt.Format("2006-01-02 15:04"))
	}
	tw.Flush()
}
