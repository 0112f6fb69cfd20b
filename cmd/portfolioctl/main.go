package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/folio-labs/portfolio-backend/config"
	"github.com/folio-labs/portfolio-backend/internal/logging"
	"github.com/folio-labs/portfolio-backend/internal/projects/client"
)

const usage = `usage: portfolioctl <command> [flags]

commands:
  list                 list projects, newest first
  get <id>             show one project
  create [flags]       create a project (-title -description -tech a,b -image -url -github)
  update <id> [flags]  update the given fields
  delete <id>          delete a project
  techs                print the quick-add technology list`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.LoadClient()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logging.Setup(cfg.App.Environment, "warn")

	api := client.NewClient(cfg.Client.APIBaseURL, cfg.Client.Timeout)
	ctx := context.Background()

	if err := run(ctx, api, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, api *client.Client, cmd string, args []string) error {
	switch cmd {
	case "list":
		var list client.ListState
		if err := list.Load(ctx, api); err != nil {
			return errors.New(list.Error)
		}
		return printJSON(list.Items)

	case "get":
		id, err := parseID(args)
		if err != nil {
			return err
		}
		p, err := api.Get(ctx, id)
		if client.IsNotFound(err) {
			return fmt.Errorf("project %d not found", id)
		}
		if err != nil {
			return err
		}
		return printJSON(p)

	case "create":
		return create(ctx, api, args)

	case "update":
		id, err := parseID(args)
		if err != nil {
			return err
		}
		patch, err := parsePatch(args[1:])
		if err != nil {
			return err
		}
		p, err := api.Update(ctx, id, patch)
		if err != nil {
			return err
		}
		return printJSON(p)

	case "delete":
		id, err := parseID(args)
		if err != nil {
			return err
		}
		msg, err := api.Delete(ctx, id)
		if err != nil {
			return err
		}
		fmt.Println(msg)
		return nil

	case "techs":
		fmt.Println(strings.Join(client.QuickAdd, "\n"))
		return nil

	default:
		return fmt.Errorf("unknown command: %s\n\n%s", cmd, usage)
	}
}

func create(ctx context.Context, api *client.Client, args []string) error {
	form, skipped, err := parseForm(args)
	if err != nil {
		return err
	}
	for _, t := range skipped {
		fmt.Fprintf(os.Stderr, "skipping duplicate technology %q\n", t)
	}

	p, err := form.Submit(ctx, api, nil)
	if errors.Is(err, client.ErrInvalidForm) {
		for field, msg := range form.Errors {
			fmt.Fprintf(os.Stderr, "%s: %s\n", field, msg)
		}
		return err
	}
	if err != nil {
		return fmt.Errorf("%s: %w", form.Errors["submit"], err)
	}
	return printJSON(p)
}

// parseForm maps create flags onto a form. Duplicate technologies are
// dropped and returned so the caller can report them.
func parseForm(args []string) (*client.Form, []string, error) {
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	var form client.Form
	fs.StringVar(&form.Title, "title", "", "project title")
	fs.StringVar(&form.Description, "description", "", "project description")
	fs.StringVar(&form.ImageURL, "image", "", "image URL")
	fs.StringVar(&form.ProjectURL, "url", "", "live project URL")
	fs.StringVar(&form.GithubURL, "github", "", "GitHub URL")
	techs := fs.String("tech", "", "comma separated technologies")
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	var skipped []string
	for _, t := range strings.Split(*techs, ",") {
		if err := form.Tech.Add(t); errors.Is(err, client.ErrDuplicateTechnology) {
			skipped = append(skipped, strings.TrimSpace(t))
		}
	}
	return &form, skipped, nil
}

// parsePatch maps update flags onto a patch. Only flags that were passed are
// set, so an explicit empty value is sent while an omitted one is left alone.
func parsePatch(args []string) (client.Patch, error) {
	fs := flag.NewFlagSet("update", flag.ContinueOnError)
	title := fs.String("title", "", "project title")
	description := fs.String("description", "", "project description")
	image := fs.String("image", "", "image URL")
	url := fs.String("url", "", "live project URL")
	github := fs.String("github", "", "GitHub URL")
	techs := fs.String("tech", "", "comma separated technologies (replaces the list)")
	if err := fs.Parse(args); err != nil {
		return client.Patch{}, err
	}

	var p client.Patch
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "title":
			p.Title = title
		case "description":
			p.Description = description
		case "image":
			p.ImageURL = image
		case "url":
			p.ProjectURL = url
		case "github":
			p.GithubURL = github
		case "tech":
			var editor client.TechnologyEditor
			for _, t := range strings.Split(*techs, ",") {
				_ = editor.Add(t)
			}
			p.Technologies = editor.Tags()
		}
	})
	return p, nil
}

func parseID(args []string) (int64, error) {
	if len(args) < 1 {
		return 0, errors.New("missing project id")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid project id %q", args[0])
	}
	return id, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
