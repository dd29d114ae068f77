package app

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gophilo/gophilo/internal/cms"
	"github.com/gophilo/gophilo/internal/daemon"
	"github.com/gophilo/gophilo/internal/fixture"
	"github.com/gophilo/gophilo/internal/tree"
)

// openCore opens and migrates the database and returns the content core.
func (st *state) openCore() (*cms.Core, error) {
	db, err := daemon.OpenDB(&st.cfg)
	if err != nil {
		return nil, err
	}

	if err = daemon.Migrate(db); err != nil {
		return nil, err
	}

	return daemon.NewCore(&st.cfg, db)
}

func newLoadCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "load <fixtures.yaml>",
		Short: "Load groups, users, tags, templates, pages and sites from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			core, err := st.openCore()
			if err != nil {
				return err
			}

			res, err := fixture.LoadFile(core, args[0])
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "loaded %d groups, %d users, %d tags, %d templates, %d pages, %d contentlets, %d attributes, %d sites\n",
				res.Groups, res.Users, res.Tags, res.Templates, res.Pages, res.Contentlets, res.Attributes, res.Sites)

			return nil
		},
	}
}

func newResolveCmd(st *state) *cobra.Command {
	var host string

	cmd := &cobra.Command{
		Use:   "resolve <path>",
		Short: "Show the page a request path resolves to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			core, err := st.openCore()
			if err != nil {
				return err
			}

			site, err := core.Site(host)
			if err != nil {
				site = nil
			}

			page, rest, err := core.Resolve(site, args[0])
			if err != nil {
				return err
			}

			path, err := core.Pages().Path(page, nil)
			if err != nil {
				return err
			}

			label, err := core.Pages().Path(page, nil, tree.WithLabel(), tree.WithPathSeparator(" > "))
			if err != nil {
				return err
			}

			_, tpl, err := core.TemplatePath(page)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "page:     %d %s (%s)\n", page.ID, path, label)
			fmt.Fprintf(cmd.OutOrStdout(), "template: %s\n", tpl)

			if rest != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "rest:     %s\n", rest)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "Resolve below the root page of the site serving host")

	return cmd
}

func newContainersCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "containers <template-path>",
		Short: "List the containers a template needs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			core, err := st.openCore()
			if err != nil {
				return err
			}

			names, err := core.Containers(args[0])
			if err != nil {
				return fmt.Errorf("template %q: %w", args[0], err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(names, "\n"))

			return nil
		},
	}
}
