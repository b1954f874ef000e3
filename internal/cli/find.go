package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/perspective/internal/app"
	"github.com/roach88/perspective/internal/request"
)

// NewFindCommand creates the find command and its per-resource subcommands.
func NewFindCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "find",
		Short: "List inventory resources with common filters",
		Long: `List instances, projects, flavors, images, networks or keypairs.

Filters take comma-separated values; repeated values are ignored.
Different filters combine with AND.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newFindInstancesCommand(rootOpts))
	cmd.AddCommand(newFindProjectsCommand(rootOpts))
	cmd.AddCommand(newFindByProjectCommand(rootOpts, "flavors", request.FindFlavors))
	cmd.AddCommand(newFindByProjectCommand(rootOpts, "images", request.FindImages))
	cmd.AddCommand(newFindByProjectCommand(rootOpts, "networks", request.FindNetworks))
	cmd.AddCommand(newFindByProjectCommand(rootOpts, "keypairs", request.FindKeypairs))

	return cmd
}

type instanceFilters struct {
	ids, names, flavors, images, states, clouds, projects string

	suffixes []string
}

func newFindInstancesCommand(rootOpts *RootOptions) *cobra.Command {
	var f instanceFilters

	cmd := &cobra.Command{
		Use:   "instances",
		Short: "List instances with their project, flavor and image",
		Long: `List instances joined with their project, flavor and image.

Names given with --names have any configured host name suffix removed,
so "web-1.example.org" matches the instance "web-1".`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := (&request.FindInstances{}).
				WithIDs(f.ids).
				WithNames(f.names).
				WithFlavors(f.flavors).
				WithImages(f.images).
				WithStates(f.states).
				WithClouds(f.clouds).
				WithProjects(f.projects)
			req.Suffixes = append(append([]string{}, rootOpts.Suffixes...), f.suffixes...)
			return runFind(cmd, rootOpts, req)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.ids, "ids", "", "instance IDs")
	flags.StringVar(&f.names, "names", "", "instance names")
	flags.StringVar(&f.flavors, "flavors", "", "flavor names")
	flags.StringVar(&f.images, "images", "", "image names")
	flags.StringVar(&f.states, "states", "", "instance states, e.g. ACTIVE,SHUTOFF")
	flags.StringVar(&f.clouds, "clouds", "", "cloud types, e.g. openstack")
	flags.StringVar(&f.projects, "projects", "", "project names")
	flags.StringSliceVar(&f.suffixes, "suffix", nil, "host name suffix to strip from --names (repeatable)")

	return cmd
}

func newFindProjectsCommand(rootOpts *RootOptions) *cobra.Command {
	var ids, names, clouds string

	cmd := &cobra.Command{
		Use:           "projects",
		Short:         "List projects",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFind(cmd, rootOpts, &request.FindProjects{
				IDs:    request.ParseEnumeration(ids),
				Names:  request.ParseEnumeration(names),
				Clouds: request.ParseEnumeration(clouds),
			})
		},
	}

	cmd.Flags().StringVar(&ids, "ids", "", "project IDs")
	cmd.Flags().StringVar(&names, "names", "", "project names")
	cmd.Flags().StringVar(&clouds, "clouds", "", "cloud types")

	return cmd
}

func newFindByProjectCommand(rootOpts *RootOptions, resource string, newRequest func(names, projects []string) *request.FindByProject) *cobra.Command {
	var names, projects string

	cmd := &cobra.Command{
		Use:           resource,
		Short:         "List " + resource + " with their project",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFind(cmd, rootOpts, newRequest(
				request.ParseEnumeration(names),
				request.ParseEnumeration(projects),
			))
		},
	}

	cmd.Flags().StringVar(&names, "names", "", resource+" names")
	cmd.Flags().StringVar(&projects, "projects", "", "project names")

	return cmd
}

func runFind(cmd *cobra.Command, opts *RootOptions, req app.Request) error {
	formatter := opts.formatter(cmd)

	a, err := opts.newApp()
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return err
	}

	stmt, err := req.Build(a.Catalog())
	if err != nil {
		return formatter.QueryError(err)
	}

	return executeStatement(cmd.Context(), opts, formatter, a, stmt)
}
