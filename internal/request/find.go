package request

import (
	"slices"
	"strings"

	"github.com/roach88/perspective/internal/catalog"
	"github.com/roach88/perspective/internal/queryir"
)

// InstanceStates are the instance states a filter may name.
var InstanceStates = []string{
	"ACTIVE", "BUILD", "DELETED", "ERROR", "LAUNCHING", "PAUSED",
	"REBOOTING", "RESIZING", "SHUTOFF", "SUSPENDED",
}

// CloudTypes are the cloud types a filter may name.
var CloudTypes = []string{"digital_ocean", "docker", "google_cloud", "mock", "openstack"}

// FindInstances lists instances with their project, flavor and image.
type FindInstances struct {
	IDs      []string
	Names    []string
	Flavors  []string
	Images   []string
	States   []string
	Clouds   []string
	Projects []string

	// Suffixes are stripped from Names before filtering, so a fully
	// qualified host name matches the short instance name.
	Suffixes []string
}

// WithIDs sets the ID filter from a comma-separated list.
func (r *FindInstances) WithIDs(ids string) *FindInstances {
	r.IDs = ParseEnumeration(ids)
	return r
}

// WithNames sets the name filter from a comma-separated list.
func (r *FindInstances) WithNames(names string) *FindInstances {
	r.Names = ParseEnumeration(names)
	return r
}

// WithFlavors sets the flavor name filter from a comma-separated list.
func (r *FindInstances) WithFlavors(flavors string) *FindInstances {
	r.Flavors = ParseEnumeration(flavors)
	return r
}

// WithImages sets the image name filter from a comma-separated list.
func (r *FindInstances) WithImages(images string) *FindInstances {
	r.Images = ParseEnumeration(images)
	return r
}

// WithStates sets the state filter from a comma-separated list.
func (r *FindInstances) WithStates(states string) *FindInstances {
	r.States = ParseEnumeration(states)
	return r
}

// WithClouds sets the cloud type filter from a comma-separated list.
func (r *FindInstances) WithClouds(clouds string) *FindInstances {
	r.Clouds = ParseEnumeration(clouds)
	return r
}

// WithProjects sets the project name filter from a comma-separated list.
func (r *FindInstances) WithProjects(projects string) *FindInstances {
	r.Projects = ParseEnumeration(projects)
	return r
}

// Build returns the statement:
//
//	instances ⋈ projects ⟕ flavors (on flavor and project) ⟕ images
//
// ordered by instance name. States are matched upper case and clouds
// lower case; values outside InstanceStates or CloudTypes are rejected.
func (r *FindInstances) Build(cat *catalog.Catalog) (*queryir.Statement, error) {
	states, err := normalize("state", r.States, strings.ToUpper, InstanceStates)
	if err != nil {
		return nil, err
	}
	clouds, err := normalize("cloud", r.Clouds, strings.ToLower, CloudTypes)
	if err != nil {
		return nil, err
	}

	return queryir.NewBuilder(cat).
		Select(
			"instances.id",
			"instances.real_id",
			"instances.name",
			"projects.id",
			"projects.name",
			"instances.cloud_id",
			"instances.cloud_type",
			"images.name",
			"flavors.name",
			"instances.addresses",
			"instances.state",
			"instances.last_updated",
		).
		From(catalog.TableInstances).
		InnerJoin(catalog.TableProjects).On("instances.project_id", "projects.id").
		LeftJoin(catalog.TableFlavors).
		On("instances.flavor_id", "flavors.id").
		And("instances.project_id", "flavors.project_id").
		LeftJoin(catalog.TableImages).On("instances.image_id", "images.id").
		WhereMap(map[string][]string{
			"instances.id":         r.IDs,
			"instances.name":       RemoveSuffixes(r.Names, r.Suffixes),
			"flavors.name":         r.Flavors,
			"images.name":          r.Images,
			"instances.state":      states,
			"instances.cloud_type": clouds,
			"projects.name":        r.Projects,
		}).
		OrderBy("instances.name").
		Build()
}

// FindProjects lists projects.
type FindProjects struct {
	IDs    []string
	Names  []string
	Clouds []string
}

// Build returns projects filtered by ID, name and cloud, ordered by name.
func (r *FindProjects) Build(cat *catalog.Catalog) (*queryir.Statement, error) {
	clouds, err := normalize("cloud", r.Clouds, strings.ToLower, CloudTypes)
	if err != nil {
		return nil, err
	}
	return queryir.NewBuilder(cat).
		Select("projects.id", "projects.name", "projects.cloud_id", "projects.cloud_type").
		From(catalog.TableProjects).
		WhereMap(map[string][]string{
			"projects.id":         r.IDs,
			"projects.name":       r.Names,
			"projects.cloud_type": clouds,
		}).
		OrderBy("projects.name").
		Build()
}

// FindByProject lists one kind of project-owned resource (flavors,
// images, networks, keypairs) joined with its project.
type FindByProject struct {
	Table    string
	Names    []string
	Projects []string
}

// FindFlavors returns a flavor listing request.
func FindFlavors(names, projects []string) *FindByProject {
	return &FindByProject{Table: catalog.TableFlavors, Names: names, Projects: projects}
}

// FindImages returns an image listing request.
func FindImages(names, projects []string) *FindByProject {
	return &FindByProject{Table: catalog.TableImages, Names: names, Projects: projects}
}

// FindNetworks returns a network listing request.
func FindNetworks(names, projects []string) *FindByProject {
	return &FindByProject{Table: catalog.TableNetworks, Names: names, Projects: projects}
}

// FindKeypairs returns a keypair listing request.
func FindKeypairs(names, projects []string) *FindByProject {
	return &FindByProject{Table: catalog.TableKeypairs, Names: names, Projects: projects}
}

// Build selects every catalog column of the table followed by the
// project name, ordered by the resource name.
func (r *FindByProject) Build(cat *catalog.Catalog) (*queryir.Statement, error) {
	t, ok := cat.Table(r.Table)
	if !ok {
		return nil, queryir.NewIllegalQuery(queryir.ErrCodeUnknownTable, "unknown table %q", r.Table)
	}

	return queryir.NewBuilder(cat).
		Select(t.QualifiedNames()...).
		Select("projects.name").
		From(t.Name).
		InnerJoin(catalog.TableProjects).On(t.Name+".project_id", "projects.id").
		WhereMap(map[string][]string{
			t.Name + ".name": r.Names,
			"projects.name":  r.Projects,
		}).
		OrderBy(t.Name + ".name").
		Build()
}

// normalize maps values through fold and checks them against allowed.
func normalize(field string, values []string, fold func(string) string, allowed []string) ([]string, error) {
	out := make([]string, 0, len(values))
	for _, v := range values {
		folded := fold(v)
		if !slices.Contains(allowed, folded) {
			return nil, &InvalidFilterError{Field: field, Value: v, Allowed: allowed}
		}
		if !slices.Contains(out, folded) {
			out = append(out, folded)
		}
	}
	return out, nil
}
