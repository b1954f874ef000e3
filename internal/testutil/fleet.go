package testutil

import (
	"github.com/roach88/perspective/internal/ir"
)

// Fleet returns a small inventory covering the join shapes the engine
// must handle:
//
//   - vm-3 uses flavor id f1 in project p2, so only the composite key
//     (flavor_id, project_id) picks the right flavor.
//   - vm-3 references image i9, which does not exist.
//   - vm-4 belongs to an unknown project and has no flavor at all.
//
// Columns are unqualified, the way provider adapters emit them. Each
// call returns fresh rows.
func Fleet() map[string][]ir.Row {
	return map[string][]ir.Row{
		"projects": {
			project("p1", "demo", "openstack"),
			project("p2", "prod", "openstack"),
			project("p3", "empty", "ovirt"),
		},
		"flavors": {
			flavor("f1", "p1", "m1.small", 1, 2048, 20),
			flavor("f1", "p2", "m1.small-prod", 2, 4096, 40),
			flavor("f2", "p1", "m1.large", 4, 8192, 80),
		},
		"images": {
			image("i1", "p1", "ubuntu-22.04"),
			image("i2", "p1", "centos-9"),
		},
		"instances": {
			instance("vm-1", "web-2", "p1", "f1", "i1", "ACTIVE"),
			instance("vm-2", "db-1", "p1", "f2", "i2", "SHUTOFF"),
			instance("vm-3", "web-1", "p2", "f1", "i9", "ACTIVE"),
			ir.NewRow(
				ir.O("id", ir.NewString("vm-4")),
				ir.O("name", ir.NewString("orphan")),
				ir.O("project_id", ir.NewString("p9")),
				ir.O("state", ir.NewString("ERROR")),
				ir.O("cloud_type", ir.NewString("openstack")),
			),
		},
		"networks": {
			ir.NewRow(
				ir.O("id", ir.NewString("n1")),
				ir.O("project_id", ir.NewString("p1")),
				ir.O("name", ir.NewString("private")),
				ir.O("state", ir.NewString("ACTIVE")),
			),
		},
		"keypairs": {
			ir.NewRow(
				ir.O("id", ir.NewString("k1")),
				ir.O("project_id", ir.NewString("p1")),
				ir.O("name", ir.NewString("ops")),
				ir.O("fingerprint", ir.NewString("aa:bb:cc")),
			),
		},
	}
}

// DemoFleet returns the two-instance inventory where instances b and a
// both belong to project "demo".
func DemoFleet() map[string][]ir.Row {
	return map[string][]ir.Row{
		"instances": {
			ir.NewRow(ir.O("id", ir.NewInt(1)), ir.O("name", ir.NewString("b")), ir.O("project_id", ir.NewInt(9))),
			ir.NewRow(ir.O("id", ir.NewInt(2)), ir.O("name", ir.NewString("a")), ir.O("project_id", ir.NewInt(9))),
		},
		"projects": {
			ir.NewRow(ir.O("id", ir.NewInt(9)), ir.O("name", ir.NewString("demo"))),
		},
	}
}

func project(id, name, cloudType string) ir.Row {
	return ir.NewRow(
		ir.O("id", ir.NewString(id)),
		ir.O("name", ir.NewString(name)),
		ir.O("cloud_id", ir.NewString("c1")),
		ir.O("cloud_type", ir.NewString(cloudType)),
	)
}

func flavor(id, projectID, name string, vcpus, ram, disk int64) ir.Row {
	return ir.NewRow(
		ir.O("id", ir.NewString(id)),
		ir.O("project_id", ir.NewString(projectID)),
		ir.O("name", ir.NewString(name)),
		ir.O("vcpus", ir.NewInt(vcpus)),
		ir.O("ram", ir.NewInt(ram)),
		ir.O("disk", ir.NewInt(disk)),
	)
}

func image(id, projectID, name string) ir.Row {
	return ir.NewRow(
		ir.O("id", ir.NewString(id)),
		ir.O("project_id", ir.NewString(projectID)),
		ir.O("name", ir.NewString(name)),
		ir.O("state", ir.NewString("active")),
	)
}

func instance(id, name, projectID, flavorID, imageID, state string) ir.Row {
	return ir.NewRow(
		ir.O("id", ir.NewString(id)),
		ir.O("name", ir.NewString(name)),
		ir.O("project_id", ir.NewString(projectID)),
		ir.O("flavor_id", ir.NewString(flavorID)),
		ir.O("image_id", ir.NewString(imageID)),
		ir.O("state", ir.NewString(state)),
		ir.O("cloud_type", ir.NewString("openstack")),
	)
}
