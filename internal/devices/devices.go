// Package devices loads the optional camera registry. The registry maps the
// device names cameras embed in upload file names to friendly labels, letting
// reports and logs talk about "Front door" instead of "CamA-1". It is purely
// advisory: an unknown device never affects classification or archiving.
package devices

import (
	"fmt"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Device describes one known camera.
type Device struct {
	Name     string `yaml:"name"`
	Label    string `yaml:"label"`
	Channels int    `yaml:"channels"`
}

type registryFile struct {
	Devices []Device `yaml:"devices"`
}

// Registry resolves device names found in recording file names.
type Registry struct {
	byName map[string]Device
}

// Load reads a devices.yaml registry file.
func Load(fs afero.Fs, path string) (*Registry, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("cannot read device registry %s: %w", path, err)
	}

	var rf registryFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("cannot parse device registry %s: %w", path, err)
	}

	byName := make(map[string]Device, len(rf.Devices))
	for i, d := range rf.Devices {
		if d.Name == "" {
			return nil, fmt.Errorf("device registry %s: entry %d has no name", path, i)
		}
		if _, exists := byName[d.Name]; exists {
			return nil, fmt.Errorf("device registry %s: duplicate device %q", path, d.Name)
		}
		byName[d.Name] = d
	}

	return &Registry{byName: byName}, nil
}

// Known reports whether the device name is present in the registry.
// A nil registry knows nothing.
func (r *Registry) Known(name string) bool {
	if r == nil {
		return false
	}
	_, ok := r.byName[name]
	return ok
}

// Label returns the friendly label for a device name, falling back to the
// name itself when the device is unknown or has no label.
func (r *Registry) Label(name string) string {
	if r == nil {
		return name
	}
	if d, ok := r.byName[name]; ok && d.Label != "" {
		return d.Label
	}
	return name
}

// Len returns the number of registered devices.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.byName)
}
