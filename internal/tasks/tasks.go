// Package tasks resolves job sources into validated job sets.
package tasks

import (
	"fmt"

	"tasker/internal/models"
)

// DuplicateProfileError is returned when two profiles in one source share a name.
type DuplicateProfileError struct {
	Name string
}

func (e *DuplicateProfileError) Error() string {
	return fmt.Sprintf("duplicate profile %q", e.Name)
}

// UnknownProfileError is returned when a download references a profile the source does not declare.
type UnknownProfileError struct {
	Download string
	Profile  string
}

func (e *UnknownProfileError) Error() string {
	return fmt.Sprintf("download %q references unknown profile %q", e.Download, e.Profile)
}

// Tasks is a resolved job source.
//
// Every profile name referenced by every download is guaranteed to exist.
// The only way to obtain a Tasks is through Resolve.
type Tasks struct {
	profiles  map[string]models.Profile
	downloads []models.Download
}

// Resolve validates a job source and indexes its profiles by name.
//
// Any duplicate profile name or dangling profile reference rejects the whole source.
func Resolve(src models.TaskSource) (*Tasks, error) {
	profiles := make(map[string]models.Profile, len(src.Profiles))
	for _, p := range src.Profiles {
		if _, exists := profiles[p.Name]; exists {
			return nil, &DuplicateProfileError{Name: p.Name}
		}
		profiles[p.Name] = p
	}

	for _, d := range src.Downloads {
		for _, name := range d.Profiles {
			if _, ok := profiles[name]; !ok {
				return nil, &UnknownProfileError{Download: d.Name, Profile: name}
			}
		}
	}

	return &Tasks{
		profiles:  profiles,
		downloads: src.Downloads,
	}, nil
}

// Downloads returns the downloads in declaration order.
func (t *Tasks) Downloads() []models.Download {
	return t.downloads
}

// Profile returns the named profile.
func (t *Tasks) Profile(name string) (models.Profile, bool) {
	p, ok := t.profiles[name]
	return p, ok
}

// ProfileNames returns every profile name, in no particular order.
func (t *Tasks) ProfileNames() []string {
	names := make([]string, 0, len(t.profiles))
	for name := range t.profiles {
		names = append(names, name)
	}
	return names
}

// JobCount returns the number of (download, profile) jobs in the set.
func (t *Tasks) JobCount() int {
	n := 0
	for _, d := range t.downloads {
		n += len(d.Profiles)
	}
	return n
}
