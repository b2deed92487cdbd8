package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Registry reads and writes the monitored site list (sites.json).
// The whole file is the unit of persistence; a corrupt file degrades to an
// empty list so a bad edit can never take the monitoring loop down.
type Registry struct {
	path string
}

// NewRegistry returns a registry backed by the given sites file.
func NewRegistry(path string) *Registry {
	return &Registry{path: path}
}

// Path returns the backing file path.
func (r *Registry) Path() string {
	return r.path
}

// Load reads the current site list. A missing file yields an empty list.
// A malformed file also yields an empty list plus the parse error so the
// caller can log a warning and carry on.
func (r *Registry) Load() ([]SiteConfig, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read sites file: %w", err)
	}

	var sites []SiteConfig
	if err := json.Unmarshal(data, &sites); err != nil {
		return nil, fmt.Errorf("parse sites file: %w", err)
	}
	return sites, nil
}

// Save writes the full site list back to the file.
func (r *Registry) Save(sites []SiteConfig) error {
	if sites == nil {
		sites = []SiteConfig{}
	}
	data, err := json.MarshalIndent(sites, "", "  ")
	if err != nil {
		return fmt.Errorf("encode sites: %w", err)
	}
	if err := os.WriteFile(r.path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write sites file: %w", err)
	}
	return nil
}

// Add appends a site and returns the updated list.
func (r *Registry) Add(site SiteConfig) ([]SiteConfig, error) {
	sites, err := r.Load()
	if err != nil {
		return nil, err
	}
	site.Name = strings.TrimSpace(site.Name)
	site.URL = strings.TrimSpace(site.URL)
	if site.URL == "" {
		return sites, fmt.Errorf("site url must not be empty")
	}
	sites = append(sites, site)
	if err := r.Save(sites); err != nil {
		return nil, err
	}
	return sites, nil
}

// Delete removes the site with the given URL, if present, and returns the
// updated list.
func (r *Registry) Delete(url string) ([]SiteConfig, error) {
	sites, err := r.Load()
	if err != nil {
		return nil, err
	}
	kept := sites[:0]
	for _, site := range sites {
		if site.URL != url {
			kept = append(kept, site)
		}
	}
	if len(kept) == len(sites) {
		return sites, nil
	}
	if err := r.Save(kept); err != nil {
		return nil, err
	}
	return kept, nil
}
