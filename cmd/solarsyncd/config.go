package main

import (
	"fmt"
	"solarsync-backend/lib/configuration"
	"solarsync-backend/lib/plantstore"
	"solarsync-backend/lib/scrapers/solar"
)

type Config struct {
	Database configuration.Sqlite `json:"database"`
	// when set, persistence goes to the hosted postgrest api
	// instead of the local database
	Postgrest plantstore.PostgrestConfig `json:"postgrest"`
	// empty means every supported vendor
	Vendors         []string `json:"vendors"`
	IntervalMinutes int      `json:"interval_minutes"`
	MaxPages        int      `json:"max_pages"`
	Headful         bool     `json:"headful"`
}

func (c Config) storageClient() (plantstore.Client, error) {
	if c.Postgrest.Url != "" {
		return plantstore.NewPostgrestClient(c.Postgrest), nil
	}
	db, err := c.Database.OpenDB(plantstore.Schema)
	if err != nil {
		return nil, err
	}
	return plantstore.NewStore(db), nil
}

func (c Config) profiles() ([]solar.VendorProfile, error) {
	var out []solar.VendorProfile
	if len(c.Vendors) == 0 {
		out = solar.BuiltinProfiles()
	} else {
		for _, name := range c.Vendors {
			profile, ok := solar.ProfileByName(name)
			if !ok {
				return nil, fmt.Errorf("unknown vendor: %s", name)
			}
			out = append(out, profile)
		}
	}
	if c.MaxPages > 0 {
		for i := range out {
			out[i].MaxPages = c.MaxPages
		}
	}
	return out, nil
}
