package service

import (
	"context"

	"github.com/avetra/committee-portal/log"
)

var sampleRegistrations = []RegisterInput{
	{
		Name:             "Alice Smith",
		Committee:        "Finance",
		SocialMediaLinks: "https://linkedin.com/in/alicesmith",
		Email:            "alice@example.com",
	},
	{
		Name:      "Bob Johnson",
		Committee: "Technical",
		Phone:     "+1-555-0101",
	},
	{
		Name:             "Carol Diaz",
		Committee:        "Finance",
		SocialMediaLinks: "https://twitter.com/caroldiaz, https://instagram.com/caroldiaz",
	},
	{
		Name:      "Dmitri Volkov",
		Committee: "Outreach",
		Email:     "dmitri@example.com",
	},
}

// Seed inserts a handful of sample registrations, useful for trying out the
// CLI menus against an empty backend. Returns the number inserted.
func (s *Service) Seed(ctx context.Context) (int, error) {
	inserted := 0
	for _, in := range sampleRegistrations {
		if _, err := s.Register(ctx, in); err != nil {
			return inserted, err
		}
		inserted++
	}
	log.Infof("service.seed: inserted %d sample records", inserted)
	return inserted, nil
}
