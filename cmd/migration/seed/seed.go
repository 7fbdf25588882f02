package seed

import (
	"hypeshelf/config"
	"hypeshelf/internal/logger"
	. "hypeshelf/internal/models"

	"gorm.io/gorm"
)

// Seed loads a small set of development data. The first user seeded is
// the admin, matching the bootstrap rule.
func Seed(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("seed")
	log.Info("Seeding development data")

	users := []User{
		{
			Subject: "seed_admin",
			Name:    "Site Admin",
			Email:   "admin@example.com",
			Role:    RoleAdmin,
		},
		{
			Subject: "seed_ada",
			Name:    "Ada Lovelace",
			Email:   "ada.lovelace@example.com",
			Role:    RoleUser,
		},
		{
			Subject: "seed_grace",
			Name:    "Grace Hopper",
			Email:   "grace.hopper@example.com",
			Role:    RoleUser,
		},
	}

	for i := range users {
		var existing User
		if err := db.First(&existing, "user_id = ?", users[i].Subject).Error; err == nil {
			log.Info("User already exists", "subject", users[i].Subject)
			continue
		}
		if err := db.Create(&users[i]).Error; err != nil {
			return log.Err("failed to seed user", err, "subject", users[i].Subject)
		}
	}

	recommendations := []Recommendation{
		{
			Title:        "Severance",
			Genre:        "Movies & TV",
			Link:         "https://tv.apple.com/show/severance",
			Blurb:        "Office thriller about work-life separation taken literally.",
			OwnerSubject: "seed_admin",
			AuthorName:   "Site Admin",
			IsStaffPick:  true,
		},
		{
			Title:        "The Pragmatic Programmer",
			Genre:        "Books",
			Link:         "https://pragprog.com/titles/tpp20/",
			Blurb:        "Still the best general-purpose software book around.",
			OwnerSubject: "seed_ada",
			AuthorName:   "Ada Lovelace",
		},
		{
			Title:        "Outer Wilds",
			Genre:        "Games",
			Blurb:        "A 22-minute solar system that rewards curiosity.",
			OwnerSubject: "seed_grace",
			AuthorName:   "Grace Hopper",
		},
	}

	for i := range recommendations {
		if err := db.Create(&recommendations[i]).Error; err != nil {
			return log.Err("failed to seed recommendation", err,
				"title", recommendations[i].Title)
		}
	}

	log.Info("Seed complete",
		"users", len(users),
		"recommendations", len(recommendations))
	return nil
}
