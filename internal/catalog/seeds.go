package catalog

import (
	"fmt"
	"time"

	"github.com/angelmondragon/estatedesk-backend/internal/entities"
	"github.com/angelmondragon/estatedesk-backend/internal/media"
	"github.com/angelmondragon/estatedesk-backend/pkg/enums"
	"go.uber.org/multierr"
)

const seedLayout = "2006-01-02 15:04"

func changedAt(value string) entities.Meta {
	t, err := time.ParseInLocation(seedLayout, value, time.UTC)
	if err != nil {
		panic(fmt.Sprintf("bad seed timestamp %q", value))
	}
	return entities.Meta{ChangedAt: t}
}

func seedQuery(propertyTitle, name, email, phone, message, changed string, read bool) Query {
	return Query{
		Meta:          changedAt(changed),
		PropertyTitle: propertyTitle,
		Name:          name,
		Email:         email,
		Phone:         phone,
		Message:       message,
		IsRead:        read,
	}
}

func seedTerm(name, status, changed string) Term {
	return Term{Meta: changedAt(changed), Name: name, Status: status}
}

func (c *Catalog) seedMedia(rawURL string, typ enums.MediaType, slot string, primary bool) media.Item {
	return media.Item{ID: c.newID(), URL: rawURL, Name: media.NameFromURL(rawURL), Type: typ, IsPrimary: primary, Slot: slot}
}

// Seed loads the demo data set into every store.
func (c *Catalog) Seed() error {
	var err error
	err = multierr.Append(err, c.Properties.Seed(
		Property{
			Meta: changedAt("2024-12-01 10:00"), Title: "Luxury Villa", Type: "Residential", Price: "500,000", Status: "Available",
			Media: []media.Item{
				c.seedMedia("https://via.placeholder.com/150/0000FF/FFFFFF?text=Villa1", enums.MediaTypeImage, media.SlotImages, true),
				c.seedMedia("https://www.w3schools.com/html/mov_bbb.mp4", enums.MediaTypeVideo, media.SlotVideo, false),
				c.seedMedia("https://www.africau.edu/images/default/sample.pdf", enums.MediaTypePDF, media.SlotDocuments, false),
			},
		},
		Property{
			Meta: changedAt("2024-12-01 11:30"), Title: "Downtown Office Space", Type: "Commercial", Price: "1,200,000", Status: "Rented",
			Media: []media.Item{
				c.seedMedia("https://via.placeholder.com/150/FF0000/FFFFFF?text=Office1", enums.MediaTypeImage, media.SlotImages, true),
			},
		},
	))
	err = multierr.Append(err, c.Files.Seed(
		ListingFile{Meta: changedAt("2024-12-01 09:00"), Title: "DHA Phase 8 - 5 Marla Residential File", Type: "Allocation", Price: "3,000,000", Status: "Available", IsFile: true},
		ListingFile{Meta: changedAt("2024-12-01 12:00"), Title: "Bahria Town Karachi - 125 Sq. Yd. Commercial File", Type: "Affidavit", Price: "8,500,000", Status: "Available", IsFile: true},
	))
	err = multierr.Append(err, c.Maps.Seed(
		Map{Meta: changedAt("2025-11-20 11:00"), Title: "DHA Phase 8 Map", Type: "PDF", Location: "DHA Phase 8, Lahore", Size: "15 MB"},
		Map{Meta: changedAt("2025-11-25 14:30"), Title: "Bahria Town Karachi Layout", Type: "Image", Location: "Bahria Town, Karachi", Size: "5 MB"},
	))
	err = multierr.Append(err, c.Queries.Seed(
		seedQuery("Luxury Villa", "Alice Smith", "alice.smith@example.com", "123-456-7890", "I am very interested in this property. Can I schedule a viewing next week?", "2025-09-01 09:00", false),
		seedQuery("Commercial Plot DHA Phase 6", "David Lee", "david.lee@example.com", "111-222-3333", "Looking for investment opportunities. Is this plot still open?", "2025-09-15 10:00", true),
		seedQuery("Apartment in Gulberg", "Eve Davis", "eve.davis@example.com", "444-555-6666", "Interested in a 2-bedroom apartment. What are the options?", "2025-09-20 11:00", false),
		seedQuery("Farm House on Bedian Road", "Frank White", "frank.white@example.com", "777-888-9999", "Seeking a large farm house with some land. Details?", "2025-10-05 14:00", true),
		seedQuery("Office Space Model Town", "Grace Black", "grace.black@example.com", "333-444-5555", "Need small office space for startup. Available options?", "2025-10-20 09:30", false),
		seedQuery("Residential Plot F-8 Islamabad", "Henry Green", "henry.green@example.com", "666-777-8888", "Looking for a plot in F-8. Any leads?", "2025-11-01 10:30", true),
		seedQuery("New Project Launch Inquiry", "Isabelle Taylor", "isabelle.t@example.com", "123-123-1234", "Details about the new residential project?", "2025-11-10 08:30", false),
		seedQuery("Investment Opportunity DHA Phase 7", "Jack Wilson", "jack.w@example.com", "456-456-4567", "Seeking commercial plot investment.", "2025-11-15 11:00", true),
		seedQuery("Rental Inquiry Bahria Town", "Karen Miller", "karen.m@example.com", "789-789-7890", "Looking for a house for rent.", "2025-11-20 14:00", false),
		seedQuery("Property Valuation Request", "Liam Davis", "liam.d@example.com", "111-111-1111", "Need valuation for my property.", "2025-11-25 09:45", true),
		seedQuery("Luxury Villa", "Alice Smith", "alice.smith@example.com", "123-456-7890", "I am very interested in this property. Can I schedule a viewing next week?", "2025-11-28 10:00", true),
		seedQuery("Downtown Office Space", "Bob Johnson", "bob.johnson@example.com", "098-765-4321", "What are the payment terms for this office space?", "2025-11-29 11:00", false),
		seedQuery("DHA Phase 8 - 5 Marla Residential File", "Charlie Brown", "charlie.b@example.com", "555-123-4567", "Is this file still available? What is the current market value?", "2025-11-29 15:00", true),
		seedQuery("Commercial Plot DHA Phase 6", "David Lee", "david.lee@example.com", "111-222-3333", "Looking for investment opportunities. Is this plot still open?", "2025-11-30 09:00", false),
		seedQuery("Commercial Plot DHA Phase 6", "David Lee", "david.lee@example.com", "111-222-3333", "Looking for investment opportunities. Is this plot still open?", "2025-11-30 09:00", false),
		seedQuery("Commercial Plot DHA Phase 6", "David Lee", "david.lee@example.com", "111-222-3333", "Looking for investment opportunities. Is this plot still open?", "2025-11-30 09:00", false),
		seedQuery("Commercial Plot DHA Phase 6", "David Lee", "david.lee@example.com", "111-222-3333", "Looking for investment opportunities. Is this plot still open?", "2025-11-30 09:00", false),
		seedQuery("Apartment in Gulberg", "Eve Davis", "eve.davis@example.com", "444-555-6666", "Interested in a 2-bedroom apartment. What are the options?", "2025-12-01 12:00", true),
		seedQuery("Farm House on Bedian Road", "Frank White", "frank.white@example.com", "777-888-9999", "Seeking a large farm house with some land. Details?", "2025-12-03 16:00", false),
	))
	err = multierr.Append(err, c.Users.Seed(
		User{Meta: changedAt("2024-12-01 10:00"), FullName: "John Doe", Role: "Admin", Email: "john.doe@example.com", Phone: "123-456-7890", Status: enums.UserStatusActive},
		User{Meta: changedAt("2024-12-01 11:30"), FullName: "Jane Smith", Role: "CEO", Email: "jane.smith@example.com", Phone: "098-765-4321", Status: enums.UserStatusUnconfirmed},
		User{Meta: changedAt("2024-12-01 12:00"), FullName: "Peter Jones", Role: "Admin", Email: "peter.jones@example.com", Phone: "555-123-4567", Status: enums.UserStatusBlocked},
	))
	err = multierr.Append(err, c.Categories.Seed(
		seedTerm("Residential", "Active", "2024-11-29 10:00"),
		seedTerm("Commercial", "Active", "2024-11-29 14:00"),
	))
	err = multierr.Append(err, c.Cities.Seed(
		seedTerm("Lahore", "Active", "2024-12-01 08:00"),
		seedTerm("Karachi", "Active", "2024-12-01 13:00"),
	))
	err = multierr.Append(err, c.Phases.Seed(
		seedTerm("Phase 8", "Active", "2024-11-30 10:00"),
		seedTerm("Phase 9", "Upcoming", "2024-11-30 15:00"),
	))
	err = multierr.Append(err, c.Societies.Seed(
		seedTerm("DHA", "Active", "2024-12-01 11:00"),
		seedTerm("Bahria Town", "Active", "2024-12-01 15:30"),
	))
	return err
}
