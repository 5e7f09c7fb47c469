package taxonomy

// Default returns the built-in marketplace catalog.
func Default() *Catalog {
	return NewCatalog([]Category{
		{
			Key:            "security",
			Title:          "Security",
			Activities:     []string{"door_supervision", "patrol", "event_security", "reception_desk"},
			Qualifications: []string{"guard_license_34a", "first_aid"},
		},
		{
			Key:            "logistics",
			Title:          "Logistics",
			Activities:     []string{"warehouse_picking", "loading", "inventory", "parcel_sorting"},
			Qualifications: []string{"forklift_license", "drivers_license_b"},
		},
		{
			Key:            "gastronomy",
			Title:          "Gastronomy",
			Activities:     []string{"service", "kitchen_help", "bar", "dishwashing"},
			Qualifications: []string{"food_hygiene_cert", "bartending_experience"},
		},
		{
			Key:            "retail",
			Title:          "Retail",
			Activities:     []string{"cashier", "shelf_stocking", "customer_service"},
			Qualifications: []string{"pos_experience"},
		},
		{
			Key:            "events",
			Title:          "Events",
			Activities:     []string{"stage_setup", "ticketing", "crowd_guidance", "promotion"},
			Qualifications: []string{"heavy_lifting"},
		},
		{
			Key:            "cleaning",
			Title:          "Cleaning",
			Activities:     []string{"office_cleaning", "window_cleaning", "deep_cleaning"},
			Qualifications: []string{"industrial_cleaning_cert"},
		},
	})
}
