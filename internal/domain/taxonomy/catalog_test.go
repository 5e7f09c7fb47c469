package taxonomy_test

import (
	"testing"

	"github.com/gighive/gighive/internal/domain/taxonomy"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCatalogLookups(t *testing.T) {
	Convey("Given a catalog with two categories", t, func() {
		catalog := taxonomy.NewCatalog([]taxonomy.Category{
			{
				Key:            "security",
				Title:          "Security",
				Activities:     []string{"patrol", "door_supervision"},
				Qualifications: []string{"guard_license_34a"},
			},
			{
				Key:        "logistics",
				Title:      "Logistics",
				Activities: []string{"loading"},
			},
		})

		Convey("Then ListCategories preserves insertion order", func() {
			infos := catalog.ListCategories()
			So(infos, ShouldHaveLength, 2)
			So(infos[0].Key, ShouldEqual, "security")
			So(infos[0].Title, ShouldEqual, "Security")
			So(infos[1].Key, ShouldEqual, "logistics")
		})

		Convey("Then GetCategory finds known categories", func() {
			cat, ok := catalog.GetCategory("security")
			So(ok, ShouldBeTrue)
			So(cat.Title, ShouldEqual, "Security")
		})

		Convey("Then GetCategory reports unknown categories without raising", func() {
			_, ok := catalog.GetCategory("mining")
			So(ok, ShouldBeFalse)
		})

		Convey("Then TagsForCategory is the union of activities and qualifications", func() {
			tags := catalog.TagsForCategory("security")
			So(tags, ShouldHaveLength, 3)
			So(tags, ShouldContainKey, "patrol")
			So(tags, ShouldContainKey, "guard_license_34a")
		})

		Convey("Then TagsForCategory is empty for unknown categories", func() {
			So(catalog.TagsForCategory("mining"), ShouldBeEmpty)
		})

		Convey("Then IsTagAllowed checks category scope", func() {
			So(catalog.IsTagAllowed("security", "patrol"), ShouldBeTrue)
			So(catalog.IsTagAllowed("logistics", "patrol"), ShouldBeFalse)
			So(catalog.IsTagAllowed("mining", "patrol"), ShouldBeFalse)
		})
	})
}

func TestCatalogDuplicateTags(t *testing.T) {
	Convey("Given categories sharing a tag key", t, func() {
		// Shared keys are flagged at construction but remain usable
		// in both categories.
		catalog := taxonomy.NewCatalog([]taxonomy.Category{
			{Key: "security", Activities: []string{"first_aid"}},
			{Key: "events", Activities: []string{"first_aid"}},
		})

		So(catalog.IsTagAllowed("security", "first_aid"), ShouldBeTrue)
		So(catalog.IsTagAllowed("events", "first_aid"), ShouldBeTrue)
	})
}

func TestDefaultCatalog(t *testing.T) {
	Convey("Given the built-in catalog", t, func() {
		catalog := taxonomy.Default()

		So(catalog.ListCategories(), ShouldNotBeEmpty)
		So(catalog.IsTagAllowed("security", "guard_license_34a"), ShouldBeTrue)
		So(catalog.IsTagAllowed("gastronomy", "bar"), ShouldBeTrue)
	})
}
