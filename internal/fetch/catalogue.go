// Package fetch - catalogue.go provides catalogue detection and
// catalogue-specific selectors.
package fetch

import (
	"net/url"
	"strings"
)

// Catalogue represents a known training catalogue host.
type Catalogue string

const (
	// CatalogueTGA is the national training register
	CatalogueTGA Catalogue = "training.gov.au"
	// CatalogueMySkills is the MySkills course directory
	CatalogueMySkills Catalogue = "myskills"
	// CatalogueRTO is a generic provider course page
	CatalogueRTO Catalogue = "rto"
	// CatalogueUnknown is an unrecognized host
	CatalogueUnknown Catalogue = "unknown"
)

// DetectCatalogue identifies the catalogue host from a URL.
func DetectCatalogue(urlStr string) Catalogue {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return CatalogueUnknown
	}

	host := strings.ToLower(parsed.Host)

	if strings.Contains(host, "training.gov.au") {
		return CatalogueTGA
	}
	if strings.Contains(host, "myskills.gov.au") {
		return CatalogueMySkills
	}
	if strings.Contains(host, ".edu.au") || strings.Contains(host, ".tafe") {
		return CatalogueRTO
	}

	return CatalogueUnknown
}

// CatalogueContentSelectors returns content selectors for a catalogue host.
func CatalogueContentSelectors(catalogue Catalogue) []string {
	switch catalogue {
	case CatalogueTGA:
		return []string{
			"#unitsTab",
			".training-component-details",
			"#mainContent",
			"main",
			"#content",
		}
	case CatalogueMySkills:
		return []string{
			".course-detail",
			".units-of-competency",
			".course-structure",
			"main",
			".content",
		}
	case CatalogueRTO:
		return []string{
			".course-content",
			".course-structure",
			".course-units",
			".course-detail",
			"main",
			"article",
			"#content",
		}
	default:
		return CourseSelectors()
	}
}

// CatalogueNoiseSelectors returns noise exclusion selectors for a catalogue host.
func CatalogueNoiseSelectors(catalogue Catalogue) []string {
	common := []string{
		"form",
		".enquiry-form",
		".enrol-now",
		".apply-now",
		".cta-banner",
		".related-courses",
		".testimonials",
		".social-share",
		".share-buttons",
		".cookie-consent",
		".gdpr-notice",
		".breadcrumb",
	}

	switch catalogue {
	case CatalogueTGA:
		return append(common,
			".usage-recommendation",
			".component-history",
			"#mappingTab",
		)
	case CatalogueRTO:
		return append(common,
			".fees-section",
			".intake-dates-widget",
			".campus-selector",
		)
	default:
		return common
	}
}

// CourseSelectors returns selectors optimized for course and qualification pages.
func CourseSelectors() []string {
	return []string{
		".course-content",
		".course-detail",
		".units-list",
		".unit-list",
		"#units",
		"main",
		"article",
		".content",
		"#content",
	}
}
