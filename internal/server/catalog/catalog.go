// Package catalog serves the read-only company list shown on the landing page.
package catalog

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/accounts/internal/server/models"
)

// Catalog is a read-only source of companies.
type Catalog interface {
	Companies(ctx context.Context) ([]models.Company, error)
}

// StaticCatalog returns a fixed list. Image fields hold paths relative to the
// public base URL and are expanded on read.
type StaticCatalog struct {
	baseURL   string
	companies []models.Company
}

// NewStaticCatalog builds a catalog over companies; image paths are joined to baseURL.
func NewStaticCatalog(baseURL string, companies []models.Company) *StaticCatalog {
	c := make([]models.Company, len(companies))
	copy(c, companies)
	return &StaticCatalog{baseURL: strings.TrimRight(baseURL, "/"), companies: c}
}

// Companies returns a copy of the list with absolute image URLs.
func (c *StaticCatalog) Companies(_ context.Context) ([]models.Company, error) {
	out := make([]models.Company, len(c.companies))
	for i, company := range c.companies {
		if strings.HasPrefix(company.Image, "/") {
			company.Image = c.baseURL + company.Image
		}
		out[i] = company
	}
	return out, nil
}

// DefaultCompanies is the sample data shipped with the service.
func DefaultCompanies() []models.Company {
	return []models.Company{
		{ID: 1, Name: "TechNova Solutions", Description: "Leading software development company specializing in innovative solutions.", Image: "/images/companies/technova.jpeg"},
		{ID: 2, Name: "Digital Marketers Inc.", Description: "Premier digital marketing agency delivering results-driven campaigns.", Image: "/images/companies/digitalmarketers.jpeg"},
		{ID: 3, Name: "CreativeDesign Studios", Description: "Award-winning design studio creating stunning visual experiences.", Image: "/images/companies/creativedesign.jpg"},
		{ID: 4, Name: "DataMetrics Analytics", Description: "Data-driven company providing actionable insights through advanced analytics.", Image: "/images/companies/datametrics.png"},
		{ID: 5, Name: "CustomerCare Connect", Description: "Customer service excellence is our priority.", Image: "/images/companies/customercare.jpg"},
		{ID: 6, Name: "ProjectPro Management", Description: "Expert project management services for businesses of all sizes.", Image: "/images/companies/projectpro.jpeg"},
	}
}
