package catalog

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/accounts/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticCatalog_ExpandsImageURLs(t *testing.T) {
	c := NewStaticCatalog("https://cdn.example.com/", []models.Company{
		{ID: 1, Name: "Acme", Image: "/images/companies/acme.png"},
		{ID: 2, Name: "Remote", Image: "https://elsewhere/logo.gif"},
	})

	got, err := c.Companies(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "https://cdn.example.com/images/companies/acme.png", got[0].Image)
	assert.Equal(t, "https://elsewhere/logo.gif", got[1].Image)
}

func TestStaticCatalog_IsReadOnly(t *testing.T) {
	src := []models.Company{{ID: 1, Name: "Acme", Image: "/a.png"}}
	c := NewStaticCatalog("http://localhost:3000", src)

	src[0].Name = "Changed"
	got, err := c.Companies(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Acme", got[0].Name)

	got[0].Name = "Mutated"
	again, err := c.Companies(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Acme", again[0].Name)
}

func TestDefaultCompanies(t *testing.T) {
	companies := DefaultCompanies()
	require.Len(t, companies, 6)
	for i, c := range companies {
		assert.Equal(t, i+1, c.ID)
		assert.NotEmpty(t, c.Name)
		assert.Regexp(t, `^/images/companies/[a-z]+\.(jpeg|jpg|png)$`, c.Image)
	}
}
