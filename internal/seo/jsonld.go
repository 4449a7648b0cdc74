// Package seo builds schema.org structured data for storefront pages.
package seo

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"time"

	"github.com/Abubakarnofal03/opus-commerce-sub001/internal/pricing"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

const schemaContext = "https://schema.org"

type Thing struct {
	Context string `json:"@context,omitempty"`
	Type    string `json:"@type"`
}

type OrganizationInput struct {
	Name         string
	URL          string
	LogoURL      string
	SameAs       []string
	ContactEmail string
	ContactPhone string
}

type Organization struct {
	Thing
	Name         string        `json:"name"`
	URL          string        `json:"url,omitempty"`
	Logo         string        `json:"logo,omitempty"`
	SameAs       []string      `json:"sameAs,omitempty"`
	ContactPoint *ContactPoint `json:"contactPoint,omitempty"`
}

type ContactPoint struct {
	Thing
	ContactType string `json:"contactType"`
	Email       string `json:"email,omitempty"`
	Telephone   string `json:"telephone,omitempty"`
}

func BuildOrganization(in OrganizationInput) Organization {
	org := Organization{
		Thing:  Thing{Context: schemaContext, Type: "Organization"},
		Name:   in.Name,
		URL:    in.URL,
		Logo:   in.LogoURL,
		SameAs: in.SameAs,
	}
	if in.ContactEmail != "" || in.ContactPhone != "" {
		org.ContactPoint = &ContactPoint{
			Thing:       Thing{Type: "ContactPoint"},
			ContactType: "customer service",
			Email:       in.ContactEmail,
			Telephone:   in.ContactPhone,
		}
	}
	return org
}

type WebSiteInput struct {
	Name string
	URL  string
	// SearchURLTemplate contains {search_term_string}, e.g.
	// https://shop.example/search?q={search_term_string}.
	SearchURLTemplate string
}

type WebSite struct {
	Thing
	Name            string        `json:"name"`
	URL             string        `json:"url"`
	PotentialAction *SearchAction `json:"potentialAction,omitempty"`
}

type SearchAction struct {
	Thing
	Target     string `json:"target"`
	QueryInput string `json:"query-input"`
}

func BuildWebSite(in WebSiteInput) WebSite {
	site := WebSite{
		Thing: Thing{Context: schemaContext, Type: "WebSite"},
		Name:  in.Name,
		URL:   in.URL,
	}
	if in.SearchURLTemplate != "" {
		site.PotentialAction = &SearchAction{
			Thing:      Thing{Type: "SearchAction"},
			Target:     in.SearchURLTemplate,
			QueryInput: "required name=search_term_string",
		}
	}
	return site
}

type ProductInput struct {
	Name        string
	Description string
	URL         string
	Images      []string
	SKU         string
	Brand       string
	Price       decimal.Decimal
	Currency    currency.Unit
	InStock     bool
	// Sale is the resolved sale price; when discounted the offer carries
	// the sale price.
	Sale *pricing.Result
}

type Product struct {
	Thing
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	URL         string   `json:"url,omitempty"`
	Image       []string `json:"image,omitempty"`
	SKU         string   `json:"sku,omitempty"`
	Brand       *Brand   `json:"brand,omitempty"`
	Offers      Offer    `json:"offers"`
}

type Brand struct {
	Thing
	Name string `json:"name"`
}

type Offer struct {
	Thing
	URL           string `json:"url,omitempty"`
	Price         string `json:"price"`
	PriceCurrency string `json:"priceCurrency"`
	Availability  string `json:"availability"`
}

func BuildProduct(in ProductInput) Product {
	price := in.Price
	if in.Sale != nil && in.Sale.Discounted() {
		price = in.Sale.FinalPrice
	}

	availability := "https://schema.org/OutOfStock"
	if in.InStock {
		availability = "https://schema.org/InStock"
	}

	p := Product{
		Thing:       Thing{Context: schemaContext, Type: "Product"},
		Name:        in.Name,
		Description: in.Description,
		URL:         in.URL,
		Image:       in.Images,
		SKU:         in.SKU,
		Offers: Offer{
			Thing:         Thing{Type: "Offer"},
			URL:           in.URL,
			Price:         price.StringFixed(2),
			PriceCurrency: in.Currency.String(),
			Availability:  availability,
		},
	}
	if in.Brand != "" {
		p.Brand = &Brand{Thing: Thing{Type: "Brand"}, Name: in.Brand}
	}
	return p
}

type Breadcrumb struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type BreadcrumbList struct {
	Thing
	ItemListElement []ListItem `json:"itemListElement"`
}

type ListItem struct {
	Thing
	Position int    `json:"position"`
	Name     string `json:"name"`
	Item     string `json:"item,omitempty"`
}

// BuildBreadcrumbList numbers crumbs from 1. The last crumb is the current
// page and carries no link.
func BuildBreadcrumbList(crumbs []Breadcrumb) BreadcrumbList {
	items := make([]ListItem, 0, len(crumbs))
	for i, c := range crumbs {
		item := ListItem{
			Thing:    Thing{Type: "ListItem"},
			Position: i + 1,
			Name:     c.Name,
			Item:     c.URL,
		}
		if i == len(crumbs)-1 {
			item.Item = ""
		}
		items = append(items, item)
	}
	return BreadcrumbList{
		Thing:           Thing{Context: schemaContext, Type: "BreadcrumbList"},
		ItemListElement: items,
	}
}

type BlogPostingInput struct {
	Headline      string
	Description   string
	URL           string
	ImageURL      string
	AuthorName    string
	PublisherName string
	PublisherLogo string
	PublishedAt   time.Time
	ModifiedAt    time.Time
}

type BlogPosting struct {
	Thing
	Headline         string        `json:"headline"`
	Description      string        `json:"description,omitempty"`
	Image            string        `json:"image,omitempty"`
	DatePublished    string        `json:"datePublished"`
	DateModified     string        `json:"dateModified"`
	Author           Person        `json:"author"`
	Publisher        *Organization `json:"publisher,omitempty"`
	MainEntityOfPage string        `json:"mainEntityOfPage,omitempty"`
}

type Person struct {
	Thing
	Name string `json:"name"`
}

func BuildBlogPosting(in BlogPostingInput) BlogPosting {
	modified := in.ModifiedAt
	if modified.IsZero() {
		modified = in.PublishedAt
	}

	post := BlogPosting{
		Thing:            Thing{Context: schemaContext, Type: "BlogPosting"},
		Headline:         in.Headline,
		Description:      in.Description,
		Image:            in.ImageURL,
		DatePublished:    in.PublishedAt.UTC().Format(time.RFC3339),
		DateModified:     modified.UTC().Format(time.RFC3339),
		Author:           Person{Thing: Thing{Type: "Person"}, Name: in.AuthorName},
		MainEntityOfPage: in.URL,
	}
	if in.PublisherName != "" {
		post.Publisher = &Organization{
			Thing: Thing{Type: "Organization"},
			Name:  in.PublisherName,
			Logo:  in.PublisherLogo,
		}
	}
	return post
}

// ScriptTag renders v as a JSON-LD script element. json.Marshal escapes
// <, > and &, so the payload cannot close the element early.
func ScriptTag(v any) (template.HTML, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("json.Marshal: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString(`<script type="application/ld+json">`)
	buf.Write(raw)
	buf.WriteString(`</script>`)
	return template.HTML(buf.String()), nil
}
