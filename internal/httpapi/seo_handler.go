package httpapi

import (
	"net/http"
	"time"

	"github.com/Abubakarnofal03/opus-commerce-sub001/internal/seo"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type productSEORequest struct {
	ProductID   uuid.UUID       `json:"product_id"`
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	URL         string          `json:"url"`
	Images      []string        `json:"images"`
	SKU         string          `json:"sku"`
	Brand       string          `json:"brand"`
	Price       decimal.Decimal `json:"price"`
	InStock     bool            `json:"in_stock"`
	Sales       []saleRequest   `json:"sales"`
}

type blogPostingRequest struct {
	Headline    string    `json:"headline" binding:"required"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	ImageURL    string    `json:"image_url"`
	AuthorName  string    `json:"author_name"`
	PublishedAt time.Time `json:"published_at"`
	ModifiedAt  time.Time `json:"modified_at"`
}

// renderJSONLD answers with the JSON-LD object, or with a ready script
// element when format=script.
func (s *Server) renderJSONLD(c *gin.Context, v any) {
	if c.Query("format") != "script" {
		c.JSON(http.StatusOK, v)
		return
	}

	tag, err := seo.ScriptTag(v)
	if err != nil {
		s.log.WithError(err).Error("failed to render json-ld")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render structured data"})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(tag))
}

func (s *Server) seoOrganization(c *gin.Context) {
	s.renderJSONLD(c, seo.BuildOrganization(seo.OrganizationInput{
		Name:    s.cfg.SiteName,
		URL:     s.cfg.SiteURL,
		LogoURL: s.cfg.SiteLogoURL,
	}))
}

func (s *Server) seoWebSite(c *gin.Context) {
	s.renderJSONLD(c, seo.BuildWebSite(seo.WebSiteInput{
		Name:              s.cfg.SiteName,
		URL:               s.cfg.SiteURL,
		SearchURLTemplate: s.cfg.SiteURL + "/search?q={search_term_string}",
	}))
}

func (s *Server) seoProduct(c *gin.Context) {
	var req productSEORequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := s.resolvePrice(req.ProductID, req.Price, req.Sales, time.Time{})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.renderJSONLD(c, seo.BuildProduct(seo.ProductInput{
		Name:        req.Name,
		Description: req.Description,
		URL:         req.URL,
		Images:      req.Images,
		SKU:         req.SKU,
		Brand:       req.Brand,
		Price:       req.Price,
		Currency:    s.cfg.StoreCurrency,
		InStock:     req.InStock,
		Sale:        &res,
	}))
}

func (s *Server) seoBreadcrumbs(c *gin.Context) {
	var crumbs []seo.Breadcrumb
	if err := c.ShouldBindJSON(&crumbs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(crumbs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least one breadcrumb is required"})
		return
	}

	s.renderJSONLD(c, seo.BuildBreadcrumbList(crumbs))
}

func (s *Server) seoBlogPosting(c *gin.Context) {
	var req blogPostingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.PublishedAt.IsZero() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "published_at is required"})
		return
	}

	s.renderJSONLD(c, seo.BuildBlogPosting(seo.BlogPostingInput{
		Headline:      req.Headline,
		Description:   req.Description,
		URL:           req.URL,
		ImageURL:      req.ImageURL,
		AuthorName:    req.AuthorName,
		PublisherName: s.cfg.SiteName,
		PublisherLogo: s.cfg.SiteLogoURL,
		PublishedAt:   req.PublishedAt,
		ModifiedAt:    req.ModifiedAt,
	}))
}
