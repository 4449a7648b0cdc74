package pixel

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/Abubakarnofal03/opus-commerce-sub001/internal/domain"
)

const DefaultTikTokBaseURL = "https://business-api.tiktok.com/open_api/v1.3"

type TikTokConfig struct {
	PixelCode   string
	AccessToken string
	BaseURL     string
	SiteURL     string
	HTTPClient  *http.Client
}

// TikTok sends events to the TikTok Events API.
type TikTok struct {
	cfg    TikTokConfig
	client *http.Client
}

// NewTikTok returns nil when the pixel code or token is missing.
func NewTikTok(cfg TikTokConfig) *TikTok {
	if cfg.PixelCode == "" || cfg.AccessToken == "" {
		return nil
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultTikTokBaseURL
	}
	return &TikTok{cfg: cfg, client: newHTTPClient(cfg.HTTPClient)}
}

func (t *TikTok) Name() string {
	return "tiktok"
}

var tiktokEventNames = map[domain.PixelEventName]string{
	domain.PixelAddToCart:        "AddToCart",
	domain.PixelInitiateCheckout: "InitiateCheckout",
	domain.PixelPurchase:         "CompletePayment",
	domain.PixelPageView:         "Pageview",
}

type tiktokRequest struct {
	EventSource   string        `json:"event_source"`
	EventSourceID string        `json:"event_source_id"`
	Data          []tiktokEvent `json:"data"`
}

type tiktokEvent struct {
	Event      string         `json:"event"`
	EventTime  int64          `json:"event_time"`
	User       tiktokUser     `json:"user"`
	Page       tiktokPage     `json:"page"`
	Properties map[string]any `json:"properties,omitempty"`
}

type tiktokUser struct {
	IP        string `json:"ip,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
}

type tiktokPage struct {
	URL string `json:"url,omitempty"`
}

type tiktokResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (t *TikTok) Track(ctx context.Context, event domain.PixelEvent) error {
	name, ok := tiktokEventNames[event.Name]
	if !ok {
		return fmt.Errorf("tiktok: event[%s] is not supported", event.Name)
	}

	payload := tiktokRequest{
		EventSource:   "web",
		EventSourceID: t.cfg.PixelCode,
		Data: []tiktokEvent{{
			Event:     name,
			EventTime: event.EventTime.Unix(),
			User: tiktokUser{
				IP:        event.ClientIP,
				UserAgent: event.UserAgent,
			},
			Page:       tiktokPage{URL: joinURL(t.cfg.SiteURL, event.PagePath)},
			Properties: tiktokProperties(event),
		}},
	}

	header := http.Header{}
	header.Set("Access-Token", t.cfg.AccessToken)

	body, err := postJSON(ctx, t.client, strings.TrimRight(t.cfg.BaseURL, "/")+"/event/track/", header, payload)
	if err != nil {
		return fmt.Errorf("tiktok %s: %w", name, err)
	}

	var resp tiktokResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("tiktok %s: json.Unmarshal: %w", name, err)
	}
	if resp.Code != 0 {
		return fmt.Errorf("tiktok %s: code %d: %s", name, resp.Code, resp.Message)
	}

	return nil
}

func tiktokProperties(event domain.PixelEvent) map[string]any {
	props := map[string]any{}
	if event.Value.Valid {
		props["value"] = event.Value.Decimal.InexactFloat64()
		props["currency"] = event.Currency.String()
	}
	if len(event.ContentIDs) > 0 {
		contents := make([]map[string]any, 0, len(event.ContentIDs))
		for _, id := range event.ContentIDs {
			contents = append(contents, map[string]any{"content_id": id})
		}
		props["contents"] = contents
		props["content_type"] = "product"
	}
	if event.OrderID != "" {
		props["order_id"] = event.OrderID
	}
	if len(props) == 0 {
		return nil
	}
	return props
}
