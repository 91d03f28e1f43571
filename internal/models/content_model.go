package models

type Content struct {
	AccountID string `json:"account_id"`
	ID        string `json:"id"`
	MainText  string `json:"main_text"`
	UsedCount int    `json:"used_count"`
	UseImage  string `json:"use_image"` // YES or NO
	IsShared  bool   `json:"is_shared,omitempty"`
}

func (c *Content) WantsImage() bool {
	return c.UseImage == "YES"
}

type AffiliateContent struct {
	ID           string `json:"id"`
	AccountID    string `json:"account_id"`
	ContentID    string `json:"content_id"`
	Description  string `json:"description"`
	AffiliateURL string `json:"affiliate_url"`
	CallToAction string `json:"call_to_action"`
	IsShared     bool   `json:"is_shared,omitempty"`
}

// DefaultAffiliate is the payload used when no affiliate row matches a
// content item. A reply must always have something to say.
func DefaultAffiliate() *AffiliateContent {
	return &AffiliateContent{
		ID:           "DEFAULT_001",
		Description:  "An app I actually use and recommend",
		AffiliateURL: "https://example.com/affiliate/default",
		CallToAction: "Check it out!",
	}
}
