package models

import "fmt"

// CampaignPostCount is fixed by the marketing plan format: one post per day
// for nine days.
const CampaignPostCount = 9

// Post is a single day of a marketing campaign. ImagePrompt is the
// model-facing description and is never shown to the end user.
type Post struct {
	Day            int    `json:"day"`
	Title          string `json:"title"`
	Content        string `json:"content"` // rich text, user-editable after generation
	ImagePrompt    string `json:"image_prompt"`
	GeneratedImage string `json:"generated_image,omitempty"` // data URI, empty until resolved
	Error          bool   `json:"error,omitempty"`
}

type CampaignResult struct {
	CampaignName   string `json:"campaign_name"`
	Slogan         string `json:"slogan"`
	TargetAudience string `json:"target_audience"`
	Posts          []Post `json:"posts"`
}

// ValidatePosts checks the plan invariant: exactly CampaignPostCount posts
// whose day values form a dense 1..9 range. Days are assigned by the model
// response and are never recomputed locally.
func (c *CampaignResult) ValidatePosts() error {
	if len(c.Posts) != CampaignPostCount {
		return fmt.Errorf("expected %d posts, got %d", CampaignPostCount, len(c.Posts))
	}
	seen := make(map[int]bool, CampaignPostCount)
	for _, p := range c.Posts {
		if p.Day < 1 || p.Day > CampaignPostCount {
			return fmt.Errorf("post day %d out of range 1..%d", p.Day, CampaignPostCount)
		}
		if seen[p.Day] {
			return fmt.Errorf("duplicate post day %d", p.Day)
		}
		seen[p.Day] = true
	}
	return nil
}

// SortPostsByDay orders posts ascending by day. Generation iterates posts in
// day order, so the plan is normalized once after parsing.
func (c *CampaignResult) SortPostsByDay() {
	for i := 1; i < len(c.Posts); i++ {
		for j := i; j > 0 && c.Posts[j-1].Day > c.Posts[j].Day; j-- {
			c.Posts[j-1], c.Posts[j] = c.Posts[j], c.Posts[j-1]
		}
	}
}

// Clone returns a deep copy. Saved library items must not share mutable
// state with a live orchestrator result.
func (c *CampaignResult) Clone() *CampaignResult {
	if c == nil {
		return nil
	}
	out := *c
	out.Posts = make([]Post, len(c.Posts))
	copy(out.Posts, c.Posts)
	return &out
}

// FirstImage returns the first generated post image, if any.
func (c *CampaignResult) FirstImage() string {
	for _, p := range c.Posts {
		if p.GeneratedImage != "" {
			return p.GeneratedImage
		}
	}
	return ""
}
