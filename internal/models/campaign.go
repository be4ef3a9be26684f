package models

import "fmt"

// CampaignInfo holds campaign metadata retrieved from the platform API.
// The orchestrator only reads Id and Name; the remaining fields belong to
// the metadata resolver and downstream stages.
type CampaignInfo struct {
	Id           int64  `json:"id"`
	Name         string `json:"name"`
	CreationName string `json:"creation_name"`
	AvatarURL    string `json:"avatar_url"`
	CoverURL     string `json:"cover_url"`
}

func (c *CampaignInfo) String() string {
	return fmt.Sprintf("%s (campaign %d)", c.Name, c.Id)
}
