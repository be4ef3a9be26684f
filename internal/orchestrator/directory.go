package orchestrator

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ternarybob/patrondl/internal/models"
)

// invalidPathRunes are characters stripped from campaign names when
// deriving a directory name, covering every filesystem the tool runs on.
const invalidPathRunes = `\/:*?"<>|`

// campaignDirectoryName derives a directory name from a campaign name:
// invalid filesystem characters stripped, lower-cased, trimmed.
func campaignDirectoryName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if r < 0x20 || strings.ContainsRune(invalidPathRunes, r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(strings.ToLower(b.String()))
}

// resolveOutputDirectory computes the output directory for a run and
// creates it with parents. When settings carry no explicit directory, the
// name is derived from the campaign and rooted under the download root.
// Filesystem failures are wrapped in ErrDirectoryCreation.
func (o *Orchestrator) resolveOutputDirectory(settings *models.RunSettings, campaign *models.CampaignInfo) (string, error) {
	dir := settings.DownloadDirectory
	if dir == "" {
		name := campaignDirectoryName(campaign.Name)
		if name == "" {
			name = fmt.Sprintf("campaign-%d", campaign.Id)
		}
		dir = filepath.Join(o.downloadRoot, name)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrDirectoryCreation, dir, err)
	}

	return dir, nil
}
