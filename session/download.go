package session

import (
	"fmt"
	"time"

	"github.com/llmgate/promptrefiner/models"
)

// DownloadFilename names the attachment after the refinement time.
func DownloadFilename(ts time.Time) string {
	return fmt.Sprintf("refined_prompt_%s.txt", ts.Format("20060102_150405"))
}

// FormatDownload renders a refinement as the plain text download document.
func FormatDownload(record models.LastRefinedRecord) string {
	return fmt.Sprintf(`# Refined Prompt
Generated on: %s

## Original Prompt:
%s

## Refined Prompt:
%s

## Rationale:
%s
`, record.Timestamp.Format("2006-01-02T15:04:05.000000"), record.Original, record.Refined, record.Rationale)
}
