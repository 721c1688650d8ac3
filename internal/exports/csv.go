// SPDX-License-Identifier: AGPL-3.0-only

// Package exports renders the viewer's data as downloadable files.
package exports

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/cssocial/desk/internal/preview"
	"github.com/cssocial/desk/internal/remote"
)

// PostRow is one exported post plus the viewer-local pin flag.
type PostRow struct {
	Post   remote.Post
	Pinned bool
}

// WritePostsCSV streams rows as CSV. The header is written even for an
// empty export so the file is self-describing.
func WritePostsCSV(w io.Writer, rows []PostRow) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{
		"post_id",
		"author",
		"posted_at",
		"content",
		"image_url",
		"likes",
		"comments",
		"pinned",
	}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, row := range rows {
		record := []string{
			row.Post.ID,
			row.Post.User.Username,
			row.Post.CreatedAt.Format(time.RFC3339),
			// Post content may carry markup; the export is plain text.
			preview.StripHTML(row.Post.Content),
			row.Post.ImageURL,
			strconv.Itoa(row.Post.LikesCount),
			strconv.Itoa(row.Post.CommentsCount),
			strconv.FormatBool(row.Pinned),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// Filename returns the attachment name for an export started now.
func Filename(username string) string {
	return fmt.Sprintf("cssocial_%s_posts_%s.csv", username, time.Now().Format("20060102_150405"))
}
