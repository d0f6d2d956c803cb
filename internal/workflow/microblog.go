// ABOUTME: Microblog post workflow
// ABOUTME: Creates a post with a fresh id and timestamp and inserts it once

package workflow

import (
	"context"

	"github.com/harper/adot/internal/config"
	"github.com/harper/adot/internal/models"
	"github.com/harper/adot/internal/storage"
)

// PostResult describes a stored microblog post.
type PostResult struct {
	Post   *models.MicroblogPost
	Stored storage.Document
}

// PostMicroblog stores content verbatim as a new post. Nothing precedes the
// insert, so a failure needs no compensation.
func PostMicroblog(ctx context.Context, d Deps, content string) (*PostResult, error) {
	_, store, err := d.openStore(ctx, config.RequireStore)
	if err != nil {
		return nil, err
	}
	defer func() { _ = store.Close() }()

	post := models.NewMicroblogPostAt(content, d.now())
	stored, err := store.Insert(ctx, models.MicroblogCollection, post.ID.String(), post.Document())
	if err != nil {
		return nil, err
	}
	d.logger().Debug("stored post", "id", post.ID)

	return &PostResult{Post: post, Stored: stored}, nil
}
