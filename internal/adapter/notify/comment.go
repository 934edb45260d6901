package notify

import (
	"context"
	"fmt"

	"github.com/google/go-github/v60/github"
)

// CommentNotifier posts notifications as comments on a GitHub issue, so a
// training run can report into the issue that tracks the experiment.
type CommentNotifier struct {
	client *github.Client
	owner  string
	repo   string
	number int
}

// NewCommentNotifier creates a CommentNotifier authenticated with the given token.
func NewCommentNotifier(owner, repo string, number int, token string) *CommentNotifier {
	return NewCommentNotifierWithClient(github.NewClient(nil).WithAuthToken(token), owner, repo, number)
}

// NewCommentNotifierWithClient creates a CommentNotifier around an existing client.
func NewCommentNotifierWithClient(client *github.Client, owner, repo string, number int) *CommentNotifier {
	return &CommentNotifier{
		client: client,
		owner:  owner,
		repo:   repo,
		number: number,
	}
}

// Channel returns the channel label.
func (c *CommentNotifier) Channel() string {
	return "comment"
}

// Notify posts a comment on the configured issue.
func (c *CommentNotifier) Notify(ctx context.Context, message string) error {
	comment := &github.IssueComment{Body: github.String(message)}
	_, _, err := c.client.Issues.CreateComment(ctx, c.owner, c.repo, c.number, comment)
	if err != nil {
		return fmt.Errorf("post issue comment %s/%s#%d: %w", c.owner, c.repo, c.number, err)
	}
	return nil
}
