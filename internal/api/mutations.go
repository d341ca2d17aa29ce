package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/rshade/mindtool/internal/content"
	"github.com/rshade/mindtool/internal/tags"
)

type verifyRequest struct {
	Tags string `json:"tags"`
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

type notificationRequest struct {
	UserID  string `json:"userId"`
	Message string `json:"message"`
	Title   string `json:"title"`
}

type commentRequest struct {
	TargetID string `json:"targetId"`
	Content  string `json:"content"`
}

// SchematicUpload returns one upload, pending or your own.
func (c *Client) SchematicUpload(ctx context.Context, id string) (content.Schematic, error) {
	var out content.Schematic
	err := c.getJSON(ctx, "schematic-upload/"+url.PathEscape(id), nil, "schematic-upload/get", &out)
	return out, err
}

// VerifySchematic publishes a pending upload with the given tags.
func (c *Client) VerifySchematic(ctx context.Context, id string, tagList []tags.TagQuery) error {
	path := "schematic-upload/" + url.PathEscape(id) + "/verify"
	return c.sendJSON(ctx, http.MethodPost, path, verifyRequest{Tags: tags.Serialize(tagList)},
		"schematic-upload/verify", nil)
}

// RejectSchematic deletes a pending upload.
func (c *Client) RejectSchematic(ctx context.Context, id, reason string) error {
	path := "schematic-upload/" + url.PathEscape(id)
	return c.sendJSON(ctx, http.MethodDelete, path, rejectRequest{Reason: reason}, "schematic-upload/reject", nil)
}

// TotalSchematicUploads returns the number of uploads waiting for verification.
func (c *Client) TotalSchematicUploads(ctx context.Context) (int, error) {
	var total int
	if err := c.getJSON(ctx, "schematic-upload/total", nil, "schematic-upload/total", &total); err != nil {
		return 0, err
	}
	return total, nil
}

// PostNotification sends a message to a user's inbox.
func (c *Client) PostNotification(ctx context.Context, userID, message, title string) error {
	return c.sendJSON(ctx, http.MethodPost, "notification",
		notificationRequest{UserID: userID, Message: message, Title: title}, "notification/post", nil)
}

// PostComment adds a comment to a target and returns the stored comment.
func (c *Client) PostComment(ctx context.Context, contentType, targetID, text string) (content.Comment, error) {
	var out content.Comment
	path := "comment/" + url.PathEscape(contentType)
	err := c.sendJSON(ctx, http.MethodPost, path, commentRequest{TargetID: targetID, Content: text}, "comment/post", &out)
	return out, err
}

// DeleteComment removes a comment.
func (c *Client) DeleteComment(ctx context.Context, contentType, id string) error {
	path := "comment/" + url.PathEscape(contentType) + "/" + url.PathEscape(id)
	return c.do(ctx, http.MethodDelete, path, nil, nil, "comment/delete", nil)
}

// CurrentUser returns the account the token belongs to.
func (c *Client) CurrentUser(ctx context.Context) (content.User, error) {
	var user content.User
	err := c.getJSON(ctx, "users", nil, "users", &user)
	return user, err
}

// User returns the public profile of any account.
func (c *Client) User(ctx context.Context, id string) (content.User, error) {
	var user content.User
	err := c.getJSON(ctx, "users/"+url.PathEscape(id), nil, "users/get", &user)
	return user, err
}
